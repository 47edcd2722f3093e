package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
		wantOffset        int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"capped", 2, 500, 2, 100, 100},
		{"third page", 3, 25, 3, 25, 50},
		{"huge page", math.MaxInt, 100, MaxPage, 100, (MaxPage - 1) * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.page, tt.limit, 20, 100)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLim, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}
