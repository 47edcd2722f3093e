package blob

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

	key := ObjectKey("catalog", " Product/", "Photo.JPG", now)
	assert.True(t, strings.HasPrefix(key, "catalog/product/2026/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)

	key = ObjectKey("", "", "clip", now)
	assert.True(t, strings.HasPrefix(key, "misc/2026/03/"), key)
	assert.False(t, strings.Contains(key, "."), key)
}
