package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecMapKeepsOrder(t *testing.T) {
	var m SpecMap
	require.NoError(t, json.Unmarshal([]byte(`{"Size":"M","Color":"Red","Weight":12}`), &m))

	assert.Equal(t, []string{"Size", "Color", "Weight"}, m.Keys())
	v, ok := m.Get("Weight")
	assert.True(t, ok)
	assert.Equal(t, "12", v)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"Size":"M","Color":"Red","Weight":"12"}`, string(out))
}

func TestSpecMapScanStoredForms(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want SpecMap
	}{
		{"object bytes", []byte(`{"颜色":"红"}`), SpecMap{{Key: "颜色", Value: "红"}}},
		{"double encoded", `"{\"Size\":\"L\"}"`, SpecMap{{Key: "Size", Value: "L"}}},
		{"null", nil, SpecMap{}},
		{"empty string", `""`, SpecMap{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m SpecMap
			require.NoError(t, m.Scan(tt.src))
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestSpecMapRejectsArrays(t *testing.T) {
	var m SpecMap
	assert.Error(t, m.Scan([]byte(`["a"]`)))
}

func TestSpecMapFilter(t *testing.T) {
	m := SpecMap{{Key: "Size", Value: "M"}, {Key: "Fabric", Value: "Cotton"}, {Key: "Color", Value: "Red"}}
	got := m.Filter(func(k string) bool { return k != "Fabric" })
	assert.Equal(t, SpecMap{{Key: "Size", Value: "M"}, {Key: "Color", Value: "Red"}}, got)
}

func TestMainMedia(t *testing.T) {
	assert.Nil(t, MainMedia(nil))

	items := []BoundMedia{
		{MediaID: "v1", MediaType: MediaVideo, SortOrder: -1},
		{MediaID: "i1", MediaType: MediaImage, SortOrder: 0},
		{MediaID: "i2", MediaType: MediaImage, SortOrder: 1},
	}
	assert.Equal(t, "i1", MainMedia(items).MediaID)

	items[2].IsMain = true
	assert.Equal(t, "i2", MainMedia(items).MediaID)
}
