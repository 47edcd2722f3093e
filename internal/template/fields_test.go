package template

import (
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveValues(t *testing.T) {
	tests := []struct {
		name  string
		field dto.FieldInput
		want  []string
	}{
		{
			name:  "select options win over value",
			field: dto.FieldInput{InputType: "select", Options: []interface{}{"S", "M"}, Value: "X, Y"},
			want:  []string{"S", "M"},
		},
		{
			name:  "select legacy comma value",
			field: dto.FieldInput{InputType: "select", Value: "S, M ,L"},
			want:  []string{"S", "M", "L"},
		},
		{
			name:  "multiselect drops falsy options verbatim",
			field: dto.FieldInput{InputType: "multiselect", Options: []interface{}{"Red", "", nil, " Blue ", false, 0.0, 3.0}},
			want:  []string{"Red", " Blue ", "3"},
		},
		{
			name:  "select empty options falls back to value",
			field: dto.FieldInput{InputType: "select", Options: []interface{}{}, Value: "A,,B, "},
			want:  []string{"A", "B"},
		},
		{
			name:  "select non-string value",
			field: dto.FieldInput{InputType: "select", Value: 12.0},
			want:  nil,
		},
		{
			name:  "text value trimmed",
			field: dto.FieldInput{InputType: "text", Value: " 42 "},
			want:  []string{"42"},
		},
		{
			name:  "number value stringified",
			field: dto.FieldInput{InputType: "number", Value: 1.5},
			want:  []string{"1.5"},
		},
		{
			name:  "text without value",
			field: dto.FieldInput{InputType: "text", Options: []interface{}{"ignored"}},
			want:  nil,
		},
		{
			name:  "unknown input type",
			field: dto.FieldInput{InputType: "date", Value: "2024-01-01"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveValues(tt.field))
		})
	}
}

func TestBuildKeys(t *testing.T) {
	keys, err := BuildKeys("tpl-1", []dto.FieldInput{
		{Key: " Size ", InputType: "select", IsSkuSpec: true, IsRequired: true, Options: []interface{}{"S", "M"}},
		{Key: "Color", InputType: "select", IsSkuSpec: true, Value: "Red,Blue"},
		{Key: "Fabric", InputType: "text", Value: "Cotton"},
	})
	require.NoError(t, err)
	require.Len(t, keys, 3)

	assert.Equal(t, "Size", keys[0].Key)
	assert.Equal(t, 0, keys[0].SortOrder)
	assert.Equal(t, model.RoleGeneric, keys[0].Role)
	assert.Equal(t, "tpl-1", keys[0].TemplateID)
	require.Len(t, keys[0].Values, 2)
	assert.Equal(t, keys[0].ID, keys[0].Values[0].TemplateKeyID)
	assert.Equal(t, 1, keys[0].Values[1].SortOrder)

	assert.Equal(t, model.RoleColor, keys[1].Role)
	assert.Equal(t, []string{"Red", "Blue"}, []string{keys[1].Values[0].Value, keys[1].Values[1].Value})

	assert.False(t, keys[2].IsSkuSpec)
	require.Len(t, keys[2].Values, 1)
	assert.Equal(t, "Cotton", keys[2].Values[0].Value)
}

func TestBuildKeysColorTagging(t *testing.T) {
	t.Run("first heuristic match wins", func(t *testing.T) {
		keys, err := BuildKeys("tpl", []dto.FieldInput{
			{Key: "Size", InputType: "select"},
			{Key: "颜色", InputType: "select"},
			{Key: "Colour", InputType: "select"},
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleGeneric, keys[0].Role)
		assert.Equal(t, model.RoleColor, keys[1].Role)
		assert.Equal(t, model.RoleGeneric, keys[2].Role)
	})

	t.Run("explicit tag beats heuristic", func(t *testing.T) {
		keys, err := BuildKeys("tpl", []dto.FieldInput{
			{Key: "Color", InputType: "select"},
			{Key: "Finish", InputType: "select", Role: "color"},
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleGeneric, keys[0].Role)
		assert.Equal(t, model.RoleColor, keys[1].Role)
	})
}

func TestBuildKeysRejects(t *testing.T) {
	tests := []struct {
		name   string
		fields []dto.FieldInput
		msgID  string
	}{
		{"empty key", []dto.FieldInput{{Key: "  ", InputType: "text"}}, apperror.MsgFieldKeyRequired},
		{"duplicate key", []dto.FieldInput{{Key: "Size", InputType: "text"}, {Key: " Size", InputType: "select"}}, apperror.MsgFieldKeyDuplicate},
		{"bad input type", []dto.FieldInput{{Key: "Size", InputType: "date"}}, apperror.MsgFieldInputType},
		{"bad role", []dto.FieldInput{{Key: "Size", InputType: "text", Role: "size"}}, apperror.MsgFieldRole},
		{"two colors", []dto.FieldInput{{Key: "A", InputType: "select", Role: "color"}, {Key: "B", InputType: "select", Role: "color"}}, apperror.MsgColorFieldDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildKeys("tpl", tt.fields)
			require.Error(t, err)
			appErr := apperror.As(err)
			assert.Equal(t, apperror.KindBadRequest, appErr.Kind)
			assert.Equal(t, tt.msgID, appErr.MessageID)
		})
	}
}
