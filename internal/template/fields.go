package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/google/uuid"
)

var colorKeyPattern = regexp.MustCompile(`(?i)color|颜色|colour`)

// LooksLikeColor reports whether a key name reads as a color attribute.
func LooksLikeColor(key string) bool {
	return colorKeyPattern.MatchString(key)
}

// DeriveValues turns one field input into its ordered template values.
//
// select/multiselect: non-empty Options win (falsy entries dropped); else a
// string Value is split on commas. text/number: a present Value becomes the
// single default. Anything else derives nothing.
func DeriveValues(f dto.FieldInput) []string {
	switch model.InputType(f.InputType) {
	case model.InputSelect, model.InputMultiSelect:
		if len(f.Options) > 0 {
			out := make([]string, 0, len(f.Options))
			for _, o := range f.Options {
				if isFalsy(o) {
					continue
				}
				out = append(out, stringify(o))
			}
			return out
		}
		s, ok := f.Value.(string)
		if !ok {
			return nil
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case model.InputText, model.InputNumber:
		if f.Value == nil {
			return nil
		}
		v := strings.TrimSpace(stringify(f.Value))
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// BuildKeys validates the field list and materialises keys with fresh ids,
// positions and derived values. When no field is tagged color, the first key
// whose name reads as a color is tagged.
func BuildKeys(templateID string, fields []dto.FieldInput) ([]model.TemplateKey, error) {
	keys := make([]model.TemplateKey, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	explicitColor := false

	for i, f := range fields {
		name := strings.TrimSpace(f.Key)
		if name == "" {
			return nil, apperror.BadRequest(apperror.MsgFieldKeyRequired, map[string]interface{}{"Index": i + 1})
		}
		if seen[name] {
			return nil, apperror.BadRequest(apperror.MsgFieldKeyDuplicate, map[string]interface{}{"Key": name})
		}
		seen[name] = true

		inputType := model.InputType(f.InputType)
		if !inputType.Valid() {
			return nil, apperror.BadRequest(apperror.MsgFieldInputType, map[string]interface{}{"Key": name, "InputType": f.InputType})
		}

		role := model.RoleGeneric
		if f.Role != "" {
			role = model.KeyRole(f.Role)
			if !role.Valid() {
				return nil, apperror.BadRequest(apperror.MsgFieldRole, map[string]interface{}{"Key": name, "Role": f.Role})
			}
		}
		if role == model.RoleColor {
			if explicitColor {
				return nil, apperror.BadRequest(apperror.MsgColorFieldDuplicate, nil)
			}
			explicitColor = true
		}

		key := model.TemplateKey{
			ID:         uuid.New().String(),
			TemplateID: templateID,
			Key:        name,
			InputType:  inputType,
			IsRequired: f.IsRequired,
			IsSkuSpec:  f.IsSkuSpec,
			Role:       role,
			SortOrder:  i,
		}
		for j, v := range DeriveValues(f) {
			key.Values = append(key.Values, model.TemplateValue{
				ID:            uuid.New().String(),
				TemplateKeyID: key.ID,
				Value:         v,
				SortOrder:     j,
			})
		}
		keys = append(keys, key)
	}

	if !explicitColor {
		for i := range keys {
			if LooksLikeColor(keys[i].Key) {
				keys[i].Role = model.RoleColor
				break
			}
		}
	}
	return keys, nil
}

func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
