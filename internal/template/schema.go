package template

import (
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
)

type Option struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// FieldDef is the read-side view of a template key.
type FieldDef struct {
	KeyID     string          `json:"id"`
	Key       string          `json:"key"`
	InputType model.InputType `json:"input_type"`
	Required  bool            `json:"is_required"`
	SkuSpec   bool            `json:"is_sku_spec"`
	Role      model.KeyRole   `json:"role"`
	Options   []Option        `json:"options"`
}

func (f FieldDef) OptionByValue(v string) (Option, bool) {
	for _, o := range f.Options {
		if o.Value == v {
			return o, true
		}
	}
	return Option{}, false
}

// Schema is the live field set of one template, used to validate and prune
// SKU specification maps.
type Schema struct {
	TemplateID string
	Fields     []FieldDef
}

func NewSchema(templateID string, keys []model.TemplateKey) Schema {
	s := Schema{TemplateID: templateID, Fields: make([]FieldDef, 0, len(keys))}
	for _, k := range keys {
		f := FieldDef{
			KeyID:     k.ID,
			Key:       k.Key,
			InputType: k.InputType,
			Required:  k.IsRequired,
			SkuSpec:   k.IsSkuSpec,
			Role:      k.Role,
			Options:   make([]Option, 0, len(k.Values)),
		}
		for _, v := range k.Values {
			f.Options = append(f.Options, Option{ID: v.ID, Value: v.Value})
		}
		s.Fields = append(s.Fields, f)
	}
	return s
}

func (s Schema) Field(key string) (FieldDef, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDef{}, false
}

func (s Schema) SkuSpecFields() []FieldDef {
	out := []FieldDef{}
	for _, f := range s.Fields {
		if f.SkuSpec {
			out = append(out, f)
		}
	}
	return out
}

func (s Schema) CommonFields() []FieldDef {
	out := []FieldDef{}
	for _, f := range s.Fields {
		if !f.SkuSpec {
			out = append(out, f)
		}
	}
	return out
}

// ColorField returns the field tagged color. Templates written before roles
// existed fall back to the first key whose name reads as a color.
func (s Schema) ColorField() (FieldDef, bool) {
	for _, f := range s.Fields {
		if f.Role == model.RoleColor {
			return f, true
		}
	}
	for _, f := range s.Fields {
		if LooksLikeColor(f.Key) {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Prune keeps only the entries whose key is a SKU spec field.
func (s Schema) Prune(spec model.SpecMap) model.SpecMap {
	return spec.Filter(func(key string) bool {
		f, ok := s.Field(key)
		return ok && f.SkuSpec
	})
}

// Validate checks spec against the SKU spec fields and returns the trimmed map.
func (s Schema) Validate(spec model.SpecMap) (model.SpecMap, error) {
	out := model.SpecMap{}
	for _, e := range spec {
		f, ok := s.Field(e.Key)
		if !ok || !f.SkuSpec {
			return nil, apperror.BadRequest(apperror.MsgSpecKeyUnknown, map[string]interface{}{"Key": e.Key})
		}
		v := strings.TrimSpace(e.Value)
		if v == "" {
			continue
		}
		if err := checkValue(f, v); err != nil {
			return nil, err
		}
		out.Set(e.Key, v)
	}

	for _, f := range s.SkuSpecFields() {
		if !f.Required {
			continue
		}
		if _, ok := out.Get(f.Key); !ok {
			return nil, apperror.BadRequest(apperror.MsgSpecValueRequired, map[string]interface{}{"Key": f.Key})
		}
	}
	return out, nil
}

func checkValue(f FieldDef, v string) error {
	switch f.InputType {
	case model.InputNumber:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return apperror.BadRequest(apperror.MsgSpecValueNotNumber, map[string]interface{}{"Key": f.Key})
		}
	case model.InputSelect:
		if len(f.Options) > 0 {
			if _, ok := f.OptionByValue(v); !ok {
				return apperror.BadRequest(apperror.MsgSpecValueInvalid, map[string]interface{}{"Key": f.Key, "Value": v})
			}
		}
	case model.InputMultiSelect:
		if len(f.Options) > 0 {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if _, ok := f.OptionByValue(part); !ok {
					return apperror.BadRequest(apperror.MsgSpecValueInvalid, map[string]interface{}{"Key": f.Key, "Value": part})
				}
			}
		}
	}
	return nil
}
