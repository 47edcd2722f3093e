package dto

// FieldInput combines a key definition with the seed data for its values.
// Value and Options keep the loose shapes older clients send: Value may be a
// string, number or bool; Options may hold empty or non-string entries.
type FieldInput struct {
	Key        string        `json:"key"`
	InputType  string        `json:"inputType"`
	IsRequired bool          `json:"isRequired"`
	IsSkuSpec  bool          `json:"isSkuSpec"`
	Role       string        `json:"role,omitempty"`
	Value      interface{}   `json:"value,omitempty"`
	Options    []interface{} `json:"options,omitempty"`
}

type CreateTemplateInput struct {
	Name             string
	MasterCategoryID string
	Fields           []FieldInput
}

type UpdateTemplateInput struct {
	ID               string
	Name             string
	MasterCategoryID string
	Fields           []FieldInput
	ExpectedVersion  *int
}
