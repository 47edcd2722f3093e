package model

type Template struct {
	BaseModel
	Name             string        `db:"name" json:"name"`
	MasterCategoryID string        `db:"master_category_id" json:"master_category_id"`
	Version          int           `db:"version" json:"version"`
	Keys             []TemplateKey `db:"-" json:"keys,omitempty"`
}

type TemplateKey struct {
	ID         string          `db:"id" json:"id"`
	TemplateID string          `db:"template_id" json:"template_id"`
	Key        string          `db:"key" json:"key"`
	InputType  InputType       `db:"input_type" json:"input_type"`
	IsRequired bool            `db:"is_required" json:"is_required"`
	IsSkuSpec  bool            `db:"is_sku_spec" json:"is_sku_spec"`
	Role       KeyRole         `db:"role" json:"role"`
	SortOrder  int             `db:"sort_order" json:"sort_order"`
	Values     []TemplateValue `db:"-" json:"values"`
}

type TemplateValue struct {
	ID            string `db:"id" json:"id"`
	TemplateKeyID string `db:"template_key_id" json:"template_key_id"`
	Value         string `db:"value" json:"value"`
	SortOrder     int    `db:"sort_order" json:"sort_order"`
}
