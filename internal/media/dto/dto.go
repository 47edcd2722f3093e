package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

// Resolution is the media set shown for one SKU and the tier it came from.
type Resolution struct {
	SKUID  string             `json:"sku_id"`
	Source model.MediaSource  `json:"source"`
	Media  []model.BoundMedia `json:"media"`
}

type VariantGroup struct {
	TemplateValueID string             `json:"template_value_id"`
	Value           string             `json:"value"`
	Media           []model.BoundMedia `json:"media"`
}

// SKUContext is a SKU with what media resolution needs from its product.
type SKUContext struct {
	SKUID          string        `db:"sku_id"`
	ProductID      string        `db:"product_id"`
	DepartmentID   string        `db:"department_id"`
	TemplateID     *string       `db:"template_id"`
	Specifications model.SpecMap `db:"specifications"`
}

type ProductContext struct {
	ProductID    string  `db:"product_id"`
	DepartmentID string  `db:"department_id"`
	TemplateID   *string `db:"template_id"`
}

type VariantMediaInput struct {
	TemplateValueID string   `json:"templateValueId" binding:"required"`
	MediaIDs        []string `json:"mediaIds"`
}

type UploadInput struct {
	Data        []byte
	Filename    string
	ContentType string
	Category    string
}
