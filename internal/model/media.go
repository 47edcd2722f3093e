package model

import "time"

type Media struct {
	ID         string    `db:"id" json:"id"`
	TenantID   string    `db:"tenant_id" json:"tenant_id"`
	URL        string    `db:"url" json:"url"`
	StorageKey string    `db:"storage_key" json:"storage_key"`
	MediaType  MediaType `db:"media_type" json:"media_type"`
	MimeType   string    `db:"mime_type" json:"mime_type"`
	Size       int64     `db:"size" json:"size"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// BoundMedia is a media row joined through one of the binding tables.
// OwnerID is the product, SKU or template value the binding hangs off.
type BoundMedia struct {
	OwnerID   string    `db:"owner_id" json:"-"`
	MediaID   string    `db:"media_id" json:"id"`
	URL       string    `db:"url" json:"url"`
	MediaType MediaType `db:"media_type" json:"media_type"`
	IsMain    bool      `db:"is_main" json:"is_main"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
}

type ProductMedia struct {
	ProductID string `db:"product_id"`
	MediaID   string `db:"media_id"`
	IsMain    bool   `db:"is_main"`
	SortOrder int    `db:"sort_order"`
}

type SkuMedia struct {
	SKUID     string `db:"sku_id"`
	MediaID   string `db:"media_id"`
	IsMain    bool   `db:"is_main"`
	SortOrder int    `db:"sort_order"`
}

type ProductVariantMedia struct {
	ProductID       string `db:"product_id"`
	TemplateValueID string `db:"template_value_id"`
	MediaID         string `db:"media_id"`
	IsMain          bool   `db:"is_main"`
	SortOrder       int    `db:"sort_order"`
}

// MainMedia picks the item flagged main, falling back to the first image,
// then to the first item.
func MainMedia(items []BoundMedia) *BoundMedia {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].IsMain {
			return &items[i]
		}
	}
	for i := range items {
		if items[i].MediaType == MediaImage {
			return &items[i]
		}
	}
	return &items[0]
}
