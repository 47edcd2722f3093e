package model

import "time"

const (
	EventProductUpserted = "product.upserted"
	EventProductDeleted  = "product.deleted"
)

// CatalogEvent is published to the catalog topic after a write commits.
type CatalogEvent struct {
	Type       string    `json:"type"`
	TenantID   string    `json:"tenant_id"`
	ProductID  string    `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
