package indexer

import "time"

// Document is the search representation of a product.
type Document struct {
	ID           string    `json:"id" db:"id"`
	TenantID     string    `json:"tenant_id" db:"tenant_id"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	SPUCode      string    `json:"spu_code" db:"spu_code"`
	Status       string    `json:"status" db:"status"`
	SKUCodes     []string  `json:"sku_codes" db:"-"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

const Mapping = `{
	"mappings": {
		"properties": {
			"tenant_id": { "type": "keyword" },
			"department_id": { "type": "keyword" },
			"name": { "type": "search_as_you_type" },
			"description": { "type": "text" },
			"spu_code": { "type": "keyword" },
			"status": { "type": "keyword" },
			"sku_codes": { "type": "keyword" },
			"updated_at": { "type": "date" }
		}
	}
}`
