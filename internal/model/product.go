package model

import "time"

type Product struct {
	BaseModel
	TenantID         string  `db:"tenant_id" json:"tenant_id"`
	DepartmentID     string  `db:"department_id" json:"department_id"`
	Name             string  `db:"name" json:"name"`
	Description      *string `db:"description" json:"description"`
	SPUCode          string  `db:"spu_code" json:"spu_code"`
	Status           string  `db:"status" json:"status"`
	CustomAttributes JSONMap `db:"custom_attributes" json:"custom_attributes"`
	SortOrder        int     `db:"sort_order" json:"sort_order"`
	Version          int     `db:"version" json:"version"`
}

const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

type SKU struct {
	BaseModel
	ProductID      string   `db:"product_id" json:"product_id"`
	SKUCode        string   `db:"sku_code" json:"sku_code"`
	Price          float64  `db:"price" json:"price"`
	MarketPrice    *float64 `db:"market_price" json:"market_price"`
	CostPrice      *float64 `db:"cost_price" json:"cost_price"`
	Stock          int      `db:"stock" json:"stock"`
	Specifications SpecMap  `db:"specifications" json:"specifications"`
}

// SiteProduct is a per-site override row; at most one per (site, product).
type SiteProduct struct {
	BaseModel
	SiteID          string  `db:"site_id" json:"site_id"`
	ProductID       string  `db:"product_id" json:"product_id"`
	SiteName        *string `db:"site_name" json:"site_name"`
	SiteDescription *string `db:"site_description" json:"site_description"`
	SEOTitle        *string `db:"seo_title" json:"seo_title"`
	IsVisible       bool    `db:"is_visible" json:"is_visible"`
	SortOrder       int     `db:"sort_order" json:"sort_order"`
}

type SiteSku struct {
	ID            string    `db:"id" json:"id"`
	SiteProductID string    `db:"site_product_id" json:"site_product_id"`
	SKUID         string    `db:"sku_id" json:"sku_id"`
	SitePrice     *float64  `db:"site_price" json:"site_price"`
	IsVisible     bool      `db:"is_visible" json:"is_visible"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
