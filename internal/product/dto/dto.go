package dto

import (
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
)

type ProductFilters struct {
	Search         string `json:"search,omitempty"` // name, site name or SPU code
	SiteCategoryID string `json:"site_category_id,omitempty"`
	IsVisible      *bool  `json:"is_visible,omitempty"`
	IsListed       *bool  `json:"is_listed,omitempty"` // group sites only
	Status         string `json:"status,omitempty"`
	TemplateID     string `json:"template_id,omitempty"`
	Page           int    `json:"page"`
	PageSize       int    `json:"page_size"`
}

// ProductRow is one product as seen from a site, with the display fallback
// already applied by the query.
type ProductRow struct {
	model.Product
	DisplayName        string  `db:"display_name" json:"display_name"`
	DisplayDescription *string `db:"display_description" json:"display_description"`
	SiteProductID      *string `db:"site_product_id" json:"site_product_id"`
	SiteName           *string `db:"site_name" json:"site_name"`
	SiteDescription    *string `db:"site_description" json:"site_description"`
	SEOTitle           *string `db:"seo_title" json:"seo_title"`
	SiteIsVisible      *bool   `db:"site_is_visible" json:"site_is_visible"`
	SiteSortOrder      *int    `db:"site_sort_order" json:"site_sort_order"`
	TemplateID         *string `db:"template_id" json:"template_id"`
	MasterCategoryID   *string `db:"master_category_id" json:"master_category_id"`
}

type SKUItem struct {
	model.SKU
	Media []model.BoundMedia `json:"media"`
}

// ProductItem is a listing entry with its schema, media and SKUs attached.
type ProductItem struct {
	ProductRow
	IsListed        bool                `json:"is_listed"`
	SiteCategoryIDs []string            `json:"site_category_ids"`
	SkuSpecFields   []template.FieldDef `json:"sku_spec_fields"`
	CommonFields    []template.FieldDef `json:"common_fields"`
	Media           []model.BoundMedia  `json:"media"`
	MainImage       *model.BoundMedia   `json:"main_image"`
	SKUs            []SKUItem           `json:"skus"`
}

type Suggestion struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SPUCode string `json:"spu_code"`
}
