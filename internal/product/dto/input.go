package dto

import (
	distdto "github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type SKUInput struct {
	SKUCode        string        `json:"skuCode"`
	Price          float64       `json:"price"`
	MarketPrice    *float64      `json:"marketPrice"`
	CostPrice      *float64      `json:"costPrice"`
	Stock          int           `json:"stock"`
	Specifications model.SpecMap `json:"specifications"`
}

type CreateProductInput struct {
	Name             string                 `json:"name" binding:"required"`
	Description      string                 `json:"description"`
	SPUCode          string                 `json:"spuCode"`
	Status           string                 `json:"status"`
	CustomAttributes map[string]interface{} `json:"customAttributes"`
	TemplateID       string                 `json:"templateId"`
	SiteCategoryID   string                 `json:"siteCategoryId"`
	MediaIDs         []string               `json:"mediaIds"`
	SKUs             []SKUInput             `json:"skus"`
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
// Product fields may only be sent from factory sites, the Site* fields from
// any site.
type UpdateProductInput struct {
	ID               string                  `json:"-"`
	Name             *string                 `json:"name"`
	Description      *string                 `json:"description"`
	SPUCode          *string                 `json:"spuCode"`
	Status           *string                 `json:"status"`
	CustomAttributes *map[string]interface{} `json:"customAttributes"`
	TemplateID       *string                 `json:"templateId"`
	MediaIDs         *[]string               `json:"mediaIds"`
	ExpectedVersion  *int                    `json:"expectedVersion"`

	SiteName        *string  `json:"siteName"`
	SiteDescription *string  `json:"siteDescription"`
	SEOTitle        *string  `json:"seoTitle"`
	IsVisible       *bool    `json:"isVisible"`
	SiteCategoryIDs []string `json:"siteCategoryIds"`
}

func (in *UpdateProductInput) TouchesProduct() bool {
	return in.Name != nil || in.Description != nil || in.SPUCode != nil || in.Status != nil ||
		in.CustomAttributes != nil || in.TemplateID != nil || in.MediaIDs != nil
}

func (in *UpdateProductInput) Override(productID string) *distdto.Override {
	return &distdto.Override{
		ProductID:       productID,
		SiteName:        in.SiteName,
		SiteDescription: in.SiteDescription,
		SEOTitle:        in.SEOTitle,
		IsVisible:       in.IsVisible,
		SiteCategoryIDs: in.SiteCategoryIDs,
	}
}

type UpdateSKUInput struct {
	ID string `json:"-"`
	SKUInput
}

// NewProduct is everything CreateProduct writes in one transaction.
type NewProduct struct {
	Product          *model.Product
	TemplateID       string
	MasterCategoryID string
	SiteProduct      *model.SiteProduct
	SiteCategoryID   string
	Media            []model.ProductMedia
	SKUs             []model.SKU
}

// ProductChanges is everything the factory branch of UpdateProduct writes in
// one transaction. Nil members are left untouched.
type ProductChanges struct {
	Product          *model.Product
	ExpectedVersion  *int
	TemplateID       *string
	MasterCategoryID string
	PrunedSKUs       []model.SKU
	Media            *[]model.ProductMedia
	Override         *distdto.Override
}
