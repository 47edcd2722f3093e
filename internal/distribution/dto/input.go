package dto

type SortOrderItem struct {
	ProductID string `json:"productId" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

// Override carries the site-level fields a site may change on a product.
// Nil pointers leave the stored value unchanged; an empty string clears it.
// A nil SiteCategoryIDs leaves the category assignment unchanged.
type Override struct {
	TenantID        string
	SiteID          string
	ProductID       string
	SiteName        *string
	SiteDescription *string
	SEOTitle        *string
	IsVisible       *bool
	SiteCategoryIDs []string
}
