package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// Repository stores site categories. Every method is scoped to one tenant
// and site.
type Repository interface {
	Create(ctx context.Context, category *model.SiteCategory) error
	FindByID(ctx context.Context, tenantID, siteID, id string) (*model.SiteCategory, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.SiteCategory, int, error)
	Update(ctx context.Context, category *model.SiteCategory) error
	Delete(ctx context.Context, tenantID, siteID, id string) (bool, error)
	CountInSite(ctx context.Context, tenantID, siteID string, ids []string) (int, error)
}
