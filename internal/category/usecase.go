package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, id auth.Identity, input *dto.CreateCategoryInput) (*model.SiteCategory, error)
	GetCategory(ctx context.Context, id auth.Identity, categoryID string) (*model.SiteCategory, error)
	ListCategories(ctx context.Context, id auth.Identity, filters *dto.CategoryFilters) ([]model.SiteCategory, int, error)
	UpdateCategory(ctx context.Context, id auth.Identity, input *dto.UpdateCategoryInput) (*model.SiteCategory, error)
	DeleteCategory(ctx context.Context, id auth.Identity, categoryID string) error
	BelongToSite(ctx context.Context, tenantID, siteID string, ids []string) (bool, error)
}
