package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

var ErrStaleVersion = errors.New("product version mismatch")

type Repository interface {
	FindDepartment(ctx context.Context, tenantID, id string) (*model.Department, error)

	// FindAll lists products visible to the site. List and count share the
	// same FROM and WHERE.
	FindAll(ctx context.Context, p distribution.Policy, filters *dto.ProductFilters) ([]dto.ProductRow, int, error)
	FindOne(ctx context.Context, p distribution.Policy, id string) (*dto.ProductRow, error)
	FindByID(ctx context.Context, tenantID, id string) (*model.Product, error)
	FindTemplateID(ctx context.Context, productID string) (string, error)

	FindMedia(ctx context.Context, productIDs []string) (map[string][]model.BoundMedia, error)
	FindSKUs(ctx context.Context, productIDs []string) (map[string][]model.SKU, error)
	FindSKUMedia(ctx context.Context, skuIDs []string) (map[string][]model.BoundMedia, error)
	FindSiteCategoryIDs(ctx context.Context, siteProductIDs []string) (map[string][]string, error)

	Create(ctx context.Context, np *dto.NewProduct) error
	Update(ctx context.Context, changes *dto.ProductChanges) error

	// DeepDelete removes the products owned by the department together with
	// every row that references them. It returns the ids actually deleted.
	DeepDelete(ctx context.Context, tenantID, departmentID string, ids []string) ([]string, error)
	// ShallowDelete removes only the site's own rows for the products.
	ShallowDelete(ctx context.Context, tenantID, siteID string, ids []string) (int, error)

	FindSKU(ctx context.Context, tenantID, skuID string) (*model.SKU, error)
	CreateSKU(ctx context.Context, sku *model.SKU) error
	UpdateSKU(ctx context.Context, sku *model.SKU) error
	DeleteSKU(ctx context.Context, skuID string) error
}
