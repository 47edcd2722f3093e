package media

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/media/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, tenantID, id string) (*model.Media, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Media, error)
	Create(ctx context.Context, m *model.Media) error
	// Delete removes the media row and every binding to it.
	Delete(ctx context.Context, id string) error

	FindSKUContext(ctx context.Context, tenantID, skuID string) (*dto.SKUContext, error)
	FindProductContext(ctx context.Context, tenantID, productID string) (*dto.ProductContext, error)

	FindSKUMedia(ctx context.Context, skuID string) ([]model.BoundMedia, error)
	FindProductMedia(ctx context.Context, productID string) ([]model.BoundMedia, error)
	// FindVariantMedia groups the product's variant media by template value.
	FindVariantMedia(ctx context.Context, productID string, valueIDs []string) (map[string][]model.BoundMedia, error)

	ReplaceSKUMedia(ctx context.Context, skuID string, rows []model.SkuMedia) error
	ReplaceVariantMedia(ctx context.Context, productID string, rows []model.ProductVariantMedia) error
}
