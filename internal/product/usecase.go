package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type UseCase interface {
	ListProducts(ctx context.Context, id auth.Identity, filters *dto.ProductFilters) ([]dto.ProductItem, int, error)
	GetProduct(ctx context.Context, id auth.Identity, productID string) (*dto.ProductItem, error)
	CreateProduct(ctx context.Context, id auth.Identity, input *dto.CreateProductInput) (*dto.ProductItem, error)
	UpdateProduct(ctx context.Context, id auth.Identity, input *dto.UpdateProductInput) (*dto.ProductItem, error)
	BatchDelete(ctx context.Context, id auth.Identity, productIDs []string) (int, error)

	CreateSKU(ctx context.Context, id auth.Identity, productID string, input *dto.SKUInput) (*model.SKU, error)
	UpdateSKU(ctx context.Context, id auth.Identity, input *dto.UpdateSKUInput) (*model.SKU, error)
	DeleteSKU(ctx context.Context, id auth.Identity, skuID string) error

	SuggestProducts(ctx context.Context, id auth.Identity, q string, size int) ([]dto.Suggestion, error)
	ExportProducts(ctx context.Context, id auth.Identity, filters *dto.ProductFilters) ([]byte, error)
}
