package media

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/media/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	ResolveSkuMedia(ctx context.Context, id auth.Identity, skuID string) (*dto.Resolution, error)
	GetVariantMedia(ctx context.Context, id auth.Identity, productID string) ([]dto.VariantGroup, error)
	SetVariantMedia(ctx context.Context, id auth.Identity, productID string, groups []dto.VariantMediaInput) ([]dto.VariantGroup, error)
	SetSkuMedia(ctx context.Context, id auth.Identity, skuID string, mediaIDs []string) ([]model.BoundMedia, error)

	UploadMedia(ctx context.Context, id auth.Identity, input *dto.UploadInput) (*model.Media, error)
	DeleteMedia(ctx context.Context, id auth.Identity, mediaID string) error
}
