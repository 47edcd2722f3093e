package distribution

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	BatchUpdateSortOrder(ctx context.Context, id auth.Identity, items []dto.SortOrderItem) (int, error)
	SetVisibility(ctx context.Context, id auth.Identity, productIDs []string, visible bool) (int, error)
	SaveOverride(ctx context.Context, id auth.Identity, o *dto.Override) (*model.SiteProduct, error)
}
