package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
)

// CategoryChecker verifies that site categories belong to a site.
type CategoryChecker interface {
	BelongToSite(ctx context.Context, tenantID, siteID string, ids []string) (bool, error)
}

type distributionUseCase struct {
	repo       distribution.Repository
	categories CategoryChecker
	cache      *cache.RedisClient
	logger     logger.ZapLogger
}

func NewDistributionUseCase(repo distribution.Repository, categories CategoryChecker, cache *cache.RedisClient, log logger.ZapLogger) distribution.UseCase {
	return &distributionUseCase{
		repo:       repo,
		categories: categories,
		cache:      cache,
		logger:     log,
	}
}

func (uc *distributionUseCase) BatchUpdateSortOrder(ctx context.Context, id auth.Identity, items []dto.SortOrderItem) (int, error) {
	if len(items) == 0 {
		return 0, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "items are required"})
	}
	p := distribution.NewPolicy(id)

	// The factory's order is the default every other site falls back to.
	n, err := uc.repo.UpdateSortOrders(ctx, p, items, p.IsFactory())
	if err != nil {
		uc.logger.Error("failed to update sort order", zap.String("site_id", id.SiteID), zap.Error(err))
		return 0, apperror.Internal(err)
	}
	// uncurated products have no site row to order
	if n == 0 {
		return 0, apperror.NotFound(apperror.MsgNoSiteProducts, nil)
	}

	uc.invalidate(ctx, id.TenantID)
	return n, nil
}

func (uc *distributionUseCase) SetVisibility(ctx context.Context, id auth.Identity, productIDs []string, visible bool) (int, error) {
	if len(productIDs) == 0 {
		return 0, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "productIds are required"})
	}

	n, err := uc.repo.SetVisibility(ctx, distribution.NewPolicy(id), productIDs, visible)
	if err != nil {
		uc.logger.Error("failed to set visibility", zap.String("site_id", id.SiteID), zap.Error(err))
		return 0, apperror.Internal(err)
	}
	if n == 0 {
		return 0, apperror.NotFound(apperror.MsgNoSiteProducts, nil)
	}

	uc.invalidate(ctx, id.TenantID)
	return n, nil
}

func (uc *distributionUseCase) SaveOverride(ctx context.Context, id auth.Identity, o *dto.Override) (*model.SiteProduct, error) {
	p := distribution.NewPolicy(id)

	exists, err := uc.repo.ProductExists(ctx, p, o.ProductID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !exists {
		return nil, apperror.NotFound(apperror.MsgProductNotFound, map[string]interface{}{"ID": o.ProductID})
	}

	if len(o.SiteCategoryIDs) > 0 {
		ok, err := uc.categories.BelongToSite(ctx, id.TenantID, id.SiteID, o.SiteCategoryIDs)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !ok {
			return nil, apperror.NotFound(apperror.MsgSiteCategoryNotFound,
				map[string]interface{}{"ID": strings.Join(o.SiteCategoryIDs, ", ")})
		}
	}

	o.TenantID = id.TenantID
	o.SiteID = id.SiteID
	sp, err := uc.repo.UpsertOverride(ctx, o)
	if err != nil {
		uc.logger.Error("failed to save site override",
			zap.String("site_id", id.SiteID), zap.String("product_id", o.ProductID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.invalidate(ctx, id.TenantID)
	return sp, nil
}

func (uc *distributionUseCase) invalidate(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.ListPattern(tenantID)); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.String("tenant_id", tenantID), zap.Error(err))
	}
}
