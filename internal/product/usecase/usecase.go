package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"
	"go.uber.org/zap"
)

type CategoryChecker interface {
	BelongToSite(ctx context.Context, tenantID, siteID string, ids []string) (bool, error)
}

type MediaLookup interface {
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Media, error)
}

type Searcher interface {
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v interface{}) error
}

// Dependencies wires the product use case. Cache, Search and Events are
// optional and must be left nil (not typed nil) when disabled.
type Dependencies struct {
	Repo        product.Repository
	Templates   template.Repository
	Categories  CategoryChecker
	Overrides   distribution.UseCase
	Media       MediaLookup
	Cache       *cache.RedisClient
	Search      Searcher
	SearchIndex string
	Events      EventPublisher
	ListTTL     time.Duration
	Logger      logger.ZapLogger
}

type productUseCase struct {
	repo        product.Repository
	templates   template.Repository
	categories  CategoryChecker
	overrides   distribution.UseCase
	media       MediaLookup
	cache       *cache.RedisClient
	es          Searcher
	searchIndex string
	events      EventPublisher
	listTTL     time.Duration
	logger      logger.ZapLogger
}

func NewProductUseCase(d Dependencies) product.UseCase {
	return &productUseCase{
		repo:        d.Repo,
		templates:   d.Templates,
		categories:  d.Categories,
		overrides:   d.Overrides,
		media:       d.Media,
		cache:       d.Cache,
		es:          d.Search,
		searchIndex: d.SearchIndex,
		events:      d.Events,
		listTTL:     d.ListTTL,
		logger:      d.Logger,
	}
}

type listCacheEntry struct {
	Items []dto.ProductItem `json:"items"`
	Total int               `json:"total"`
}

func (uc *productUseCase) ListProducts(ctx context.Context, id auth.Identity, filters *dto.ProductFilters) ([]dto.ProductItem, int, error) {
	cacheKey := uc.listCacheKey(id, filters)
	if cacheKey != "" {
		var entry listCacheEntry
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &entry)
		if err != nil {
			uc.logger.Warn("listing cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if hit {
			return entry.Items, entry.Total, nil
		}
	}

	rows, total, err := uc.repo.FindAll(ctx, distribution.NewPolicy(id), filters)
	if err != nil {
		uc.logger.Error("failed to list products", zap.String("tenant_id", id.TenantID), zap.Error(err))
		return nil, 0, apperror.Internal(err)
	}

	items, err := uc.assemble(ctx, rows)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, listCacheEntry{Items: items, Total: total}, uc.listTTL); err != nil {
			uc.logger.Warn("listing cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return items, total, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id auth.Identity, productID string) (*dto.ProductItem, error) {
	return uc.resolveOne(ctx, id, productID)
}

func (uc *productUseCase) resolveOne(ctx context.Context, id auth.Identity, productID string) (*dto.ProductItem, error) {
	row, err := uc.repo.FindOne(ctx, distribution.NewPolicy(id), productID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if row == nil {
		return nil, apperror.NotFound(apperror.MsgProductNotFound, map[string]interface{}{"ID": productID})
	}

	items, err := uc.assemble(ctx, []dto.ProductRow{*row})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &items[0], nil
}

// assemble batch-loads schemas, media, SKUs and site categories for rows.
func (uc *productUseCase) assemble(ctx context.Context, rows []dto.ProductRow) ([]dto.ProductItem, error) {
	items := make([]dto.ProductItem, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	productIDs := make([]string, 0, len(rows))
	siteProductIDs := []string{}
	templateIDs := []string{}
	seenTemplate := map[string]bool{}
	for _, r := range rows {
		productIDs = append(productIDs, r.ID)
		if r.SiteProductID != nil {
			siteProductIDs = append(siteProductIDs, *r.SiteProductID)
		}
		if r.TemplateID != nil && !seenTemplate[*r.TemplateID] {
			seenTemplate[*r.TemplateID] = true
			templateIDs = append(templateIDs, *r.TemplateID)
		}
	}

	keys, err := uc.templates.FindKeysByTemplateIDs(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	media, err := uc.repo.FindMedia(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	skus, err := uc.repo.FindSKUs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	skuIDs := []string{}
	for _, list := range skus {
		for _, s := range list {
			skuIDs = append(skuIDs, s.ID)
		}
	}
	skuMedia, err := uc.repo.FindSKUMedia(ctx, skuIDs)
	if err != nil {
		return nil, err
	}
	categories, err := uc.repo.FindSiteCategoryIDs(ctx, siteProductIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		item := dto.ProductItem{
			ProductRow:      r,
			IsListed:        r.SiteProductID != nil,
			SiteCategoryIDs: []string{},
			SkuSpecFields:   []template.FieldDef{},
			CommonFields:    []template.FieldDef{},
			Media:           orEmpty(media[r.ID]),
			SKUs:            []dto.SKUItem{},
		}
		if r.SiteProductID != nil && categories[*r.SiteProductID] != nil {
			item.SiteCategoryIDs = categories[*r.SiteProductID]
		}
		if r.TemplateID != nil {
			schema := template.NewSchema(*r.TemplateID, keys[*r.TemplateID])
			item.SkuSpecFields = schema.SkuSpecFields()
			item.CommonFields = schema.CommonFields()
		}
		item.MainImage = model.MainMedia(item.Media)

		for _, s := range skus[r.ID] {
			if s.Specifications == nil {
				s.Specifications = model.SpecMap{}
			}
			item.SKUs = append(item.SKUs, dto.SKUItem{SKU: s, Media: orEmpty(skuMedia[s.ID])})
		}
		items = append(items, item)
	}
	return items, nil
}

func orEmpty(m []model.BoundMedia) []model.BoundMedia {
	if m == nil {
		return []model.BoundMedia{}
	}
	return m
}

func (uc *productUseCase) listCacheKey(id auth.Identity, filters *dto.ProductFilters) string {
	if uc.cache == nil || uc.listTTL <= 0 {
		return ""
	}
	key, err := cache.ListKey(id.TenantID, struct {
		Department string              `json:"d"`
		Site       string              `json:"s"`
		SiteType   model.SiteType      `json:"t"`
		Filters    *dto.ProductFilters `json:"f"`
	}{id.DepartmentID, id.SiteID, id.SiteType, filters})
	if err != nil {
		return ""
	}
	return key
}

func (uc *productUseCase) invalidate(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.ListPattern(tenantID)); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.String("tenant_id", tenantID), zap.Error(err))
	}
}

func (uc *productUseCase) publish(ctx context.Context, eventType, tenantID string, productIDs ...string) {
	if uc.events == nil {
		return
	}
	for _, pid := range productIDs {
		ev := model.CatalogEvent{Type: eventType, TenantID: tenantID, ProductID: pid, OccurredAt: time.Now()}
		if err := uc.events.PublishJSON(ctx, pid, ev); err != nil {
			uc.logger.Error("failed to publish catalog event",
				zap.String("type", eventType), zap.String("product_id", pid), zap.Error(err))
		}
	}
}

// requireFactory allows the call only from a factory site whose department
// is a factory.
func (uc *productUseCase) requireFactory(ctx context.Context, id auth.Identity) error {
	if !id.IsFactorySite() {
		return apperror.Forbidden(apperror.MsgSiteWriteRestricted, nil)
	}
	dept, err := uc.repo.FindDepartment(ctx, id.TenantID, id.DepartmentID)
	if err != nil {
		return apperror.Internal(err)
	}
	if dept == nil {
		return apperror.NotFound(apperror.MsgDepartmentNotFound, map[string]interface{}{"ID": id.DepartmentID})
	}
	if !dept.IsFactory() {
		return apperror.Forbidden(apperror.MsgFactoryOnly, nil)
	}
	return nil
}

func (uc *productUseCase) loadSchema(ctx context.Context, templateID string) (*model.Template, template.Schema, error) {
	tpl, err := uc.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, template.Schema{}, apperror.Internal(err)
	}
	if tpl == nil {
		return nil, template.Schema{}, apperror.NotFound(apperror.MsgTemplateNotFound, map[string]interface{}{"ID": templateID})
	}
	return tpl, template.NewSchema(tpl.ID, tpl.Keys), nil
}
