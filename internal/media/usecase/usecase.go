package usecase

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/media"
	"github.com/fekuna/omnipos-catalog-service/internal/media/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/blob"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNoBlobStore = errors.New("blob storage is not configured")

type mediaUseCase struct {
	repo      media.Repository
	templates template.Repository
	store     blob.Store
	cache     *cache.RedisClient
	lockTTL   time.Duration
	logger    logger.ZapLogger
}

// NewMediaUseCase wires media binding. store and cache may be nil; uploads
// then fail and replace operations run without a lock.
func NewMediaUseCase(repo media.Repository, templates template.Repository, store blob.Store, cache *cache.RedisClient, lockTTL time.Duration, log logger.ZapLogger) media.UseCase {
	return &mediaUseCase{
		repo:      repo,
		templates: templates,
		store:     store,
		cache:     cache,
		lockTTL:   lockTTL,
		logger:    log,
	}
}

// ResolveSkuMedia returns the SKU's own media, else the media bound to its
// color value, else the product media.
func (uc *mediaUseCase) ResolveSkuMedia(ctx context.Context, id auth.Identity, skuID string) (*dto.Resolution, error) {
	sc, err := uc.repo.FindSKUContext(ctx, id.TenantID, skuID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if sc == nil {
		return nil, apperror.NotFound(apperror.MsgSKUNotFound, map[string]interface{}{"ID": skuID})
	}

	items, err := uc.repo.FindSKUMedia(ctx, skuID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(items) > 0 {
		return &dto.Resolution{SKUID: skuID, Source: model.SourceSKU, Media: items}, nil
	}

	items, err = uc.variantMediaFor(ctx, sc)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return &dto.Resolution{SKUID: skuID, Source: model.SourceVariant, Media: items}, nil
	}

	items, err = uc.repo.FindProductMedia(ctx, sc.ProductID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if items == nil {
		items = []model.BoundMedia{}
	}
	return &dto.Resolution{SKUID: skuID, Source: model.SourceProduct, Media: items}, nil
}

func (uc *mediaUseCase) variantMediaFor(ctx context.Context, sc *dto.SKUContext) ([]model.BoundMedia, error) {
	if sc.TemplateID == nil {
		return nil, nil
	}
	color, ok, err := uc.colorField(ctx, *sc.TemplateID)
	if err != nil || !ok {
		return nil, err
	}
	value, ok := sc.Specifications.Get(color.Key)
	if !ok {
		return nil, nil
	}
	opt, ok := color.OptionByValue(strings.TrimSpace(value))
	if !ok {
		return nil, nil
	}

	groups, err := uc.repo.FindVariantMedia(ctx, sc.ProductID, []string{opt.ID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return groups[opt.ID], nil
}

func (uc *mediaUseCase) colorField(ctx context.Context, templateID string) (template.FieldDef, bool, error) {
	tpl, err := uc.templates.FindByID(ctx, templateID)
	if err != nil {
		return template.FieldDef{}, false, apperror.Internal(err)
	}
	if tpl == nil {
		return template.FieldDef{}, false, nil
	}
	f, ok := template.NewSchema(tpl.ID, tpl.Keys).ColorField()
	return f, ok, nil
}

func (uc *mediaUseCase) GetVariantMedia(ctx context.Context, id auth.Identity, productID string) ([]dto.VariantGroup, error) {
	pc, err := uc.repo.FindProductContext(ctx, id.TenantID, productID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pc == nil {
		return nil, apperror.NotFound(apperror.MsgProductNotFound, map[string]interface{}{"ID": productID})
	}

	out := []dto.VariantGroup{}
	if pc.TemplateID == nil {
		return out, nil
	}
	color, ok, err := uc.colorField(ctx, *pc.TemplateID)
	if err != nil || !ok {
		return out, err
	}

	valueIDs := make([]string, 0, len(color.Options))
	for _, o := range color.Options {
		valueIDs = append(valueIDs, o.ID)
	}
	groups, err := uc.repo.FindVariantMedia(ctx, productID, valueIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for _, o := range color.Options {
		items := groups[o.ID]
		if items == nil {
			items = []model.BoundMedia{}
		}
		out = append(out, dto.VariantGroup{TemplateValueID: o.ID, Value: o.Value, Media: items})
	}
	return out, nil
}

// SetVariantMedia replaces all variant media of the product. Within each
// group the first media is the main one.
func (uc *mediaUseCase) SetVariantMedia(ctx context.Context, id auth.Identity, productID string, groups []dto.VariantMediaInput) ([]dto.VariantGroup, error) {
	pc, err := uc.writableProduct(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	if pc.TemplateID == nil {
		return nil, apperror.BadRequest(apperror.MsgColorFieldMissing, nil)
	}
	color, ok, err := uc.colorField(ctx, *pc.TemplateID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.BadRequest(apperror.MsgColorFieldMissing, nil)
	}

	allowed := make(map[string]bool, len(color.Options))
	for _, o := range color.Options {
		allowed[o.ID] = true
	}

	rows := []model.ProductVariantMedia{}
	mediaIDs := []string{}
	seenValue := map[string]bool{}
	for _, g := range groups {
		if !allowed[g.TemplateValueID] || seenValue[g.TemplateValueID] {
			return nil, apperror.BadRequest(apperror.MsgVariantValue, map[string]interface{}{"ID": g.TemplateValueID})
		}
		seenValue[g.TemplateValueID] = true

		for i, mid := range dedupe(g.MediaIDs) {
			rows = append(rows, model.ProductVariantMedia{
				ProductID:       productID,
				TemplateValueID: g.TemplateValueID,
				MediaID:         mid,
				IsMain:          i == 0,
				SortOrder:       i,
			})
			mediaIDs = append(mediaIDs, mid)
		}
	}
	if err := uc.checkMedia(ctx, id.TenantID, mediaIDs); err != nil {
		return nil, err
	}

	err = uc.withLock(ctx, "variant-media:"+productID, func() error {
		return uc.repo.ReplaceVariantMedia(ctx, productID, rows)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("variant media replaced", zap.String("product_id", productID), zap.Int("bindings", len(rows)))
	uc.invalidate(ctx, id.TenantID)
	return uc.GetVariantMedia(ctx, id, productID)
}

func (uc *mediaUseCase) SetSkuMedia(ctx context.Context, id auth.Identity, skuID string, mediaIDs []string) ([]model.BoundMedia, error) {
	if !id.IsFactorySite() {
		return nil, apperror.Forbidden(apperror.MsgSiteWriteRestricted, nil)
	}
	sc, err := uc.repo.FindSKUContext(ctx, id.TenantID, skuID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if sc == nil || sc.DepartmentID != id.DepartmentID {
		return nil, apperror.NotFound(apperror.MsgSKUNotFound, map[string]interface{}{"ID": skuID})
	}

	ids := dedupe(mediaIDs)
	if err := uc.checkMedia(ctx, id.TenantID, ids); err != nil {
		return nil, err
	}
	rows := make([]model.SkuMedia, 0, len(ids))
	for i, mid := range ids {
		rows = append(rows, model.SkuMedia{SKUID: skuID, MediaID: mid, IsMain: i == 0, SortOrder: i})
	}

	err = uc.withLock(ctx, "sku-media:"+skuID, func() error {
		return uc.repo.ReplaceSKUMedia(ctx, skuID, rows)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id.TenantID)
	items, err := uc.repo.FindSKUMedia(ctx, skuID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (uc *mediaUseCase) UploadMedia(ctx context.Context, id auth.Identity, input *dto.UploadInput) (*model.Media, error) {
	if !id.IsFactorySite() {
		return nil, apperror.Forbidden(apperror.MsgSiteWriteRestricted, nil)
	}
	if len(input.Data) == 0 {
		return nil, apperror.BadRequest(apperror.MsgMediaEmpty, nil)
	}
	mediaType, ok := mediaTypeOf(input.ContentType)
	if !ok {
		return nil, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "unsupported content type " + input.ContentType})
	}
	if uc.store == nil {
		return nil, apperror.Internal(errNoBlobStore)
	}

	category := strings.Trim(path.Clean("/"+input.Category), "/")
	if category == "" {
		category = "products"
	}
	url, key, err := uc.store.Upload(ctx, input.Data, category, input.Filename, input.ContentType)
	if err != nil {
		uc.logger.Error("blob upload failed", zap.String("filename", input.Filename), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	m := &model.Media{
		ID:         uuid.New().String(),
		TenantID:   id.TenantID,
		URL:        url,
		StorageKey: key,
		MediaType:  mediaType,
		MimeType:   input.ContentType,
		Size:       int64(len(input.Data)),
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		if derr := uc.store.Delete(ctx, key); derr != nil {
			uc.logger.Warn("failed to remove orphaned blob", zap.String("storage_key", key), zap.Error(derr))
		}
		return nil, apperror.Internal(err)
	}
	return m, nil
}

func (uc *mediaUseCase) DeleteMedia(ctx context.Context, id auth.Identity, mediaID string) error {
	if !id.IsFactorySite() {
		return apperror.Forbidden(apperror.MsgSiteWriteRestricted, nil)
	}
	m, err := uc.repo.FindByID(ctx, id.TenantID, mediaID)
	if err != nil {
		return apperror.Internal(err)
	}
	if m == nil {
		return apperror.NotFound(apperror.MsgMediaNotFound, map[string]interface{}{"ID": mediaID})
	}
	if err := uc.repo.Delete(ctx, m.ID); err != nil {
		return apperror.Internal(err)
	}

	if uc.store != nil && m.StorageKey != "" {
		if err := uc.store.Delete(ctx, m.StorageKey); err != nil {
			uc.logger.Warn("failed to delete blob", zap.String("storage_key", m.StorageKey), zap.Error(err))
		}
	}
	uc.invalidate(ctx, id.TenantID)
	return nil
}

func (uc *mediaUseCase) writableProduct(ctx context.Context, id auth.Identity, productID string) (*dto.ProductContext, error) {
	if !id.IsFactorySite() {
		return nil, apperror.Forbidden(apperror.MsgSiteWriteRestricted, nil)
	}
	pc, err := uc.repo.FindProductContext(ctx, id.TenantID, productID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pc == nil || pc.DepartmentID != id.DepartmentID {
		return nil, apperror.NotFound(apperror.MsgProductNotFound, map[string]interface{}{"ID": productID})
	}
	return pc, nil
}

func (uc *mediaUseCase) checkMedia(ctx context.Context, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := uc.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return apperror.Internal(err)
	}
	known := make(map[string]bool, len(found))
	for _, m := range found {
		known[m.ID] = true
	}
	for _, mid := range ids {
		if !known[mid] {
			return apperror.NotFound(apperror.MsgMediaNotFound, map[string]interface{}{"ID": mid})
		}
	}
	return nil
}

// withLock runs fn while holding a Redis lock on key. Without Redis fn runs
// unguarded.
func (uc *mediaUseCase) withLock(ctx context.Context, key string, fn func() error) error {
	if uc.cache == nil {
		return wrap(fn())
	}

	lockKey := "catalog:lock:" + key
	owner := uuid.New().String()
	ok, err := uc.cache.AcquireLock(ctx, lockKey, owner, uc.lockTTL)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.Conflict(apperror.MsgResourceBusy, nil)
	}
	defer func() {
		if err := uc.cache.ReleaseLock(context.WithoutCancel(ctx), lockKey, owner); err != nil {
			uc.logger.Warn("failed to release lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()
	return wrap(fn())
}

func (uc *mediaUseCase) invalidate(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.ListPattern(tenantID)); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.String("tenant_id", tenantID), zap.Error(err))
	}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return apperror.Internal(err)
}

func mediaTypeOf(contentType string) (model.MediaType, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return model.MediaImage, true
	case strings.HasPrefix(ct, "video/"):
		return model.MediaVideo, true
	}
	return "", false
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
