package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (uc *productUseCase) CreateProduct(ctx context.Context, id auth.Identity, input *dto.CreateProductInput) (*dto.ProductItem, error) {
	if err := uc.requireFactory(ctx, id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "name is required"})
	}
	if input.TemplateID == "" {
		return nil, apperror.BadRequest(apperror.MsgTemplateRequired, nil)
	}
	if input.SiteCategoryID == "" {
		return nil, apperror.BadRequest(apperror.MsgSiteCategoryRequired, nil)
	}
	status, err := normalizeStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSiteCategories(ctx, id, []string{input.SiteCategoryID}); err != nil {
		return nil, err
	}

	tpl, schema, err := uc.loadSchema(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:         id.TenantID,
		DepartmentID:     id.DepartmentID,
		Name:             name,
		Description:      optional(input.Description),
		SPUCode:          strings.TrimSpace(input.SPUCode),
		Status:           status,
		CustomAttributes: model.JSONMap(input.CustomAttributes),
		Version:          1,
	}

	skus := make([]model.SKU, 0, len(input.SKUs))
	for i := range input.SKUs {
		spec, err := schema.Validate(input.SKUs[i].Specifications)
		if err != nil {
			return nil, err
		}
		skus = append(skus, newSKU(p.ID, &input.SKUs[i], spec, now))
	}

	media, err := uc.orderMedia(ctx, id.TenantID, p.ID, input.MediaIDs)
	if err != nil {
		return nil, err
	}

	np := &dto.NewProduct{
		Product:          p,
		TemplateID:       tpl.ID,
		MasterCategoryID: tpl.MasterCategoryID,
		SiteProduct: &model.SiteProduct{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			SiteID:    id.SiteID,
			ProductID: p.ID,
			IsVisible: true,
		},
		SiteCategoryID: input.SiteCategoryID,
		Media:          media,
		SKUs:           skus,
	}
	if err := uc.repo.Create(ctx, np); err != nil {
		uc.logger.Error("failed to create product", zap.String("tenant_id", id.TenantID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.Int("skus", len(skus)))
	uc.afterWrite(ctx, model.EventProductUpserted, id.TenantID, p.ID)
	return uc.resolveOne(ctx, id, p.ID)
}

// UpdateProduct applies product fields from factory sites and the site
// override fields from any site.
func (uc *productUseCase) UpdateProduct(ctx context.Context, id auth.Identity, input *dto.UpdateProductInput) (*dto.ProductItem, error) {
	if !id.IsFactorySite() {
		if input.TouchesProduct() {
			return nil, apperror.Forbidden(apperror.MsgSiteWriteRestricted, nil)
		}
		if _, err := uc.overrides.SaveOverride(ctx, id, input.Override(input.ID)); err != nil {
			return nil, err
		}
		return uc.resolveOne(ctx, id, input.ID)
	}

	if err := uc.requireFactory(ctx, id); err != nil {
		return nil, err
	}
	p, err := uc.repo.FindByID(ctx, id.TenantID, input.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if p == nil || p.DepartmentID != id.DepartmentID {
		return nil, apperror.NotFound(apperror.MsgProductNotFound, map[string]interface{}{"ID": input.ID})
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != p.Version {
		return nil, apperror.Conflict(apperror.MsgProductVersion, map[string]interface{}{"ID": p.ID})
	}
	if input.SiteCategoryIDs != nil {
		if err := uc.checkSiteCategories(ctx, id, input.SiteCategoryIDs); err != nil {
			return nil, err
		}
	}

	changes := &dto.ProductChanges{
		Product:         p,
		ExpectedVersion: input.ExpectedVersion,
		Override:        input.Override(p.ID),
	}
	changes.Override.TenantID = id.TenantID
	changes.Override.SiteID = id.SiteID

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "name is required"})
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = optional(*input.Description)
	}
	if input.SPUCode != nil {
		p.SPUCode = strings.TrimSpace(*input.SPUCode)
	}
	if input.Status != nil {
		status, err := normalizeStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		p.Status = status
	}
	if input.CustomAttributes != nil {
		p.CustomAttributes = model.JSONMap(*input.CustomAttributes)
	}

	if input.TemplateID != nil {
		if err := uc.rebindTemplate(ctx, changes, *input.TemplateID); err != nil {
			return nil, err
		}
	}

	if input.MediaIDs != nil {
		media, err := uc.orderMedia(ctx, id.TenantID, p.ID, *input.MediaIDs)
		if err != nil {
			return nil, err
		}
		changes.Media = &media
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, changes); err != nil {
		if errors.Is(err, product.ErrStaleVersion) {
			return nil, apperror.Conflict(apperror.MsgProductVersion, map[string]interface{}{"ID": p.ID})
		}
		uc.logger.Error("failed to update product", zap.String("product_id", p.ID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.afterWrite(ctx, model.EventProductUpserted, id.TenantID, p.ID)
	return uc.resolveOne(ctx, id, p.ID)
}

// rebindTemplate switches the product to templateID and prunes every SKU
// spec map down to the new template's SKU fields.
func (uc *productUseCase) rebindTemplate(ctx context.Context, changes *dto.ProductChanges, templateID string) error {
	current, err := uc.repo.FindTemplateID(ctx, changes.Product.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	if templateID == "" {
		return apperror.BadRequest(apperror.MsgTemplateRequired, nil)
	}
	if templateID == current {
		return nil
	}

	tpl, schema, err := uc.loadSchema(ctx, templateID)
	if err != nil {
		return err
	}
	changes.TemplateID = &tpl.ID
	changes.MasterCategoryID = tpl.MasterCategoryID

	skus, err := uc.repo.FindSKUs(ctx, []string{changes.Product.ID})
	if err != nil {
		return apperror.Internal(err)
	}
	for _, s := range skus[changes.Product.ID] {
		s.Specifications = schema.Prune(s.Specifications)
		changes.PrunedSKUs = append(changes.PrunedSKUs, s)
	}
	return nil
}

func (uc *productUseCase) BatchDelete(ctx context.Context, id auth.Identity, productIDs []string) (int, error) {
	if len(productIDs) == 0 {
		return 0, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "productIds are required"})
	}

	if !id.IsFactorySite() {
		n, err := uc.repo.ShallowDelete(ctx, id.TenantID, id.SiteID, productIDs)
		if err != nil {
			return 0, apperror.Internal(err)
		}
		if n == 0 {
			return 0, apperror.NotFound(apperror.MsgNoProductsToDelete, nil)
		}
		uc.invalidate(ctx, id.TenantID)
		return n, nil
	}

	if err := uc.requireFactory(ctx, id); err != nil {
		return 0, err
	}
	deleted, err := uc.repo.DeepDelete(ctx, id.TenantID, id.DepartmentID, productIDs)
	if err != nil {
		uc.logger.Error("failed to delete products", zap.String("tenant_id", id.TenantID), zap.Error(err))
		return 0, apperror.Internal(err)
	}
	if len(deleted) == 0 {
		return 0, apperror.NotFound(apperror.MsgNoProductsToDelete, nil)
	}

	uc.logger.Info("products deleted", zap.Int("requested", len(productIDs)), zap.Int("deleted", len(deleted)))
	uc.afterWrite(ctx, model.EventProductDeleted, id.TenantID, deleted...)
	return len(deleted), nil
}

func (uc *productUseCase) afterWrite(ctx context.Context, eventType, tenantID string, productIDs ...string) {
	uc.invalidate(ctx, tenantID)
	uc.publish(ctx, eventType, tenantID, productIDs...)
}

func (uc *productUseCase) checkSiteCategories(ctx context.Context, id auth.Identity, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := uc.categories.BelongToSite(ctx, id.TenantID, id.SiteID, ids)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.NotFound(apperror.MsgSiteCategoryNotFound, map[string]interface{}{"ID": strings.Join(ids, ", ")})
	}
	return nil
}

// orderMedia numbers images 0, 1, 2... and videos -1, -2... in input order.
// The first image is the main one.
func (uc *productUseCase) orderMedia(ctx context.Context, tenantID, productID string, mediaIDs []string) ([]model.ProductMedia, error) {
	out := []model.ProductMedia{}
	if len(mediaIDs) == 0 {
		return out, nil
	}

	found, err := uc.media.FindByIDs(ctx, tenantID, mediaIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	byID := make(map[string]model.Media, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	seen := map[string]bool{}
	image, video := 0, -1
	for _, mid := range mediaIDs {
		if seen[mid] {
			continue
		}
		seen[mid] = true

		m, ok := byID[mid]
		if !ok {
			return nil, apperror.NotFound(apperror.MsgMediaNotFound, map[string]interface{}{"ID": mid})
		}
		pm := model.ProductMedia{ProductID: productID, MediaID: mid}
		if m.MediaType == model.MediaVideo {
			pm.SortOrder = video
			video--
		} else {
			pm.SortOrder = image
			pm.IsMain = image == 0
			image++
		}
		out = append(out, pm)
	}
	return out, nil
}

func normalizeStatus(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return model.ProductStatusActive, nil
	case model.ProductStatusDraft, model.ProductStatusActive, model.ProductStatusArchived:
		return s, nil
	}
	return "", apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "unknown status " + s})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func newSKU(productID string, in *dto.SKUInput, spec model.SpecMap, now time.Time) model.SKU {
	return model.SKU{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ProductID:      productID,
		SKUCode:        strings.TrimSpace(in.SKUCode),
		Price:          in.Price,
		MarketPrice:    in.MarketPrice,
		CostPrice:      in.CostPrice,
		Stock:          in.Stock,
		Specifications: spec,
	}
}
