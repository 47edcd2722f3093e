package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"go.uber.org/zap"
)

func (uc *productUseCase) CreateSKU(ctx context.Context, id auth.Identity, productID string, input *dto.SKUInput) (*model.SKU, error) {
	if err := uc.requireFactory(ctx, id); err != nil {
		return nil, err
	}
	if _, err := uc.ownedProduct(ctx, id, productID); err != nil {
		return nil, err
	}
	schema, err := uc.productSchema(ctx, productID)
	if err != nil {
		return nil, err
	}
	spec, err := schema.Validate(input.Specifications)
	if err != nil {
		return nil, err
	}

	sku := newSKU(productID, input, spec, time.Now())
	if err := uc.repo.CreateSKU(ctx, &sku); err != nil {
		uc.logger.Error("failed to create sku", zap.String("product_id", productID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.afterWrite(ctx, model.EventProductUpserted, id.TenantID, productID)
	return &sku, nil
}

func (uc *productUseCase) UpdateSKU(ctx context.Context, id auth.Identity, input *dto.UpdateSKUInput) (*model.SKU, error) {
	if err := uc.requireFactory(ctx, id); err != nil {
		return nil, err
	}
	sku, err := uc.ownedSKU(ctx, id, input.ID)
	if err != nil {
		return nil, err
	}
	schema, err := uc.productSchema(ctx, sku.ProductID)
	if err != nil {
		return nil, err
	}
	spec, err := schema.Validate(input.Specifications)
	if err != nil {
		return nil, err
	}

	updated := newSKU(sku.ProductID, &input.SKUInput, spec, time.Now())
	updated.ID = sku.ID
	updated.CreatedAt = sku.CreatedAt
	if err := uc.repo.UpdateSKU(ctx, &updated); err != nil {
		uc.logger.Error("failed to update sku", zap.String("sku_id", sku.ID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.afterWrite(ctx, model.EventProductUpserted, id.TenantID, sku.ProductID)
	return &updated, nil
}

func (uc *productUseCase) DeleteSKU(ctx context.Context, id auth.Identity, skuID string) error {
	if err := uc.requireFactory(ctx, id); err != nil {
		return err
	}
	sku, err := uc.ownedSKU(ctx, id, skuID)
	if err != nil {
		return err
	}
	if err := uc.repo.DeleteSKU(ctx, sku.ID); err != nil {
		uc.logger.Error("failed to delete sku", zap.String("sku_id", sku.ID), zap.Error(err))
		return apperror.Internal(err)
	}

	uc.afterWrite(ctx, model.EventProductUpserted, id.TenantID, sku.ProductID)
	return nil
}

func (uc *productUseCase) ownedProduct(ctx context.Context, id auth.Identity, productID string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id.TenantID, productID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if p == nil || p.DepartmentID != id.DepartmentID {
		return nil, apperror.NotFound(apperror.MsgProductNotFound, map[string]interface{}{"ID": productID})
	}
	return p, nil
}

func (uc *productUseCase) ownedSKU(ctx context.Context, id auth.Identity, skuID string) (*model.SKU, error) {
	sku, err := uc.repo.FindSKU(ctx, id.TenantID, skuID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if sku == nil {
		return nil, apperror.NotFound(apperror.MsgSKUNotFound, map[string]interface{}{"ID": skuID})
	}
	if _, err := uc.ownedProduct(ctx, id, sku.ProductID); err != nil {
		return nil, apperror.NotFound(apperror.MsgSKUNotFound, map[string]interface{}{"ID": skuID})
	}
	return sku, nil
}

func (uc *productUseCase) productSchema(ctx context.Context, productID string) (template.Schema, error) {
	templateID, err := uc.repo.FindTemplateID(ctx, productID)
	if err != nil {
		return template.Schema{}, apperror.Internal(err)
	}
	if templateID == "" {
		return template.Schema{}, apperror.BadRequest(apperror.MsgTemplateRequired, nil)
	}
	_, schema, err := uc.loadSchema(ctx, templateID)
	return schema, err
}
