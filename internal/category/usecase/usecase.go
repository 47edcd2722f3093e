package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListInvalidator drops cached product listings of a tenant.
type ListInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type categoryUseCase struct {
	repo   category.Repository
	cache  ListInvalidator
	logger logger.ZapLogger
}

// NewCategoryUseCase builds the use case. listings may be nil when caching
// is disabled.
func NewCategoryUseCase(repo category.Repository, listings ListInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  listings,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, id auth.Identity, input *dto.CreateCategoryInput) (*model.SiteCategory, error) {
	parentID, err := uc.checkParent(ctx, id, "", input.ParentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cat := &model.SiteCategory{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:    id.TenantID,
		SiteID:      id.SiteID,
		ParentID:    parentID,
		Name:        strings.TrimSpace(input.Name),
		Description: optional(input.Description),
		ImageURL:    optional(input.ImageURL),
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		uc.logger.Error("failed to create category", zap.String("site_id", id.SiteID), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id auth.Identity, categoryID string) (*model.SiteCategory, error) {
	cat, err := uc.repo.FindByID(ctx, id.TenantID, id.SiteID, categoryID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if cat == nil {
		return nil, apperror.NotFound(apperror.MsgCategoryNotFound, map[string]interface{}{"ID": categoryID})
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, id auth.Identity, filters *dto.CategoryFilters) ([]model.SiteCategory, int, error) {
	filters.TenantID = id.TenantID
	filters.SiteID = id.SiteID

	if filters.IncludeChildren {
		// The tree needs every category of the site, so paging is ignored.
		all := *filters
		all.ParentID = nil
		all.PageSize = 0
		categories, _, err := uc.repo.FindAll(ctx, &all)
		if err != nil {
			return nil, 0, apperror.Internal(err)
		}
		roots := buildTree(categories, filters.ParentID)
		return roots, len(roots), nil
	}

	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	if categories == nil {
		categories = []model.SiteCategory{}
	}
	return categories, count, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, id auth.Identity, input *dto.UpdateCategoryInput) (*model.SiteCategory, error) {
	cat, err := uc.repo.FindByID(ctx, id.TenantID, id.SiteID, input.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if cat == nil {
		return nil, apperror.NotFound(apperror.MsgCategoryNotFound, map[string]interface{}{"ID": input.ID})
	}

	parentID, err := uc.checkParent(ctx, id, cat.ID, input.ParentID)
	if err != nil {
		return nil, err
	}

	cat.Name = strings.TrimSpace(input.Name)
	cat.Description = optional(input.Description)
	cat.ImageURL = optional(input.ImageURL)
	cat.SortOrder = input.SortOrder
	cat.IsActive = input.IsActive
	cat.ParentID = parentID
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		uc.logger.Error("failed to update category", zap.String("category_id", cat.ID), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id auth.Identity, categoryID string) error {
	deleted, err := uc.repo.Delete(ctx, id.TenantID, id.SiteID, categoryID)
	if err != nil {
		uc.logger.Error("failed to delete category", zap.String("category_id", categoryID), zap.Error(err))
		return apperror.Internal(err)
	}
	if !deleted {
		return apperror.NotFound(apperror.MsgCategoryNotFound, map[string]interface{}{"ID": categoryID})
	}

	// cached listings still carry the removed category assignments
	if uc.cache != nil {
		if err := uc.cache.DeleteByPattern(ctx, cache.ListPattern(id.TenantID)); err != nil {
			uc.logger.Warn("failed to invalidate listing cache", zap.String("tenant_id", id.TenantID), zap.Error(err))
		}
	}
	return nil
}

// BelongToSite reports whether every id is a category of the site.
func (uc *categoryUseCase) BelongToSite(ctx context.Context, tenantID, siteID string, ids []string) (bool, error) {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return false, nil
	}
	n, err := uc.repo.CountInSite(ctx, tenantID, siteID, ids)
	if err != nil {
		return false, err
	}
	return n == len(unique), nil
}

// checkParent resolves the requested parent. It must live in the same site
// and must not be the category itself or one of its descendants.
func (uc *categoryUseCase) checkParent(ctx context.Context, id auth.Identity, selfID string, parentID *string) (*string, error) {
	if parentID == nil || *parentID == "" {
		return nil, nil
	}
	if *parentID == selfID {
		return nil, apperror.BadRequest(apperror.MsgCategoryParent, nil)
	}

	current := *parentID
	for depth := 0; current != ""; depth++ {
		parent, err := uc.repo.FindByID(ctx, id.TenantID, id.SiteID, current)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if parent == nil {
			return nil, apperror.NotFound(apperror.MsgCategoryNotFound, map[string]interface{}{"ID": current})
		}
		if selfID == "" || parent.ParentID == nil || depth > 64 {
			break
		}
		if *parent.ParentID == selfID {
			return nil, apperror.BadRequest(apperror.MsgCategoryParent, nil)
		}
		current = *parent.ParentID
	}
	return parentID, nil
}

func buildTree(categories []model.SiteCategory, rootID *string) []model.SiteCategory {
	byParent := make(map[string][]model.SiteCategory)
	for _, c := range categories {
		key := ""
		if c.ParentID != nil {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}

	var attach func(parent string, depth int) []model.SiteCategory
	attach = func(parent string, depth int) []model.SiteCategory {
		children := byParent[parent]
		if depth > 64 {
			return children
		}
		for i := range children {
			children[i].Children = attach(children[i].ID, depth+1)
		}
		return children
	}

	start := ""
	if rootID != nil {
		start = *rootID
	}
	roots := attach(start, 0)
	if roots == nil {
		roots = []model.SiteCategory{}
	}
	return roots
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
