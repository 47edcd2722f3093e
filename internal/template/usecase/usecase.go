package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type templateUseCase struct {
	repo   template.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewTemplateUseCase(repo template.Repository, cache *cache.RedisClient, log logger.ZapLogger) template.UseCase {
	return &templateUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *templateUseCase) CreateTemplate(ctx context.Context, input *dto.CreateTemplateInput) (*model.Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "name is required"})
	}
	if err := uc.checkMasterCategory(ctx, input.MasterCategoryID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	keys, err := template.BuildKeys(id, input.Fields)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &model.Template{
		BaseModel:        model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:             name,
		MasterCategoryID: input.MasterCategoryID,
		Keys:             keys,
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		if errors.Is(err, template.ErrNotCreated) {
			return nil, apperror.New(apperror.KindInternal, apperror.MsgTemplateCreateFailed, nil)
		}
		uc.logger.Error("failed to create template", zap.String("name", name), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.logger.Info("template created", zap.String("template_id", id), zap.Int("keys", len(keys)))
	return t, nil
}

func (uc *templateUseCase) UpdateTemplate(ctx context.Context, input *dto.UpdateTemplateInput) (*model.Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.BadRequest(apperror.MsgInvalidInput, map[string]interface{}{"Reason": "name is required"})
	}

	existing, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing == nil {
		return nil, apperror.NotFound(apperror.MsgTemplateNotFound, map[string]interface{}{"ID": input.ID})
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != existing.Version {
		return nil, apperror.Conflict(apperror.MsgTemplateVersion, map[string]interface{}{"ID": input.ID})
	}
	if err := uc.checkMasterCategory(ctx, input.MasterCategoryID); err != nil {
		return nil, err
	}

	keys, err := template.BuildKeys(existing.ID, input.Fields)
	if err != nil {
		return nil, err
	}

	t := &model.Template{
		BaseModel: model.BaseModel{
			ID:        existing.ID,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: time.Now(),
		},
		Name:             name,
		MasterCategoryID: input.MasterCategoryID,
		Keys:             keys,
	}

	if err := uc.repo.Replace(ctx, t, input.ExpectedVersion); err != nil {
		switch {
		case errors.Is(err, template.ErrNotFound):
			return nil, apperror.NotFound(apperror.MsgTemplateNotFound, map[string]interface{}{"ID": input.ID})
		case errors.Is(err, template.ErrStaleVersion):
			return nil, apperror.Conflict(apperror.MsgTemplateVersion, map[string]interface{}{"ID": input.ID})
		}
		uc.logger.Error("failed to update template", zap.String("template_id", input.ID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	uc.invalidateListings(ctx)
	return t, nil
}

func (uc *templateUseCase) DeleteTemplate(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, template.ErrNotFound) {
			return apperror.NotFound(apperror.MsgTemplateNotFound, map[string]interface{}{"ID": id})
		}
		uc.logger.Error("failed to delete template", zap.String("template_id", id), zap.Error(err))
		return apperror.Internal(err)
	}

	uc.invalidateListings(ctx)
	return nil
}

func (uc *templateUseCase) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if t == nil {
		return nil, apperror.NotFound(apperror.MsgTemplateNotFound, map[string]interface{}{"ID": id})
	}
	return t, nil
}

func (uc *templateUseCase) ListTemplates(ctx context.Context, filters *dto.TemplateFilters) ([]model.Template, int, error) {
	templates, total, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	if templates == nil {
		templates = []model.Template{}
	}
	return templates, total, nil
}

func (uc *templateUseCase) checkMasterCategory(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NotFound(apperror.MsgMasterCategoryNotFound, map[string]interface{}{"ID": id})
	}
	ok, err := uc.repo.MasterCategoryExists(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.NotFound(apperror.MsgMasterCategoryNotFound, map[string]interface{}{"ID": id})
	}
	return nil
}

// Template edits change the schema of every tenant's listings.
func (uc *templateUseCase) invalidateListings(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.ListPattern("")); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.Error(err))
	}
}
