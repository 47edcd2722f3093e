package template

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
)

type UseCase interface {
	CreateTemplate(ctx context.Context, input *dto.CreateTemplateInput) (*model.Template, error)
	UpdateTemplate(ctx context.Context, input *dto.UpdateTemplateInput) (*model.Template, error)
	DeleteTemplate(ctx context.Context, id string) error
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	ListTemplates(ctx context.Context, filters *dto.TemplateFilters) ([]model.Template, int, error)
}
