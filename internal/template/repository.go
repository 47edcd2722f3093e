package template

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
)

var (
	ErrNotFound     = errors.New("template not found")
	ErrNotCreated   = errors.New("template insert returned no row")
	ErrStaleVersion = errors.New("template version mismatch")
)

type Repository interface {
	MasterCategoryExists(ctx context.Context, id string) (bool, error)

	// Create inserts the template with its keys and their values in one transaction.
	Create(ctx context.Context, t *model.Template) error
	// Replace rewrites name, category and the whole field set of t in one
	// transaction. Variant media bound to the old values are removed.
	Replace(ctx context.Context, t *model.Template, expectedVersion *int) error
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*model.Template, error)
	FindAll(ctx context.Context, filters *dto.TemplateFilters) ([]model.Template, int, error)
	FindKeysByTemplateIDs(ctx context.Context, templateIDs []string) (map[string][]model.TemplateKey, error)
}
