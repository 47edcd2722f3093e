package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) MasterCategoryExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, t *model.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockRepository) Replace(ctx context.Context, t *model.Template, expectedVersion *int) error {
	return m.Called(ctx, t, expectedVersion).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*model.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, f *dto.TemplateFilters) ([]model.Template, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Template), args.Int(1), args.Error(2)
}

func (m *MockRepository) FindKeysByTemplateIDs(ctx context.Context, ids []string) (map[string][]model.TemplateKey, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string][]model.TemplateKey), args.Error(1)
}

func newUseCase(repo *MockRepository) template.UseCase {
	return NewTemplateUseCase(repo, nil, logger.NewNop())
}

func TestCreateTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists keys derived from fields", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MasterCategoryExists", ctx, "mc-1").Return(true, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Template")).Return(nil)

		tpl, err := newUseCase(repo).CreateTemplate(ctx, &dto.CreateTemplateInput{
			Name:             " Shirts ",
			MasterCategoryID: "mc-1",
			Fields: []dto.FieldInput{
				{Key: "Color", InputType: "select", IsSkuSpec: true, Value: "Red, Blue"},
				{Key: "Material", InputType: "text", Value: "cotton"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Shirts", tpl.Name)
		require.Len(t, tpl.Keys, 2)
		assert.Equal(t, model.RoleColor, tpl.Keys[0].Role)
		assert.Len(t, tpl.Keys[0].Values, 2)
		assert.Equal(t, tpl.ID, tpl.Keys[1].TemplateID)
		repo.AssertExpectations(t)
	})

	t.Run("unknown master category", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MasterCategoryExists", ctx, "missing").Return(false, nil)

		_, err := newUseCase(repo).CreateTemplate(ctx, &dto.CreateTemplateInput{Name: "x", MasterCategoryID: "missing"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert returned no row", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MasterCategoryExists", ctx, "mc-1").Return(true, nil)
		repo.On("Create", ctx, mock.Anything).Return(template.ErrNotCreated)

		_, err := newUseCase(repo).CreateTemplate(ctx, &dto.CreateTemplateInput{Name: "x", MasterCategoryID: "mc-1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.New(apperror.KindInternal, apperror.MsgTemplateCreateFailed, nil)))
	})

	t.Run("duplicate keys rejected before write", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MasterCategoryExists", ctx, "mc-1").Return(true, nil)

		_, err := newUseCase(repo).CreateTemplate(ctx, &dto.CreateTemplateInput{
			Name:             "x",
			MasterCategoryID: "mc-1",
			Fields: []dto.FieldInput{
				{Key: "Size", InputType: "text"},
				{Key: " Size", InputType: "text"},
			},
		})
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateTemplate(t *testing.T) {
	ctx := context.Background()
	existing := &model.Template{BaseModel: model.BaseModel{ID: "t-1"}, Name: "old", MasterCategoryID: "mc-1", Version: 3}

	t.Run("not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, "t-1").Return(nil, nil)

		_, err := newUseCase(repo).UpdateTemplate(ctx, &dto.UpdateTemplateInput{ID: "t-1", Name: "n", MasterCategoryID: "mc-1"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("stale expected version", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, "t-1").Return(existing, nil)

		v := 2
		_, err := newUseCase(repo).UpdateTemplate(ctx, &dto.UpdateTemplateInput{ID: "t-1", Name: "n", MasterCategoryID: "mc-1", ExpectedVersion: &v})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replaces field set", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, "t-1").Return(existing, nil)
		repo.On("MasterCategoryExists", ctx, "mc-2").Return(true, nil)
		repo.On("Replace", ctx, mock.MatchedBy(func(tpl *model.Template) bool {
			return tpl.ID == "t-1" && tpl.MasterCategoryID == "mc-2" && len(tpl.Keys) == 1
		}), (*int)(nil)).Return(nil)

		tpl, err := newUseCase(repo).UpdateTemplate(ctx, &dto.UpdateTemplateInput{
			ID:               "t-1",
			Name:             "new",
			MasterCategoryID: "mc-2",
			Fields:           []dto.FieldInput{{Key: "Size", InputType: "select", Options: []interface{}{"S", "M"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, "new", tpl.Name)
		repo.AssertExpectations(t)
	})

	t.Run("concurrent writer wins", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, "t-1").Return(existing, nil)
		repo.On("MasterCategoryExists", ctx, "mc-1").Return(true, nil)
		repo.On("Replace", ctx, mock.Anything, mock.Anything).Return(template.ErrStaleVersion)

		v := 3
		_, err := newUseCase(repo).UpdateTemplate(ctx, &dto.UpdateTemplateInput{ID: "t-1", Name: "n", MasterCategoryID: "mc-1", ExpectedVersion: &v})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}

func TestDeleteTemplate(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	repo.On("Delete", ctx, "gone").Return(template.ErrNotFound)
	repo.On("Delete", ctx, "t-1").Return(nil)
	uc := newUseCase(repo)

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(uc.DeleteTemplate(ctx, "gone")))
	assert.NoError(t, uc.DeleteTemplate(ctx, "t-1"))
}

func TestListTemplates_EmptyIsNotNil(t *testing.T) {
	ctx := context.Background()
	f := &dto.TemplateFilters{Page: 1, PageSize: 20}

	repo := new(MockRepository)
	repo.On("FindAll", ctx, f).Return(nil, 0, nil)

	items, total, err := newUseCase(repo).ListTemplates(ctx, f)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Zero(t, total)
}
