package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) UpdateSortOrders(ctx context.Context, p distribution.Policy, items []dto.SortOrderItem, propagate bool) (int, error) {
	args := m.Called(ctx, p, items, propagate)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) SetVisibility(ctx context.Context, p distribution.Policy, ids []string, visible bool) (int, error) {
	args := m.Called(ctx, p, ids, visible)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpsertOverride(ctx context.Context, o *dto.Override) (*model.SiteProduct, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SiteProduct), args.Error(1)
}

func (m *MockRepository) FindSiteProduct(ctx context.Context, siteID, productID string) (*model.SiteProduct, error) {
	args := m.Called(ctx, siteID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SiteProduct), args.Error(1)
}

func (m *MockRepository) ProductExists(ctx context.Context, p distribution.Policy, productID string) (bool, error) {
	args := m.Called(ctx, p, productID)
	return args.Bool(0), args.Error(1)
}

type MockCategories struct {
	mock.Mock
}

func (m *MockCategories) BelongToSite(ctx context.Context, tenantID, siteID string, ids []string) (bool, error) {
	args := m.Called(ctx, tenantID, siteID, ids)
	return args.Bool(0), args.Error(1)
}

var (
	factorySite = auth.Identity{TenantID: "t1", DepartmentID: "d1", SiteID: "s1", SiteType: model.SiteTypeFactory}
	groupSite   = auth.Identity{TenantID: "t1", DepartmentID: "d2", SiteID: "s2", SiteType: model.SiteTypeGroup}
)

func TestBatchUpdateSortOrder_PropagatesOnlyFromFactory(t *testing.T) {
	ctx := context.Background()
	items := []dto.SortOrderItem{{ProductID: "p1", SortOrder: 2}}

	repo := new(MockRepository)
	repo.On("UpdateSortOrders", ctx, distribution.NewPolicy(factorySite), items, true).Return(1, nil)
	repo.On("UpdateSortOrders", ctx, distribution.NewPolicy(groupSite), items, false).Return(1, nil)
	uc := NewDistributionUseCase(repo, new(MockCategories), nil, logger.NewNop())

	_, err := uc.BatchUpdateSortOrder(ctx, factorySite, items)
	require.NoError(t, err)
	_, err = uc.BatchUpdateSortOrder(ctx, groupSite, items)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBatchUpdateSortOrder_Empty(t *testing.T) {
	uc := NewDistributionUseCase(new(MockRepository), new(MockCategories), nil, logger.NewNop())
	_, err := uc.BatchUpdateSortOrder(context.Background(), factorySite, nil)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestBatchUpdateSortOrder_UncuratedOnGroupSite(t *testing.T) {
	ctx := context.Background()
	items := []dto.SortOrderItem{{ProductID: "p9", SortOrder: 1}}
	repo := new(MockRepository)
	repo.On("UpdateSortOrders", ctx, distribution.NewPolicy(groupSite), items, false).Return(0, nil)

	uc := NewDistributionUseCase(repo, new(MockCategories), nil, logger.NewNop())
	_, err := uc.BatchUpdateSortOrder(ctx, groupSite, items)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	repo.AssertExpectations(t)
}

func TestSetVisibility_NothingTouched(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("SetVisibility", ctx, mock.Anything, []string{"p9"}, false).Return(0, nil)

	uc := NewDistributionUseCase(repo, new(MockCategories), nil, logger.NewNop())
	_, err := uc.SetVisibility(ctx, factorySite, []string{"p9"}, false)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSaveOverride(t *testing.T) {
	ctx := context.Background()
	name := "Summer Tee"

	t.Run("category from another site", func(t *testing.T) {
		repo := new(MockRepository)
		cats := new(MockCategories)
		repo.On("ProductExists", ctx, distribution.NewPolicy(groupSite), "p1").Return(true, nil)
		cats.On("BelongToSite", ctx, "t1", "s2", []string{"c9"}).Return(false, nil)

		_, err := NewDistributionUseCase(repo, cats, nil, logger.NewNop()).
			SaveOverride(ctx, groupSite, &dto.Override{ProductID: "p1", SiteCategoryIDs: []string{"c9"}})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		repo.AssertNotCalled(t, "UpsertOverride", mock.Anything, mock.Anything)
	})

	t.Run("scopes the row to the caller site", func(t *testing.T) {
		repo := new(MockRepository)
		cats := new(MockCategories)
		repo.On("ProductExists", ctx, distribution.NewPolicy(groupSite), "p1").Return(true, nil)
		repo.On("UpsertOverride", ctx, mock.MatchedBy(func(o *dto.Override) bool {
			return o.SiteID == "s2" && o.TenantID == "t1" && *o.SiteName == name
		})).Return(&model.SiteProduct{SiteID: "s2", ProductID: "p1", SiteName: &name}, nil)

		sp, err := NewDistributionUseCase(repo, cats, nil, logger.NewNop()).
			SaveOverride(ctx, groupSite, &dto.Override{ProductID: "p1", SiteID: "spoofed", SiteName: &name})
		require.NoError(t, err)
		assert.Equal(t, name, *sp.SiteName)
		cats.AssertNotCalled(t, "BelongToSite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ProductExists", ctx, mock.Anything, "p404").Return(false, nil)

		_, err := NewDistributionUseCase(repo, new(MockCategories), nil, logger.NewNop()).
			SaveOverride(ctx, groupSite, &dto.Override{ProductID: "p404"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
