package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

var (
	factory = distribution.NewPolicy(auth.Identity{TenantID: "t1", DepartmentID: "d1", SiteID: "s1", SiteType: model.SiteTypeFactory})
	group   = distribution.NewPolicy(auth.Identity{TenantID: "t1", DepartmentID: "d2", SiteID: "s2", SiteType: model.SiteTypeGroup})
)

func TestUpdateSortOrders_Factory(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE site_products SET sort_order").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET sort_order").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.UpdateSortOrders(context.Background(), factory, []dto.SortOrderItem{{ProductID: "p1", SortOrder: 5}}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSortOrders_GroupLeavesProductAlone(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE site_products SET sort_order").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE site_products SET sort_order").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := repo.UpdateSortOrders(context.Background(), group, []dto.SortOrderItem{
		{ProductID: "p1", SortOrder: 1},
		{ProductID: "p2", SortOrder: 2},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVisibility_GroupCuratesMissingRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM products").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
	mock.ExpectExec("INSERT INTO site_products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.SetVisibility(context.Background(), group, []string{"p1", "p-foreign"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveOverride_CreatesRowAndReplacesCategories(t *testing.T) {
	repo, mock := newMockRepo(t)
	name := " Summer Tee "
	empty := ""

	mock.ExpectBegin()
	mock.ExpectQuery("FROM site_products").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO site_products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM site_product_categories").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO site_product_categories").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sp, err := repo.UpsertOverride(context.Background(), &dto.Override{
		SiteID: "s2", ProductID: "p1", SiteName: &name, SEOTitle: &empty, SiteCategoryIDs: []string{"c1"},
	})
	require.NoError(t, err)
	require.NotNil(t, sp.SiteName)
	assert.Equal(t, "Summer Tee", *sp.SiteName)
	assert.Nil(t, sp.SEOTitle)
	assert.True(t, sp.IsVisible)
	assert.NotEmpty(t, sp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductExists_ScopesFactoryToDepartment(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`AND department_id = \$3`).
		WithArgs("p1", "t1", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ProductExists(context.Background(), factory, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}
