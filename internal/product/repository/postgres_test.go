package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	distdto "github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
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

var factory = distribution.NewPolicy(auth.Identity{TenantID: "t1", DepartmentID: "d1", SiteID: "s1", SiteType: model.SiteTypeFactory})

func TestFindAll_CountAndPage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\)`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectPrepare(`ORDER BY sp.sort_order ASC NULLS LAST.* LIMIT 2 OFFSET 2`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "display_name", "site_product_id"}).
			AddRow("p3", "t1", "Tee", "Local Tee", "sp-3"))

	rows, total, err := repo.FindAll(context.Background(), factory, &dto.ProductFilters{Search: "tee", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Local Tee", rows[0].DisplayName)
	require.NotNil(t, rows[0].SiteProductID)
	assert.Equal(t, "sp-3", *rows[0].SiteProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOne_NotVisible(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT p.id").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := repo.FindOne(context.Background(), factory, "p1")
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMedia_GroupsByProduct(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM product_media b JOIN media m").
		WithArgs("p1", "p2").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "media_id", "url", "media_type", "is_main", "sort_order"}).
			AddRow("p1", "m1", "https://cdn/m1.jpg", "image", true, 0).
			AddRow("p1", "m2", "https://cdn/m2.mp4", "video", false, -1).
			AddRow("p2", "m3", "https://cdn/m3.jpg", "image", false, 0))

	out, err := repo.FindMedia(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, out["p1"], 2)
	assert.Len(t, out["p2"], 1)
	assert.Equal(t, model.MediaVideo, out["p1"][1].MediaType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WritesEverythingInOneTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO product_templates").WithArgs("p1", "tpl-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO product_master_categories").WithArgs("p1", "mc-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO site_products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO site_product_categories").WithArgs("sp-1", "c1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO product_media").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO skus").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &dto.NewProduct{
		Product:          &model.Product{BaseModel: model.BaseModel{ID: "p1", CreatedAt: now, UpdatedAt: now}, TenantID: "t1", Name: "Tee", Version: 1},
		TemplateID:       "tpl-1",
		MasterCategoryID: "mc-1",
		SiteProduct:      &model.SiteProduct{BaseModel: model.BaseModel{ID: "sp-1"}, SiteID: "s1", ProductID: "p1", IsVisible: true},
		SiteCategoryID:   "c1",
		Media: []model.ProductMedia{
			{ProductID: "p1", MediaID: "m1", IsMain: true, SortOrder: 0},
			{ProductID: "p1", MediaID: "m2", SortOrder: -1},
		},
		SKUs: []model.SKU{{BaseModel: model.BaseModel{ID: "sku-1"}, ProductID: "p1", SKUCode: "TEE-R",
			Specifications: model.SpecMap{{Key: "Color", Value: "Red"}}}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO product_templates").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &dto.NewProduct{
		Product:     &model.Product{BaseModel: model.BaseModel{ID: "p1"}},
		TemplateID:  "tpl-1",
		SiteProduct: &model.SiteProduct{},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_StaleVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	v := 4

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &dto.ProductChanges{
		Product:         &model.Product{BaseModel: model.BaseModel{ID: "p1"}, TenantID: "t1"},
		ExpectedVersion: &v,
	})
	assert.ErrorIs(t, err, product.ErrStaleVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_TemplateSwitchAndMediaReplace(t *testing.T) {
	repo, mock := newMockRepo(t)
	tplID := "tpl-2"
	media := []model.ProductMedia{{ProductID: "p1", MediaID: "m1", IsMain: true}}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products").WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectExec("INSERT INTO product_templates").WithArgs("p1", "tpl-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO product_master_categories").WithArgs("p1", "mc-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE skus SET specifications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM product_media").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO product_media").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, TenantID: "t1", Version: 1}
	err := repo.Update(context.Background(), &dto.ProductChanges{
		Product:          p,
		TemplateID:       &tplID,
		MasterCategoryID: "mc-2",
		PrunedSKUs:       []model.SKU{{BaseModel: model.BaseModel{ID: "sku-1"}, Specifications: model.SpecMap{}}},
		Media:            &media,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_SavesOverride(t *testing.T) {
	repo, mock := newMockRepo(t)
	name := "Local"

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products").WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectQuery("FROM site_products WHERE site_id").WithArgs("s1", "p1").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO site_products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &dto.ProductChanges{
		Product:  &model.Product{BaseModel: model.BaseModel{ID: "p1"}, TenantID: "t1"},
		Override: &distdto.Override{TenantID: "t1", SiteID: "s1", ProductID: "p1", SiteName: &name},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeepDelete(t *testing.T) {
	t.Run("cascades in dependency order", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM products WHERE tenant_id").
			WithArgs("t1", "d1", "p1", "p2").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
		for _, table := range []string{
			"site_skus", "site_product_categories", "site_products", "product_media", "product_variant_media",
			"product_templates", "product_master_categories", "sku_media", "skus", "products",
		} {
			mock.ExpectExec("DELETE FROM " + table + " WHERE").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		deleted, err := repo.DeepDelete(context.Background(), "t1", "d1", []string{"p1", "p2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing owned", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM products WHERE tenant_id").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		deleted, err := repo.DeepDelete(context.Background(), "t1", "d1", []string{"p9"})
		require.NoError(t, err)
		assert.Empty(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShallowDelete_OnlySiteRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT sp.id FROM site_products sp").
		WithArgs("s2", "t1", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sp-9"))
	mock.ExpectExec("DELETE FROM site_skus WHERE").WithArgs("sp-9").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM site_product_categories WHERE").WithArgs("sp-9").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM site_products WHERE id").WithArgs("sp-9").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.ShallowDelete(context.Background(), "t1", "s2", []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSKU_OtherTenant(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM skus s JOIN products p").WithArgs("sku-1", "t2").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	sku, err := repo.FindSKU(context.Background(), "t2", "sku-1")
	require.NoError(t, err)
	assert.Nil(t, sku)
	assert.NoError(t, mock.ExpectationsWereMet())
}
