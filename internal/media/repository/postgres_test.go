package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestReplaceVariantMedia(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM product_variant_media WHERE product_id").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO product_variant_media").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.ReplaceVariantMedia(context.Background(), "p1", []model.ProductVariantMedia{
		{ProductID: "p1", TemplateValueID: "v1", MediaID: "m1", IsMain: true},
		{ProductID: "p1", TemplateValueID: "v1", MediaID: "m2", SortOrder: 1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSKUMedia_EmptyClears(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sku_media WHERE sku_id").WithArgs("sku-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceSKUMedia(context.Background(), "sku-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSKUMedia_RollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sku_media WHERE sku_id").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO sku_media").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceSKUMedia(context.Background(), "sku-1", []model.SkuMedia{{SKUID: "sku-1", MediaID: "m1", IsMain: true}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RemovesBindingsFirst(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	for _, table := range []string{"product_media", "sku_media", "product_variant_media"} {
		mock.ExpectExec("DELETE FROM " + table + " WHERE media_id").WithArgs("m1").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("DELETE FROM media WHERE id").WithArgs("m1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindVariantMedia_Groups(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM product_variant_media b JOIN media m").
		WithArgs("p1", "v1", "v2").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "media_id", "url", "media_type", "is_main", "sort_order"}).
			AddRow("v1", "m1", "u1", "image", true, 0).
			AddRow("v2", "m2", "u2", "image", true, 0).
			AddRow("v2", "m3", "u3", "video", false, -1))

	out, err := repo.FindVariantMedia(context.Background(), "p1", []string{"v1", "v2"})
	require.NoError(t, err)
	assert.Len(t, out["v1"], 1)
	assert.Len(t, out["v2"], 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSKUContext_ParsesSpecifications(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM skus s").
		WithArgs("sku-1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"sku_id", "product_id", "department_id", "template_id", "specifications"}).
			AddRow("sku-1", "p1", "d1", "tpl-1", []byte(`"{\"Color\":\"Red\"}"`)))

	sc, err := repo.FindSKUContext(context.Background(), "t1", "sku-1")
	require.NoError(t, err)
	require.NotNil(t, sc)
	v, ok := sc.Specifications.Get("Color")
	assert.True(t, ok)
	assert.Equal(t, "Red", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}
