package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/indexer"
	"github.com/jmoiron/sqlx"
)

var _ indexer.Repository = (*PGRepository)(nil)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) LoadDocument(ctx context.Context, tenantID, productID string) (*indexer.Document, error) {
	var doc indexer.Document
	err := r.DB.GetContext(ctx, &doc, `
        SELECT id, tenant_id, department_id, name, description, spu_code, status, updated_at
        FROM products WHERE id = $1 AND tenant_id = $2
    `, productID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	doc.SKUCodes = []string{}
	err = r.DB.SelectContext(ctx, &doc.SKUCodes, `
        SELECT sku_code FROM skus WHERE product_id = $1 AND sku_code <> '' ORDER BY created_at, id
    `, productID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
