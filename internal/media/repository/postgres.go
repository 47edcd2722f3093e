package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/media"
	"github.com/fekuna/omnipos-catalog-service/internal/media/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

var _ media.Repository = (*PGRepository)(nil)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const mediaColumns = `id, tenant_id, url, storage_key, media_type, mime_type, size, created_at`

// Images first in their sort order, then videos.
const bindingOrder = `(b.sort_order < 0) ASC, ABS(b.sort_order) ASC, m.id ASC`

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Media, error) {
	var m model.Media
	err := r.DB.GetContext(ctx, &m, `SELECT `+mediaColumns+` FROM media WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Media, error) {
	out := []model.Media{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT `+mediaColumns+` FROM media WHERE tenant_id = ? AND id IN (?)`, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepository) Create(ctx context.Context, m *model.Media) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO media (`+mediaColumns+`)
        VALUES (:id, :tenant_id, :url, :storage_key, :media_type, :mime_type, :size, :created_at)
    `, m)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		for _, table := range []string{"product_media", "sku_media", "product_variant_media"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE media_id = $1`, id); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) FindSKUContext(ctx context.Context, tenantID, skuID string) (*dto.SKUContext, error) {
	var sc dto.SKUContext
	err := r.DB.GetContext(ctx, &sc, `
        SELECT s.id AS sku_id, s.product_id, p.department_id, pt.template_id, s.specifications
        FROM skus s
        JOIN products p ON p.id = s.product_id
        LEFT JOIN product_templates pt ON pt.product_id = p.id
        WHERE s.id = $1 AND p.tenant_id = $2
    `, skuID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sc, nil
}

func (r *PGRepository) FindProductContext(ctx context.Context, tenantID, productID string) (*dto.ProductContext, error) {
	var pc dto.ProductContext
	err := r.DB.GetContext(ctx, &pc, `
        SELECT p.id AS product_id, p.department_id, pt.template_id
        FROM products p
        LEFT JOIN product_templates pt ON pt.product_id = p.id
        WHERE p.id = $1 AND p.tenant_id = $2
    `, productID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pc, nil
}

func (r *PGRepository) FindSKUMedia(ctx context.Context, skuID string) ([]model.BoundMedia, error) {
	out := []model.BoundMedia{}
	err := r.DB.SelectContext(ctx, &out, `
        SELECT b.sku_id AS owner_id, m.id AS media_id, m.url, m.media_type, b.is_main, b.sort_order
        FROM sku_media b JOIN media m ON m.id = b.media_id
        WHERE b.sku_id = $1
        ORDER BY `+bindingOrder, skuID)
	return out, err
}

func (r *PGRepository) FindProductMedia(ctx context.Context, productID string) ([]model.BoundMedia, error) {
	out := []model.BoundMedia{}
	err := r.DB.SelectContext(ctx, &out, `
        SELECT b.product_id AS owner_id, m.id AS media_id, m.url, m.media_type, b.is_main, b.sort_order
        FROM product_media b JOIN media m ON m.id = b.media_id
        WHERE b.product_id = $1
        ORDER BY `+bindingOrder, productID)
	return out, err
}

func (r *PGRepository) FindVariantMedia(ctx context.Context, productID string, valueIDs []string) (map[string][]model.BoundMedia, error) {
	out := make(map[string][]model.BoundMedia, len(valueIDs))
	if len(valueIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
        SELECT b.template_value_id AS owner_id, m.id AS media_id, m.url, m.media_type, b.is_main, b.sort_order
        FROM product_variant_media b JOIN media m ON m.id = b.media_id
        WHERE b.product_id = ? AND b.template_value_id IN (?)
        ORDER BY b.template_value_id, `+bindingOrder, productID, valueIDs)
	if err != nil {
		return nil, err
	}
	var items []model.BoundMedia
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.OwnerID] = append(out[m.OwnerID], m)
	}
	return out, nil
}

func (r *PGRepository) ReplaceSKUMedia(ctx context.Context, skuID string, rows []model.SkuMedia) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sku_media WHERE sku_id = $1`, skuID); err != nil {
			return fmt.Errorf("clear sku media: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO sku_media (sku_id, media_id, is_main, sort_order)
            VALUES (:sku_id, :media_id, :is_main, :sort_order)
        `, rows)
		if err != nil {
			return fmt.Errorf("insert sku media: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) ReplaceVariantMedia(ctx context.Context, productID string, rows []model.ProductVariantMedia) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_variant_media WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear variant media: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO product_variant_media (product_id, template_value_id, media_id, is_main, sort_order)
            VALUES (:product_id, :template_value_id, :media_id, :is_main, :sort_order)
        `, rows)
		if err != nil {
			return fmt.Errorf("insert variant media: %w", err)
		}
		return nil
	})
}
