package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const siteProductColumns = `id, site_id, product_id, site_name, site_description, seo_title,
    is_visible, sort_order, created_at, updated_at`

func (r *PGRepository) UpdateSortOrders(ctx context.Context, p distribution.Policy, items []dto.SortOrderItem, propagate bool) (int, error) {
	var touched int
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		now := time.Now()
		for _, item := range items {
			res, err := tx.ExecContext(ctx, `
                UPDATE site_products SET sort_order = $1, updated_at = $2
                WHERE site_id = $3 AND product_id = $4
                  AND product_id IN (SELECT id FROM products WHERE tenant_id = $5)
            `, item.SortOrder, now, p.SiteID, item.ProductID, p.TenantID)
			if err != nil {
				return fmt.Errorf("update site sort order: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			touched += int(n)

			if !propagate {
				continue
			}
			_, err = tx.ExecContext(ctx, `
                UPDATE products SET sort_order = $1, updated_at = $2
                WHERE id = $3 AND tenant_id = $4 AND department_id = $5
            `, item.SortOrder, now, item.ProductID, p.TenantID, p.DepartmentID)
			if err != nil {
				return fmt.Errorf("update product sort order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

// SetVisibility flips is_visible on the site's rows. Group sites curate
// products by creating the row when it is missing; factory sites only have
// rows for products they distribute.
func (r *PGRepository) SetVisibility(ctx context.Context, p distribution.Policy, productIDs []string, visible bool) (int, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	var touched int
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		ids, err := ownedProductIDs(ctx, tx, p, productIDs)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		now := time.Now()
		if p.IsFactory() {
			query, args, err := sqlx.In(`
                UPDATE site_products SET is_visible = ?, updated_at = ?
                WHERE site_id = ? AND product_id IN (?)
            `, visible, now, p.SiteID, ids)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
			if err != nil {
				return fmt.Errorf("update visibility: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			touched = int(n)
			return nil
		}

		for _, id := range ids {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO site_products (id, site_id, product_id, is_visible, sort_order, created_at, updated_at)
                VALUES ($1, $2, $3, $4, 0, $5, $5)
                ON CONFLICT (site_id, product_id) DO UPDATE
                SET is_visible = EXCLUDED.is_visible, updated_at = EXCLUDED.updated_at
            `, uuid.New().String(), p.SiteID, id, visible, now)
			if err != nil {
				return fmt.Errorf("upsert visibility: %w", err)
			}
			touched++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

func ownedProductIDs(ctx context.Context, tx *sqlx.Tx, p distribution.Policy, productIDs []string) ([]string, error) {
	q := `SELECT id FROM products WHERE tenant_id = ? AND id IN (?)`
	args := []interface{}{p.TenantID, productIDs}
	if p.DepartmentScoped() {
		q += ` AND department_id = ?`
		args = append(args, p.DepartmentID)
	}
	query, qargs, err := sqlx.In(q, args...)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := tx.SelectContext(ctx, &ids, tx.Rebind(query), qargs...); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PGRepository) UpsertOverride(ctx context.Context, o *dto.Override) (*model.SiteProduct, error) {
	var sp *model.SiteProduct
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var err error
		sp, err = SaveOverride(ctx, tx, o)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// SaveOverride merges o into the (site, product) row inside tx, creating the
// row when missing, and replaces its site categories when o carries them.
func SaveOverride(ctx context.Context, tx *sqlx.Tx, o *dto.Override) (*model.SiteProduct, error) {
	var sp model.SiteProduct
	now := time.Now()

	err := tx.GetContext(ctx, &sp, `SELECT `+siteProductColumns+`
        FROM site_products WHERE site_id = $1 AND product_id = $2 FOR UPDATE`, o.SiteID, o.ProductID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sp = model.SiteProduct{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now},
			SiteID:    o.SiteID,
			ProductID: o.ProductID,
			IsVisible: true,
		}
	case err != nil:
		return nil, fmt.Errorf("load site product: %w", err)
	}

	if o.SiteName != nil {
		sp.SiteName = nullable(*o.SiteName)
	}
	if o.SiteDescription != nil {
		sp.SiteDescription = nullable(*o.SiteDescription)
	}
	if o.SEOTitle != nil {
		sp.SEOTitle = nullable(*o.SEOTitle)
	}
	if o.IsVisible != nil {
		sp.IsVisible = *o.IsVisible
	}
	sp.UpdatedAt = now

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO site_products (`+siteProductColumns+`)
        VALUES (:id, :site_id, :product_id, :site_name, :site_description, :seo_title,
                :is_visible, :sort_order, :created_at, :updated_at)
        ON CONFLICT (site_id, product_id) DO UPDATE
        SET site_name = EXCLUDED.site_name,
            site_description = EXCLUDED.site_description,
            seo_title = EXCLUDED.seo_title,
            is_visible = EXCLUDED.is_visible,
            updated_at = EXCLUDED.updated_at
    `, &sp)
	if err != nil {
		return nil, fmt.Errorf("upsert site product: %w", err)
	}

	if o.SiteCategoryIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM site_product_categories WHERE site_product_id = $1`, sp.ID); err != nil {
			return nil, fmt.Errorf("clear site categories: %w", err)
		}
		for _, catID := range o.SiteCategoryIDs {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO site_product_categories (site_product_id, site_category_id)
                VALUES ($1, $2) ON CONFLICT DO NOTHING
            `, sp.ID, catID)
			if err != nil {
				return nil, fmt.Errorf("insert site category: %w", err)
			}
		}
	}
	return &sp, nil
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (r *PGRepository) FindSiteProduct(ctx context.Context, siteID, productID string) (*model.SiteProduct, error) {
	var sp model.SiteProduct
	err := r.DB.GetContext(ctx, &sp, `SELECT `+siteProductColumns+`
        FROM site_products WHERE site_id = $1 AND product_id = $2`, siteID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sp, nil
}

func (r *PGRepository) ProductExists(ctx context.Context, p distribution.Policy, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND tenant_id = $2`
	args := []interface{}{productID, p.TenantID}
	if p.DepartmentScoped() {
		query += ` AND department_id = $3`
		args = append(args, p.DepartmentID)
	}
	query += `)`

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, query, args...); err != nil {
		return false, err
	}
	return exists, nil
}
