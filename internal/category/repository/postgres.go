package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const categoryColumns = `id, tenant_id, site_id, parent_id, name, description, image_url,
    sort_order, is_active, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, c *model.SiteCategory) error {
	query := `
        INSERT INTO site_categories (` + categoryColumns + `)
        VALUES (:id, :tenant_id, :site_id, :parent_id, :name, :description, :image_url, :sort_order, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, siteID, id string) (*model.SiteCategory, error) {
	var category model.SiteCategory
	query := `SELECT ` + categoryColumns + ` FROM site_categories
        WHERE id = $1 AND tenant_id = $2 AND site_id = $3 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id, tenantID, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.SiteCategory, int, error) {
	var categories []model.SiteCategory
	var count int

	conditions := []string{"tenant_id = :tenant_id", "site_id = :site_id"}
	args := map[string]interface{}{
		"tenant_id": f.TenantID,
		"site_id":   f.SiteID,
	}

	if f.ParentID != nil {
		if *f.ParentID == "" {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			conditions = append(conditions, "parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM site_categories"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT " + categoryColumns + " FROM site_categories" + whereClause + " ORDER BY sort_order ASC, name ASC, id ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &categories, args); err != nil {
		return nil, 0, err
	}

	return categories, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.SiteCategory) error {
	query := `
        UPDATE site_categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            image_url = :image_url,
            sort_order = :sort_order,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND tenant_id = :tenant_id AND site_id = :site_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

// Delete removes the category and its product assignments. Children are
// moved to the root.
func (r *PGRepository) Delete(ctx context.Context, tenantID, siteID, id string) (bool, error) {
	var deleted bool
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM site_product_categories WHERE site_category_id = $1`, id); err != nil {
			return fmt.Errorf("delete category assignments: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
            UPDATE site_categories SET parent_id = NULL
            WHERE parent_id = $1 AND tenant_id = $2 AND site_id = $3
        `, id, tenantID, siteID)
		if err != nil {
			return fmt.Errorf("detach child categories: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM site_categories WHERE id = $1 AND tenant_id = $2 AND site_id = $3`, id, tenantID, siteID)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		if !deleted {
			// not ours: roll back
			return sql.ErrNoRows
		}
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return deleted, err
}

func (r *PGRepository) CountInSite(ctx context.Context, tenantID, siteID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
        SELECT count(DISTINCT id) FROM site_categories
        WHERE tenant_id = ? AND site_id = ? AND id IN (?)
    `, tenantID, siteID, ids)
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(query), args...); err != nil {
		return 0, err
	}
	return count, nil
}
