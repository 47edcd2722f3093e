package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) MasterCategoryExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM master_categories WHERE id = $1)`, id)
	return exists, err
}

func (r *PGRepository) Create(ctx context.Context, t *model.Template) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var id string
		err := tx.QueryRowxContext(ctx, `
            INSERT INTO templates (id, name, master_category_id, version, created_at, updated_at)
            VALUES ($1, $2, $3, 1, $4, $5)
            RETURNING id
        `, t.ID, t.Name, t.MasterCategoryID, t.CreatedAt, t.UpdatedAt).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return template.ErrNotCreated
			}
			return fmt.Errorf("insert template: %w", err)
		}
		if id == "" {
			return template.ErrNotCreated
		}
		t.Version = 1
		return insertKeys(ctx, tx, t.Keys)
	})
}

func (r *PGRepository) Replace(ctx context.Context, t *model.Template, expectedVersion *int) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		query := `
            UPDATE templates
            SET name = $2, master_category_id = $3, version = version + 1, updated_at = $4
            WHERE id = $1`
		args := []interface{}{t.ID, t.Name, t.MasterCategoryID, t.UpdatedAt}
		if expectedVersion != nil {
			query += ` AND version = $5`
			args = append(args, *expectedVersion)
		}
		query += ` RETURNING version`

		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&t.Version); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("update template: %w", err)
			}
			var exists bool
			if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM templates WHERE id = $1)`, t.ID); err != nil {
				return err
			}
			if exists {
				return template.ErrStaleVersion
			}
			return template.ErrNotFound
		}

		if err := deleteFields(ctx, tx, t.ID); err != nil {
			return err
		}
		if err := insertKeys(ctx, tx, t.Keys); err != nil {
			return err
		}

		// Products derive their master category from the template.
		_, err := tx.ExecContext(ctx, `
            UPDATE product_master_categories
            SET master_category_id = $2
            WHERE product_id IN (SELECT product_id FROM product_templates WHERE template_id = $1)
        `, t.ID, t.MasterCategoryID)
		if err != nil {
			return fmt.Errorf("propagate master category: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := deleteFields(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_templates WHERE template_id = $1`, id); err != nil {
			return fmt.Errorf("delete product bindings: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return template.ErrNotFound
		}
		return nil
	})
}

// deleteFields removes variant media bound to the template's values, then
// the values, then the keys.
func deleteFields(ctx context.Context, tx *sqlx.Tx, templateID string) error {
	_, err := tx.ExecContext(ctx, `
        DELETE FROM product_variant_media
        WHERE template_value_id IN (
            SELECT tv.id FROM template_values tv
            JOIN template_keys tk ON tk.id = tv.template_key_id
            WHERE tk.template_id = $1
        )
    `, templateID)
	if err != nil {
		return fmt.Errorf("delete stale variant media: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        DELETE FROM template_values
        WHERE template_key_id IN (SELECT id FROM template_keys WHERE template_id = $1)
    `, templateID)
	if err != nil {
		return fmt.Errorf("delete template values: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM template_keys WHERE template_id = $1`, templateID); err != nil {
		return fmt.Errorf("delete template keys: %w", err)
	}
	return nil
}

func insertKeys(ctx context.Context, tx *sqlx.Tx, keys []model.TemplateKey) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `
        INSERT INTO template_keys (id, template_id, key, input_type, is_required, is_sku_spec, role, sort_order)
        VALUES (:id, :template_id, :key, :input_type, :is_required, :is_sku_spec, :role, :sort_order)
    `, keys)
	if err != nil {
		return fmt.Errorf("insert template keys: %w", err)
	}

	var values []model.TemplateValue
	for _, k := range keys {
		values = append(values, k.Values...)
	}
	if len(values) == 0 {
		return nil
	}
	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO template_values (id, template_key_id, value, sort_order)
        VALUES (:id, :template_key_id, :value, :sort_order)
    `, values)
	if err != nil {
		return fmt.Errorf("insert template values: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Template, error) {
	var t model.Template
	err := r.DB.GetContext(ctx, &t, `
        SELECT id, name, master_category_id, version, created_at, updated_at
        FROM templates WHERE id = $1 LIMIT 1
    `, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	keys, err := r.FindKeysByTemplateIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	t.Keys = keys[id]
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TemplateFilters) ([]model.Template, int, error) {
	var templates []model.Template
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Search != "" {
		conditions = append(conditions, `name ILIKE :search ESCAPE '\'`)
		args["search"] = postgres.Contains(f.Search)
	}
	if f.MasterCategoryID != "" {
		conditions = append(conditions, "master_category_id = :master_category_id")
		args["master_category_id"] = f.MasterCategoryID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := r.DB.BindNamed("SELECT count(*) FROM templates"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, name, master_category_id, version, created_at, updated_at FROM templates" +
		whereClause + " ORDER BY created_at DESC, id ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &templates, args); err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	keys, err := r.FindKeysByTemplateIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range templates {
		templates[i].Keys = keys[templates[i].ID]
	}
	return templates, count, nil
}

func (r *PGRepository) FindKeysByTemplateIDs(ctx context.Context, templateIDs []string) (map[string][]model.TemplateKey, error) {
	result := make(map[string][]model.TemplateKey, len(templateIDs))
	if len(templateIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, template_id, key, input_type, is_required, is_sku_spec, role, sort_order
        FROM template_keys
        WHERE template_id IN (?)
        ORDER BY template_id, sort_order, id
    `, templateIDs)
	if err != nil {
		return nil, err
	}
	var keys []model.TemplateKey
	if err := r.DB.SelectContext(ctx, &keys, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return result, nil
	}

	keyIDs := make([]string, len(keys))
	for i, k := range keys {
		keyIDs[i] = k.ID
	}
	query, args, err = sqlx.In(`
        SELECT id, template_key_id, value, sort_order
        FROM template_values
        WHERE template_key_id IN (?)
        ORDER BY template_key_id, sort_order, id
    `, keyIDs)
	if err != nil {
		return nil, err
	}
	var values []model.TemplateValue
	if err := r.DB.SelectContext(ctx, &values, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	byKey := make(map[string][]model.TemplateValue, len(keys))
	for _, v := range values {
		byKey[v.TemplateKeyID] = append(byKey[v.TemplateKeyID], v)
	}
	for _, k := range keys {
		k.Values = byKey[k.ID]
		if k.Values == nil {
			k.Values = []model.TemplateValue{}
		}
		result[k.TemplateID] = append(result[k.TemplateID], k)
	}
	return result, nil
}
