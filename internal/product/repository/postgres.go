package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	distrepo "github.com/fekuna/omnipos-catalog-service/internal/distribution/repository"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

var _ product.Repository = (*PGRepository)(nil)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const productColumns = `id, tenant_id, department_id, name, description, spu_code, status,
    custom_attributes, sort_order, version, created_at, updated_at`

const listColumns = `p.id, p.tenant_id, p.department_id, p.name, p.description, p.spu_code, p.status,
    p.custom_attributes, p.sort_order, p.version, p.created_at, p.updated_at,
    ` + distribution.DisplayColumns + `,
    sp.id AS site_product_id, sp.site_name, sp.site_description, sp.seo_title,
    sp.is_visible AS site_is_visible, sp.sort_order AS site_sort_order,
    pt.template_id, pmc.master_category_id`

const skuColumns = `id, product_id, sku_code, price, market_price, cost_price, stock,
    specifications, created_at, updated_at`

func (r *PGRepository) FindDepartment(ctx context.Context, tenantID, id string) (*model.Department, error) {
	var d model.Department
	err := r.DB.GetContext(ctx, &d, `
        SELECT id, tenant_id, name, category, created_at, updated_at
        FROM departments WHERE id = $1 AND tenant_id = $2
    `, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func listFilters(f *dto.ProductFilters) distribution.Filters {
	return distribution.Filters{
		Search:         f.Search,
		SiteCategoryID: f.SiteCategoryID,
		IsVisible:      f.IsVisible,
		IsListed:       f.IsListed,
		Status:         f.Status,
		TemplateID:     f.TemplateID,
	}
}

func (r *PGRepository) FindAll(ctx context.Context, p distribution.Policy, f *dto.ProductFilters) ([]dto.ProductRow, int, error) {
	var rows []dto.ProductRow
	var count int

	from := p.FromClause()
	where, args := p.Where(listFilters(f))

	countQuery, countArgs, err := r.DB.BindNamed("SELECT count(*)"+from+where, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + listColumns + from + where + distribution.OrderBy
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

func (r *PGRepository) FindOne(ctx context.Context, p distribution.Policy, id string) (*dto.ProductRow, error) {
	where, args := p.Where(distribution.Filters{ProductID: id})
	query, qargs, err := r.DB.BindNamed("SELECT "+listColumns+p.FromClause()+where+" LIMIT 1", args)
	if err != nil {
		return nil, err
	}

	var row dto.ProductRow
	if err := r.DB.GetContext(ctx, &row, query, qargs...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2 LIMIT 1`, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindTemplateID(ctx context.Context, productID string) (string, error) {
	var id string
	err := r.DB.GetContext(ctx, &id, `SELECT template_id FROM product_templates WHERE product_id = $1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// selectIn runs a query with a single IN (?) list.
func (r *PGRepository) selectIn(ctx context.Context, dest interface{}, query string, ids []string) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return r.DB.SelectContext(ctx, dest, r.DB.Rebind(q), args...)
}

// Images come first in their sort order, then videos.
const mediaOrder = `(b.sort_order < 0) ASC, ABS(b.sort_order) ASC, m.id ASC`

func (r *PGRepository) FindMedia(ctx context.Context, productIDs []string) (map[string][]model.BoundMedia, error) {
	out := make(map[string][]model.BoundMedia, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var items []model.BoundMedia
	err := r.selectIn(ctx, &items, `
        SELECT b.product_id AS owner_id, m.id AS media_id, m.url, m.media_type, b.is_main, b.sort_order
        FROM product_media b JOIN media m ON m.id = b.media_id
        WHERE b.product_id IN (?)
        ORDER BY b.product_id, `+mediaOrder, productIDs)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.OwnerID] = append(out[m.OwnerID], m)
	}
	return out, nil
}

func (r *PGRepository) FindSKUs(ctx context.Context, productIDs []string) (map[string][]model.SKU, error) {
	out := make(map[string][]model.SKU, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var skus []model.SKU
	err := r.selectIn(ctx, &skus, `SELECT `+skuColumns+` FROM skus
        WHERE product_id IN (?) ORDER BY product_id, created_at ASC, id ASC`, productIDs)
	if err != nil {
		return nil, err
	}
	for _, s := range skus {
		out[s.ProductID] = append(out[s.ProductID], s)
	}
	return out, nil
}

func (r *PGRepository) FindSKUMedia(ctx context.Context, skuIDs []string) (map[string][]model.BoundMedia, error) {
	out := make(map[string][]model.BoundMedia, len(skuIDs))
	if len(skuIDs) == 0 {
		return out, nil
	}
	var items []model.BoundMedia
	err := r.selectIn(ctx, &items, `
        SELECT b.sku_id AS owner_id, m.id AS media_id, m.url, m.media_type, b.is_main, b.sort_order
        FROM sku_media b JOIN media m ON m.id = b.media_id
        WHERE b.sku_id IN (?)
        ORDER BY b.sku_id, `+mediaOrder, skuIDs)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.OwnerID] = append(out[m.OwnerID], m)
	}
	return out, nil
}

func (r *PGRepository) FindSiteCategoryIDs(ctx context.Context, siteProductIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(siteProductIDs))
	if len(siteProductIDs) == 0 {
		return out, nil
	}
	var links []struct {
		SiteProductID  string `db:"site_product_id"`
		SiteCategoryID string `db:"site_category_id"`
	}
	err := r.selectIn(ctx, &links, `
        SELECT site_product_id, site_category_id FROM site_product_categories
        WHERE site_product_id IN (?) ORDER BY site_product_id, site_category_id`, siteProductIDs)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.SiteProductID] = append(out[l.SiteProductID], l.SiteCategoryID)
	}
	return out, nil
}

func (r *PGRepository) Create(ctx context.Context, np *dto.NewProduct) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO products (`+productColumns+`)
            VALUES (:id, :tenant_id, :department_id, :name, :description, :spu_code, :status,
                    :custom_attributes, :sort_order, :version, :created_at, :updated_at)
        `, np.Product)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}

		if err := bindTemplate(ctx, tx, np.Product.ID, np.TemplateID, np.MasterCategoryID); err != nil {
			return err
		}

		_, err = tx.NamedExecContext(ctx, `
            INSERT INTO site_products (id, site_id, product_id, site_name, site_description, seo_title,
                                       is_visible, sort_order, created_at, updated_at)
            VALUES (:id, :site_id, :product_id, :site_name, :site_description, :seo_title,
                    :is_visible, :sort_order, :created_at, :updated_at)
        `, np.SiteProduct)
		if err != nil {
			return fmt.Errorf("insert site product: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO site_product_categories (site_product_id, site_category_id) VALUES ($1, $2)
        `, np.SiteProduct.ID, np.SiteCategoryID)
		if err != nil {
			return fmt.Errorf("insert site category: %w", err)
		}

		if err := insertProductMedia(ctx, tx, np.Media); err != nil {
			return err
		}

		if len(np.SKUs) > 0 {
			_, err = tx.NamedExecContext(ctx, `
                INSERT INTO skus (`+skuColumns+`)
                VALUES (:id, :product_id, :sku_code, :price, :market_price, :cost_price, :stock,
                        :specifications, :created_at, :updated_at)
            `, np.SKUs)
			if err != nil {
				return fmt.Errorf("insert skus: %w", err)
			}
		}
		return nil
	})
}

func bindTemplate(ctx context.Context, tx *sqlx.Tx, productID, templateID, masterCategoryID string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO product_templates (product_id, template_id) VALUES ($1, $2)
        ON CONFLICT (product_id) DO UPDATE SET template_id = EXCLUDED.template_id
    `, productID, templateID)
	if err != nil {
		return fmt.Errorf("bind template: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO product_master_categories (product_id, master_category_id) VALUES ($1, $2)
        ON CONFLICT (product_id) DO UPDATE SET master_category_id = EXCLUDED.master_category_id
    `, productID, masterCategoryID)
	if err != nil {
		return fmt.Errorf("bind master category: %w", err)
	}
	return nil
}

func insertProductMedia(ctx context.Context, tx *sqlx.Tx, media []model.ProductMedia) error {
	if len(media) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `
        INSERT INTO product_media (product_id, media_id, is_main, sort_order)
        VALUES (:product_id, :media_id, :is_main, :sort_order)
    `, media)
	if err != nil {
		return fmt.Errorf("insert product media: %w", err)
	}
	return nil
}

func (r *PGRepository) Update(ctx context.Context, c *dto.ProductChanges) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		p := c.Product
		query := `
            UPDATE products
            SET name = $3, description = $4, spu_code = $5, status = $6, custom_attributes = $7,
                version = version + 1, updated_at = $8
            WHERE id = $1 AND tenant_id = $2`
		args := []interface{}{p.ID, p.TenantID, p.Name, p.Description, p.SPUCode, p.Status, p.CustomAttributes, p.UpdatedAt}
		if c.ExpectedVersion != nil {
			query += ` AND version = $9`
			args = append(args, *c.ExpectedVersion)
		}
		query += ` RETURNING version`

		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&p.Version); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return product.ErrStaleVersion
			}
			return fmt.Errorf("update product: %w", err)
		}

		if c.TemplateID != nil {
			if err := bindTemplate(ctx, tx, p.ID, *c.TemplateID, c.MasterCategoryID); err != nil {
				return err
			}
		}

		for _, s := range c.PrunedSKUs {
			_, err := tx.ExecContext(ctx, `UPDATE skus SET specifications = $1, updated_at = $2 WHERE id = $3`,
				s.Specifications, p.UpdatedAt, s.ID)
			if err != nil {
				return fmt.Errorf("prune sku specifications: %w", err)
			}
		}

		if c.Media != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM product_media WHERE product_id = $1`, p.ID); err != nil {
				return fmt.Errorf("clear product media: %w", err)
			}
			if err := insertProductMedia(ctx, tx, *c.Media); err != nil {
				return err
			}
		}

		if c.Override != nil {
			if _, err := distrepo.SaveOverride(ctx, tx, c.Override); err != nil {
				return err
			}
		}
		return nil
	})
}

// execIn runs a statement with a single IN (?) list inside tx.
func execIn(ctx context.Context, tx *sqlx.Tx, query string, ids []string) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(q), args...)
	return err
}

var deepDeleteSteps = []struct {
	name  string
	query string
}{
	{"site skus", `DELETE FROM site_skus WHERE site_product_id IN (SELECT id FROM site_products WHERE product_id IN (?))`},
	{"site product categories", `DELETE FROM site_product_categories WHERE site_product_id IN (SELECT id FROM site_products WHERE product_id IN (?))`},
	{"site products", `DELETE FROM site_products WHERE product_id IN (?)`},
	{"product media", `DELETE FROM product_media WHERE product_id IN (?)`},
	{"variant media", `DELETE FROM product_variant_media WHERE product_id IN (?)`},
	{"product templates", `DELETE FROM product_templates WHERE product_id IN (?)`},
	{"product master categories", `DELETE FROM product_master_categories WHERE product_id IN (?)`},
	{"sku media", `DELETE FROM sku_media WHERE sku_id IN (SELECT id FROM skus WHERE product_id IN (?))`},
	{"skus", `DELETE FROM skus WHERE product_id IN (?)`},
	{"products", `DELETE FROM products WHERE id IN (?)`},
}

func (r *PGRepository) DeepDelete(ctx context.Context, tenantID, departmentID string, ids []string) ([]string, error) {
	var valid []string
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		q, args, err := sqlx.In(`SELECT id FROM products WHERE tenant_id = ? AND department_id = ? AND id IN (?) FOR UPDATE`,
			tenantID, departmentID, ids)
		if err != nil {
			return err
		}
		if err := tx.SelectContext(ctx, &valid, tx.Rebind(q), args...); err != nil {
			return err
		}
		if len(valid) == 0 {
			return nil
		}

		for _, step := range deepDeleteSteps {
			if err := execIn(ctx, tx, step.query, valid); err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

func (r *PGRepository) ShallowDelete(ctx context.Context, tenantID, siteID string, ids []string) (int, error) {
	var siteProductIDs []string
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		q, args, err := sqlx.In(`
            SELECT sp.id FROM site_products sp
            JOIN products p ON p.id = sp.product_id
            WHERE sp.site_id = ? AND p.tenant_id = ? AND sp.product_id IN (?)
        `, siteID, tenantID, ids)
		if err != nil {
			return err
		}
		if err := tx.SelectContext(ctx, &siteProductIDs, tx.Rebind(q), args...); err != nil {
			return err
		}
		if len(siteProductIDs) == 0 {
			return nil
		}

		if err := execIn(ctx, tx, `DELETE FROM site_skus WHERE site_product_id IN (?)`, siteProductIDs); err != nil {
			return fmt.Errorf("delete site skus: %w", err)
		}
		if err := execIn(ctx, tx, `DELETE FROM site_product_categories WHERE site_product_id IN (?)`, siteProductIDs); err != nil {
			return fmt.Errorf("delete site product categories: %w", err)
		}
		if err := execIn(ctx, tx, `DELETE FROM site_products WHERE id IN (?)`, siteProductIDs); err != nil {
			return fmt.Errorf("delete site products: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(siteProductIDs), nil
}

func (r *PGRepository) FindSKU(ctx context.Context, tenantID, skuID string) (*model.SKU, error) {
	var s model.SKU
	err := r.DB.GetContext(ctx, &s, `
        SELECT s.id, s.product_id, s.sku_code, s.price, s.market_price, s.cost_price, s.stock,
               s.specifications, s.created_at, s.updated_at
        FROM skus s JOIN products p ON p.id = s.product_id
        WHERE s.id = $1 AND p.tenant_id = $2
    `, skuID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) CreateSKU(ctx context.Context, s *model.SKU) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO skus (`+skuColumns+`)
        VALUES (:id, :product_id, :sku_code, :price, :market_price, :cost_price, :stock,
                :specifications, :created_at, :updated_at)
    `, s)
	return err
}

func (r *PGRepository) UpdateSKU(ctx context.Context, s *model.SKU) error {
	_, err := r.DB.NamedExecContext(ctx, `
        UPDATE skus
        SET sku_code = :sku_code,
            price = :price,
            market_price = :market_price,
            cost_price = :cost_price,
            stock = :stock,
            specifications = :specifications,
            updated_at = :updated_at
        WHERE id = :id
    `, s)
	return err
}

func (r *PGRepository) DeleteSKU(ctx context.Context, skuID string) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sku_media WHERE sku_id = $1`, skuID); err != nil {
			return fmt.Errorf("delete sku media: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM site_skus WHERE sku_id = $1`, skuID); err != nil {
			return fmt.Errorf("delete site skus: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM skus WHERE id = $1`, skuID); err != nil {
			return fmt.Errorf("delete sku: %w", err)
		}
		return nil
	})
}
