package distribution

import (
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
)

// Policy captures how a site type reads and writes the catalog.
//
// Factory sites see a product only through their own SiteProduct row and own
// the product data. Group sites see every tenant product; a missing row means
// the product has not been curated for the site yet, and their writes are
// limited to the override row.
type Policy struct {
	TenantID     string
	DepartmentID string
	SiteID       string
	SiteType     model.SiteType
}

func NewPolicy(id auth.Identity) Policy {
	return Policy{
		TenantID:     id.TenantID,
		DepartmentID: id.DepartmentID,
		SiteID:       id.SiteID,
		SiteType:     id.SiteType,
	}
}

func (p Policy) IsFactory() bool {
	return p.SiteType == model.SiteTypeFactory
}

func (p Policy) JoinKind() string {
	if p.IsFactory() {
		return "INNER JOIN"
	}
	return "LEFT JOIN"
}

func (p Policy) DepartmentScoped() bool {
	return p.IsFactory()
}

func (p Policy) CanWriteProducts() bool {
	return p.IsFactory()
}

const DisplayColumns = `COALESCE(sp.site_name, p.name) AS display_name,
    COALESCE(sp.site_description, p.description) AS display_description`

const OrderBy = ` ORDER BY sp.sort_order ASC NULLS LAST, p.sort_order ASC, p.created_at DESC, p.id ASC`

// Filters are the optional listing filters. ProductID narrows the query to
// one product for detail lookups.
type Filters struct {
	Search         string
	SiteCategoryID string
	IsVisible      *bool
	IsListed       *bool
	Status         string
	TemplateID     string
	ProductID      string
}

func (p Policy) FromClause() string {
	return ` FROM products p
    ` + p.JoinKind() + ` site_products sp ON sp.product_id = p.id AND sp.site_id = :site_id
    LEFT JOIN product_templates pt ON pt.product_id = p.id
    LEFT JOIN product_master_categories pmc ON pmc.product_id = p.id`
}

// Where builds the WHERE clause and its named arguments. Tenant isolation is
// always applied; department isolation only for factory sites.
func (p Policy) Where(f Filters) (string, map[string]interface{}) {
	conditions := []string{"p.tenant_id = :tenant_id"}
	args := map[string]interface{}{
		"tenant_id": p.TenantID,
		"site_id":   p.SiteID,
	}

	if p.DepartmentScoped() {
		conditions = append(conditions, "p.department_id = :department_id")
		args["department_id"] = p.DepartmentID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "p.id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Search != "" {
		conditions = append(conditions, `(p.name ILIKE :search ESCAPE '\' OR sp.site_name ILIKE :search ESCAPE '\' OR p.spu_code ILIKE :search ESCAPE '\')`)
		args["search"] = postgres.Contains(f.Search)
	}
	if f.SiteCategoryID != "" {
		conditions = append(conditions, `EXISTS (
        SELECT 1 FROM site_product_categories spc
        WHERE spc.site_product_id = sp.id AND spc.site_category_id = :site_category_id)`)
		args["site_category_id"] = f.SiteCategoryID
	}
	if f.IsVisible != nil {
		if p.IsFactory() || !*f.IsVisible {
			conditions = append(conditions, "sp.is_visible = :is_visible")
			args["is_visible"] = *f.IsVisible
		} else {
			// uncurated products count as visible on group sites
			conditions = append(conditions, "(sp.id IS NULL OR sp.is_visible = TRUE)")
		}
	}
	if f.IsListed != nil && !p.IsFactory() {
		if *f.IsListed {
			conditions = append(conditions, "sp.id IS NOT NULL")
		} else {
			conditions = append(conditions, "sp.id IS NULL")
		}
	}
	if f.Status != "" {
		conditions = append(conditions, "p.status = :status")
		args["status"] = f.Status
	}
	if f.TemplateID != "" {
		conditions = append(conditions, "pt.template_id = :template_id")
		args["template_id"] = f.TemplateID
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}
