package distribution

import (
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

var (
	factory = NewPolicy(auth.Identity{TenantID: "t1", DepartmentID: "d1", SiteID: "s1", SiteType: model.SiteTypeFactory})
	group   = NewPolicy(auth.Identity{TenantID: "t1", DepartmentID: "d2", SiteID: "s2", SiteType: model.SiteTypeGroup})
)

func TestPolicy_JoinAndWrites(t *testing.T) {
	assert.Contains(t, factory.FromClause(), "INNER JOIN site_products sp")
	assert.Contains(t, group.FromClause(), "LEFT JOIN site_products sp")
	assert.True(t, factory.CanWriteProducts())
	assert.False(t, group.CanWriteProducts())
}

func TestPolicy_TenantAlwaysDepartmentForFactoryOnly(t *testing.T) {
	where, args := factory.Where(Filters{})
	assert.Contains(t, where, "p.tenant_id = :tenant_id")
	assert.Contains(t, where, "p.department_id = :department_id")
	assert.Equal(t, "d1", args["department_id"])

	where, args = group.Where(Filters{})
	assert.Contains(t, where, "p.tenant_id = :tenant_id")
	assert.NotContains(t, where, "department_id")
	assert.NotContains(t, args, "department_id")
	assert.Equal(t, "s2", args["site_id"])
}

func TestPolicy_SearchMatchesNameSiteNameAndCode(t *testing.T) {
	where, args := group.Where(Filters{Search: "tee"})
	assert.Contains(t, where, `p.name ILIKE :search ESCAPE '\' OR sp.site_name ILIKE :search ESCAPE '\' OR p.spu_code ILIKE :search ESCAPE '\'`)
	assert.Equal(t, "%tee%", args["search"])
}

func TestPolicy_SearchWildcardsAreLiteral(t *testing.T) {
	_, args := group.Where(Filters{Search: "50%_off"})
	assert.Equal(t, `%50\%\_off%`, args["search"])
}

func TestPolicy_Visibility(t *testing.T) {
	where, args := factory.Where(Filters{IsVisible: boolPtr(true)})
	assert.Contains(t, where, "sp.is_visible = :is_visible")
	assert.Equal(t, true, args["is_visible"])

	where, _ = group.Where(Filters{IsVisible: boolPtr(true)})
	assert.Contains(t, where, "(sp.id IS NULL OR sp.is_visible = TRUE)")

	where, args = group.Where(Filters{IsVisible: boolPtr(false)})
	assert.Contains(t, where, "sp.is_visible = :is_visible")
	assert.Equal(t, false, args["is_visible"])
}

func TestPolicy_ListedOnlyOnGroupSites(t *testing.T) {
	where, _ := group.Where(Filters{IsListed: boolPtr(false)})
	assert.Contains(t, where, "sp.id IS NULL")

	where, _ = group.Where(Filters{IsListed: boolPtr(true)})
	assert.Contains(t, where, "sp.id IS NOT NULL")

	where, _ = factory.Where(Filters{IsListed: boolPtr(false)})
	assert.NotContains(t, where, "sp.id IS NULL")
}

func TestPolicy_SiteCategoryUsesExistsOnSiteProduct(t *testing.T) {
	where, args := factory.Where(Filters{SiteCategoryID: "c1"})
	assert.Contains(t, where, "EXISTS (")
	assert.Contains(t, where, "spc.site_product_id = sp.id")
	assert.Equal(t, "c1", args["site_category_id"])
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY sp.sort_order ASC NULLS LAST, p.sort_order ASC, p.created_at DESC, p.id ASC", OrderBy)
}
