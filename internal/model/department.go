package model

type Department struct {
	BaseModel
	TenantID string             `db:"tenant_id" json:"tenant_id"`
	Name     string             `db:"name" json:"name"`
	Category DepartmentCategory `db:"category" json:"category"`
}

func (d *Department) IsFactory() bool {
	return d != nil && d.Category == DepartmentFactory
}

type Site struct {
	BaseModel
	TenantID     string   `db:"tenant_id" json:"tenant_id"`
	DepartmentID string   `db:"department_id" json:"department_id"`
	Name         string   `db:"name" json:"name"`
	SiteType     SiteType `db:"site_type" json:"site_type"`
}
