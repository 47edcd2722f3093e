package model

// MasterCategory is the global category tree templates hang off.
type MasterCategory struct {
	BaseModel
	ParentID  *string `db:"parent_id" json:"parent_id"`
	Name      string  `db:"name" json:"name"`
	SortOrder int     `db:"sort_order" json:"sort_order"`
}

// SiteCategory is a per-site merchandising category.
type SiteCategory struct {
	BaseModel
	TenantID    string         `db:"tenant_id" json:"tenant_id"`
	SiteID      string         `db:"site_id" json:"site_id"`
	ParentID    *string        `db:"parent_id" json:"parent_id"` // Nullable
	Name        string         `db:"name" json:"name"`
	Description *string        `db:"description" json:"description"`
	ImageURL    *string        `db:"image_url" json:"image_url"`
	SortOrder   int            `db:"sort_order" json:"sort_order"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	Children    []SiteCategory `db:"-" json:"children,omitempty"`
}
