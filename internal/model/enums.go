package model

type SiteType string

const (
	SiteTypeFactory SiteType = "factory"
	SiteTypeGroup   SiteType = "group"
)

func (t SiteType) Valid() bool {
	return t == SiteTypeFactory || t == SiteTypeGroup
}

// DepartmentCategory mirrors SiteType: factories own products, groups
// (headquarters) distribute them.
type DepartmentCategory string

const (
	DepartmentFactory DepartmentCategory = "factory"
	DepartmentGroup   DepartmentCategory = "group"
)

type InputType string

const (
	InputText        InputType = "text"
	InputNumber      InputType = "number"
	InputSelect      InputType = "select"
	InputMultiSelect InputType = "multiselect"
)

func (t InputType) Valid() bool {
	switch t {
	case InputText, InputNumber, InputSelect, InputMultiSelect:
		return true
	}
	return false
}

// HasOptions reports whether template values are selectable options rather
// than a single default.
func (t InputType) HasOptions() bool {
	return t == InputSelect || t == InputMultiSelect
}

type KeyRole string

const (
	RoleGeneric KeyRole = "generic"
	RoleColor   KeyRole = "color"
)

func (r KeyRole) Valid() bool {
	return r == RoleGeneric || r == RoleColor
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type MediaSource string

const (
	SourceSKU     MediaSource = "sku"
	SourceVariant MediaSource = "variant"
	SourceProduct MediaSource = "product"
)
