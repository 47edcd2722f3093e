package dto

type TemplateFilters struct {
	Search           string // matches template name
	MasterCategoryID string
	Page             int
	PageSize         int
}
