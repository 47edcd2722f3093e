package apperror

// Message ids. Every id has an entry in pkg/i18n/locales.
const (
	MsgInternal     = "Internal"
	MsgInvalidInput = "InvalidInput"
	MsgMissingScope = "MissingScope"

	MsgDepartmentNotFound  = "DepartmentNotFound"
	MsgFactoryOnly         = "FactoryOnly"
	MsgSiteWriteRestricted = "SiteWriteRestricted"

	MsgTemplateNotFound       = "TemplateNotFound"
	MsgTemplateRequired       = "TemplateRequired"
	MsgTemplateCreateFailed   = "TemplateCreateFailed"
	MsgTemplateVersion        = "TemplateVersionMismatch"
	MsgMasterCategoryNotFound = "MasterCategoryNotFound"
	MsgFieldKeyRequired       = "FieldKeyRequired"
	MsgFieldKeyDuplicate      = "FieldKeyDuplicate"
	MsgFieldInputType         = "FieldInputTypeInvalid"
	MsgFieldRole              = "FieldRoleInvalid"
	MsgColorFieldDuplicate    = "ColorFieldDuplicate"

	MsgProductNotFound      = "ProductNotFound"
	MsgProductVersion       = "ProductVersionMismatch"
	MsgNoProductsToDelete   = "NoProductsToDelete"
	MsgSiteProductNotFound  = "SiteProductNotFound"
	MsgNoSiteProducts       = "NoSiteProducts"
	MsgSiteCategoryRequired = "SiteCategoryRequired"
	MsgSiteCategoryNotFound = "SiteCategoryNotFound"

	MsgSKUNotFound        = "SKUNotFound"
	MsgSpecKeyUnknown     = "SpecKeyUnknown"
	MsgSpecValueRequired  = "SpecValueRequired"
	MsgSpecValueInvalid   = "SpecValueInvalid"
	MsgSpecValueNotNumber = "SpecValueNotNumber"

	MsgMediaNotFound     = "MediaNotFound"
	MsgMediaEmpty        = "MediaEmpty"
	MsgColorFieldMissing = "ColorFieldMissing"
	MsgVariantValue      = "VariantValueInvalid"
	MsgResourceBusy      = "ResourceBusy"

	MsgCategoryNotFound = "CategoryNotFound"
	MsgCategoryParent   = "CategoryParentInvalid"
)
