package dto

type CreateCategoryInput struct {
	ParentID    *string `json:"parentId"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	SortOrder   int     `json:"sortOrder"`
}

type UpdateCategoryInput struct {
	ID          string  `json:"-"`
	ParentID    *string `json:"parentId"` // nil or "" moves the category to the root
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    bool    `json:"isActive"`
}
