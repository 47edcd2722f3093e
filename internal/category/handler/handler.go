package handler

import (
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/pagination"
	"github.com/fekuna/omnipos-catalog-service/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc           category.UseCase
	tr           *i18n.Translator
	logger       logger.ZapLogger
	defaultLimit int
	maxLimit     int
}

func NewCategoryHandler(uc category.UseCase, tr *i18n.Translator, log logger.ZapLogger, defaultLimit, maxLimit int) *CategoryHandler {
	return &CategoryHandler{
		uc:           uc,
		tr:           tr,
		logger:       log,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.ListCategories)
	g.POST("", h.CreateCategory)
	g.GET("/:id", h.GetCategory)
	g.PUT("/:id", h.UpdateCategory)
	g.DELETE("/:id", h.DeleteCategory)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input dto.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), auth.GetIdentity(c), &input)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.Created(c, cat)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, cat)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	p := pagination.Normalize(page, limit, h.defaultLimit, h.maxLimit)

	filters := &dto.CategoryFilters{
		IncludeChildren: c.Query("includeChildren") == "true",
		Page:            p.Page,
		PageSize:        p.Limit,
	}
	if parentID, ok := c.GetQuery("parentId"); ok {
		filters.ParentID = &parentID
	}
	if v, err := strconv.ParseBool(c.Query("isActive")); err == nil {
		filters.IsActive = &v
	}

	categories, total, err := h.uc.ListCategories(c.Request.Context(), auth.GetIdentity(c), filters)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.List(c, categories, total)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var input dto.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, h.tr, err)
		return
	}
	input.ID = c.Param("id")

	cat, err := h.uc.UpdateCategory(c.Request.Context(), auth.GetIdentity(c), &input)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), auth.GetIdentity(c), c.Param("id")); err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, nil)
}
