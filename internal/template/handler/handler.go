package handler

import (
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/template"
	"github.com/fekuna/omnipos-catalog-service/internal/template/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/pagination"
	"github.com/fekuna/omnipos-catalog-service/pkg/response"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	uc           template.UseCase
	tr           *i18n.Translator
	logger       logger.ZapLogger
	defaultLimit int
	maxLimit     int
}

func NewTemplateHandler(uc template.UseCase, tr *i18n.Translator, log logger.ZapLogger, defaultLimit, maxLimit int) *TemplateHandler {
	return &TemplateHandler{
		uc:           uc,
		tr:           tr,
		logger:       log,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (h *TemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/templates")
	g.GET("", h.ListTemplates)
	g.POST("", h.CreateTemplate)
	g.GET("/:id", h.GetTemplate)
	g.PUT("/:id", h.UpdateTemplate)
	g.DELETE("/:id", h.DeleteTemplate)
}

type templateRequest struct {
	Name             string           `json:"name" binding:"required"`
	MasterCategoryID string           `json:"masterCategoryId" binding:"required"`
	Fields           []dto.FieldInput `json:"fields"`
	ExpectedVersion  *int             `json:"expectedVersion"`
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	t, err := h.uc.CreateTemplate(c.Request.Context(), &dto.CreateTemplateInput{
		Name:             req.Name,
		MasterCategoryID: req.MasterCategoryID,
		Fields:           req.Fields,
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.Created(c, t)
}

func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	t, err := h.uc.UpdateTemplate(c.Request.Context(), &dto.UpdateTemplateInput{
		ID:               c.Param("id"),
		Name:             req.Name,
		MasterCategoryID: req.MasterCategoryID,
		Fields:           req.Fields,
		ExpectedVersion:  req.ExpectedVersion,
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, t)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.uc.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, nil)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	t, err := h.uc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, t)
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	p := pagination.Normalize(page, limit, h.defaultLimit, h.maxLimit)

	templates, total, err := h.uc.ListTemplates(c.Request.Context(), &dto.TemplateFilters{
		Search:           c.Query("search"),
		MasterCategoryID: c.Query("masterCategoryId"),
		Page:             p.Page,
		PageSize:         p.Limit,
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.List(c, templates, total)
}
