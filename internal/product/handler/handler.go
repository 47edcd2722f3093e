package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/pagination"
	"github.com/fekuna/omnipos-catalog-service/pkg/response"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductHandler struct {
	uc           product.UseCase
	tr           *i18n.Translator
	logger       logger.ZapLogger
	defaultLimit int
	maxLimit     int
}

func NewProductHandler(uc product.UseCase, tr *i18n.Translator, log logger.ZapLogger, defaultLimit, maxLimit int) *ProductHandler {
	return &ProductHandler{
		uc:           uc,
		tr:           tr,
		logger:       log,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("", h.ListProducts)
	g.POST("", h.CreateProduct)
	g.GET("/export", h.ExportProducts)
	g.GET("/suggest", h.SuggestProducts)
	g.POST("/batch-delete", h.BatchDelete)
	g.GET("/:id", h.GetProduct)
	g.PUT("/:id", h.UpdateProduct)
	g.POST("/:id/skus", h.CreateSKU)

	s := rg.Group("/skus")
	s.PUT("/:id", h.UpdateSKU)
	s.DELETE("/:id", h.DeleteSKU)
}

func (h *ProductHandler) filters(c *gin.Context) *dto.ProductFilters {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	p := pagination.Normalize(page, limit, h.defaultLimit, h.maxLimit)

	f := &dto.ProductFilters{
		Search:         c.Query("search"),
		SiteCategoryID: c.Query("siteCategoryId"),
		Status:         c.Query("status"),
		TemplateID:     c.Query("templateId"),
		Page:           p.Page,
		PageSize:       p.Limit,
	}
	if v, err := strconv.ParseBool(c.Query("isVisible")); err == nil {
		f.IsVisible = &v
	}
	if v, err := strconv.ParseBool(c.Query("isListed")); err == nil {
		f.IsListed = &v
	}
	return f
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	items, total, err := h.uc.ListProducts(c.Request.Context(), auth.GetIdentity(c), h.filters(c))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.List(c, items, total)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	item, err := h.uc.GetProduct(c.Request.Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, item)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	item, err := h.uc.CreateProduct(c.Request.Context(), auth.GetIdentity(c), &input)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.Created(c, item)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, h.tr, err)
		return
	}
	input.ID = c.Param("id")

	item, err := h.uc.UpdateProduct(c.Request.Context(), auth.GetIdentity(c), &input)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, item)
}

type batchDeleteRequest struct {
	ProductIDs []string `json:"productIds" binding:"required,min=1"`
}

func (h *ProductHandler) BatchDelete(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	n, err := h.uc.BatchDelete(c.Request.Context(), auth.GetIdentity(c), req.ProductIDs)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, gin.H{"deleted": n})
}

func (h *ProductHandler) SuggestProducts(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	out, err := h.uc.SuggestProducts(c.Request.Context(), auth.GetIdentity(c), c.Query("q"), size)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, out)
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	data, err := h.uc.ExportProducts(c.Request.Context(), auth.GetIdentity(c), h.filters(c))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}

	filename := "products_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ProductHandler) CreateSKU(c *gin.Context) {
	var input dto.SKUInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	sku, err := h.uc.CreateSKU(c.Request.Context(), auth.GetIdentity(c), c.Param("id"), &input)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.Created(c, sku)
}

func (h *ProductHandler) UpdateSKU(c *gin.Context) {
	var input dto.UpdateSKUInput
	if err := c.ShouldBindJSON(&input.SKUInput); err != nil {
		response.BindError(c, h.tr, err)
		return
	}
	input.ID = c.Param("id")

	sku, err := h.uc.UpdateSKU(c.Request.Context(), auth.GetIdentity(c), &input)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, sku)
}

func (h *ProductHandler) DeleteSKU(c *gin.Context) {
	if err := h.uc.DeleteSKU(c.Request.Context(), auth.GetIdentity(c), c.Param("id")); err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, nil)
}
