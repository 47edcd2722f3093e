package handler

import (
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution"
	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/response"
	"github.com/gin-gonic/gin"
)

type DistributionHandler struct {
	uc     distribution.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewDistributionHandler(uc distribution.UseCase, tr *i18n.Translator, log logger.ZapLogger) *DistributionHandler {
	return &DistributionHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *DistributionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/products/sort-order", h.BatchUpdateSortOrder)
	rg.PUT("/products/visibility", h.SetVisibility)
}

type sortOrderRequest struct {
	Items []dto.SortOrderItem `json:"items" binding:"required,min=1,dive"`
}

func (h *DistributionHandler) BatchUpdateSortOrder(c *gin.Context) {
	var req sortOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	n, err := h.uc.BatchUpdateSortOrder(c.Request.Context(), auth.GetIdentity(c), req.Items)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, gin.H{"updated": n})
}

type visibilityRequest struct {
	ProductIDs []string `json:"productIds" binding:"required,min=1"`
	IsVisible  *bool    `json:"isVisible" binding:"required"`
}

func (h *DistributionHandler) SetVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	n, err := h.uc.SetVisibility(c.Request.Context(), auth.GetIdentity(c), req.ProductIDs, *req.IsVisible)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, gin.H{"updated": n})
}
