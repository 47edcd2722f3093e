package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/media"
	"github.com/fekuna/omnipos-catalog-service/internal/media/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/response"
	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	uc        media.UseCase
	tr        *i18n.Translator
	logger    logger.ZapLogger
	maxUpload int64
}

func NewMediaHandler(uc media.UseCase, tr *i18n.Translator, log logger.ZapLogger, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{
		uc:        uc,
		tr:        tr,
		logger:    log,
		maxUpload: maxUploadBytes,
	}
}

func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/media", h.UploadMedia)
	rg.DELETE("/media/:id", h.DeleteMedia)
	rg.GET("/skus/:id/media", h.ResolveSkuMedia)
	rg.PUT("/skus/:id/media", h.SetSkuMedia)
	rg.GET("/products/:id/variant-media", h.GetVariantMedia)
	rg.PUT("/products/:id/variant-media", h.SetVariantMedia)
}

func (h *MediaHandler) ResolveSkuMedia(c *gin.Context) {
	res, err := h.uc.ResolveSkuMedia(c.Request.Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, res)
}

type skuMediaRequest struct {
	MediaIDs []string `json:"mediaIds" binding:"required"`
}

func (h *MediaHandler) SetSkuMedia(c *gin.Context) {
	var req skuMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	items, err := h.uc.SetSkuMedia(c.Request.Context(), auth.GetIdentity(c), c.Param("id"), req.MediaIDs)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, items)
}

func (h *MediaHandler) GetVariantMedia(c *gin.Context) {
	groups, err := h.uc.GetVariantMedia(c.Request.Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, groups)
}

type variantMediaRequest struct {
	Items []dto.VariantMediaInput `json:"items" binding:"dive"`
}

func (h *MediaHandler) SetVariantMedia(c *gin.Context) {
	var req variantMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.tr, err)
		return
	}

	groups, err := h.uc.SetVariantMedia(c.Request.Context(), auth.GetIdentity(c), c.Param("id"), req.Items)
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, groups)
}

func (h *MediaHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BindError(c, h.tr, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BindError(c, h.tr, errors.New("file is too large"))
			return
		}
		response.Error(c, h.tr, h.logger, err)
		return
	}

	m, err := h.uc.UploadMedia(c.Request.Context(), auth.GetIdentity(c), &dto.UploadInput{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Category:    c.PostForm("category"),
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.Created(c, m)
}

func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	if err := h.uc.DeleteMedia(c.Request.Context(), auth.GetIdentity(c), c.Param("id")); err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	response.OK(c, nil)
}
