package response

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindBadRequest:
		return http.StatusBadRequest
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a localized JSON error. Internal errors are logged and
// their cause is never exposed.
func Error(c *gin.Context, tr *i18n.Translator, log logger.ZapLogger, err error) {
	appErr := apperror.As(err)
	status := StatusOf(appErr.Kind)
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    appErr.Kind.String(),
			Message: tr.Localize(c.GetHeader("Accept-Language"), appErr.MessageID, appErr.Data),
		},
	})
}

// BindError reports a request body or query that failed to bind.
func BindError(c *gin.Context, tr *i18n.Translator, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code: apperror.KindBadRequest.String(),
			Message: tr.Localize(c.GetHeader("Accept-Language"), apperror.MsgInvalidInput,
				map[string]interface{}{"Reason": err.Error()}),
		},
	})
}

func List(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, ListResponse{Data: data, Total: total})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}
