package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/middleware"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
	"github.com/replyforge/replyforge/internal/pkg/response"
)

func getCompanyID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextCompanyIDKey)
	companyID, _ := value.(string)
	return companyID
}

func handleError(c *gin.Context, err error) {
	if err != nil && err != appErr.ErrNotFound {
		requestID, _ := c.Get("request_id")
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.Any("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	switch {
	case err == nil:
		return
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, "not_found", "not found")
	case appErr.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, "invalid", err.Error())
	case err == appErr.ErrUnauthorized:
		response.Error(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case err == appErr.ErrForbidden:
		response.Error(c, http.StatusForbidden, "forbidden", "forbidden")
	case err == appErr.ErrTooMany:
		response.Error(c, http.StatusTooManyRequests, "too_many", "too many requests")
	default:
		response.Error(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
