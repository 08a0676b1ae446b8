package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/replyforge/replyforge/internal/pkg/jwt"
	"github.com/replyforge/replyforge/internal/pkg/response"
)

const (
	ContextCompanyIDKey = "company_id"
	ContextUserIDKey    = "user_id"
)

func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "unauthorized", "missing authorization")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid authorization")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil || claims.CompanyID == "" {
			response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextCompanyIDKey, claims.CompanyID)
		if claims.UserID != "" {
			c.Set(ContextUserIDKey, claims.UserID)
		}
		c.Next()
	}
}
