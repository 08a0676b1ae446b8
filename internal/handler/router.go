package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/replyforge/replyforge/internal/middleware"
)

type RouterDeps struct {
	Documents       *DocumentHandler
	Voice           *VoiceHandler
	Replies         *ReplyHandler
	JWTSecret       []byte
	RateLimitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	limited := authGroup.Group("")
	limited.Use(middleware.RateLimit(deps.RateLimitWindow))
	limited.POST("/documents", deps.Documents.Upload)
	limited.POST("/documents/url", deps.Documents.SubmitURL)
	limited.POST("/replies/generate", deps.Replies.Generate)

	authGroup.GET("/documents", deps.Documents.List)
	authGroup.GET("/documents/:id", deps.Documents.Get)
	authGroup.DELETE("/documents/:id", deps.Documents.Delete)
	authGroup.GET("/stats", deps.Documents.Stats)

	authGroup.GET("/voice-settings", deps.Voice.Get)
	authGroup.PUT("/voice-settings", deps.Voice.Upsert)
}
