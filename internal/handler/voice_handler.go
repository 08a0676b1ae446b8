package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
	"github.com/replyforge/replyforge/internal/pkg/response"
	"github.com/replyforge/replyforge/internal/service"
)

type VoiceHandler struct {
	voices *service.VoiceService
}

func NewVoiceHandler(voices *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voices: voices}
}

type voiceRequest struct {
	VoiceGuidelines string                 `json:"voice_guidelines"`
	BrandTone       string                 `json:"brand_tone"`
	Positioning     string                 `json:"positioning"`
	Metadata        map[string]interface{} `json:"metadata"`
}

func (h *VoiceHandler) Upsert(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	settings, err := h.voices.Upsert(c.Request.Context(), getCompanyID(c), service.VoiceInput{
		VoiceGuidelines: req.VoiceGuidelines,
		BrandTone:       req.BrandTone,
		Positioning:     req.Positioning,
		Metadata:        req.Metadata,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, settings)
}

func (h *VoiceHandler) Get(c *gin.Context) {
	settings, err := h.voices.Get(c.Request.Context(), getCompanyID(c))
	if err != nil {
		if appErr.IsNotFound(err) {
			response.Success(c, nil)
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, settings)
}
