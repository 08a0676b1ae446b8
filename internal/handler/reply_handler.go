package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/replyforge/replyforge/internal/pkg/response"
	"github.com/replyforge/replyforge/internal/service"
)

type ReplyHandler struct {
	replies *service.ReplyService
}

func NewReplyHandler(replies *service.ReplyService) *ReplyHandler {
	return &ReplyHandler{replies: replies}
}

type generateReplyRequest struct {
	Message  string `json:"message"`
	Tone     string `json:"tone"`
	Platform string `json:"platform"`
}

func (h *ReplyHandler) Generate(c *gin.Context) {
	var req generateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	out, err := h.replies.Generate(c.Request.Context(), service.GenerateReplyInput{
		CompanyID: getCompanyID(c),
		Message:   req.Message,
		Tone:      req.Tone,
		Platform:  req.Platform,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, out)
}
