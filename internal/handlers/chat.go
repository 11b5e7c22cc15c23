package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unilib/internal/middleware"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) chatbot(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.chat.Ask(c.Request.Context(), user.ID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
