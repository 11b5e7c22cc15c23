package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"unilib/internal/middleware"
)

type applyCardRequest struct {
	Name          string `json:"name" binding:"required"`
	Department    string `json:"department" binding:"required"`
	Level         string `json:"level" binding:"required"`
	Term          string `json:"term" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) applyCard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req applyCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}

	card, err := h.cards.Apply(user.ID, req.Name, req.Department, req.Level, req.Term, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) pendingCards(c *gin.Context) {
	cards, err := h.cards.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) approveCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	if err := h.cards.Approve(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "library card approved"})
}

func (h *Handler) myCard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	card, err := h.cards.MyCard(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusOK, gin.H{"cardStatus": "none"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cardStatus": card.CardStatus, "card": card})
}
