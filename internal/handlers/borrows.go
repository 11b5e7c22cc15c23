package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"unilib/internal/middleware"
	"unilib/internal/models"
)

func (h *Handler) requestBorrow(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	record, err := h.borrows.RequestBorrow(user.ID, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "borrow requested, show the token at the desk for approval",
		"borrow":  record,
	})
}

func (h *Handler) myBorrows(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	history, err := h.borrows.History(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) myBorrowCount(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	count, err := h.borrows.ActiveCount(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) requestReturn(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	recordID, err := uuid.Parse(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrow id"})
		return
	}

	record, err := h.borrows.RequestReturn(recordID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "return requested, show the token at the desk for confirmation",
		"borrow":  record,
	})
}

func (h *Handler) payFine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	recordID, err := uuid.Parse(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrow id"})
		return
	}

	if err := h.borrows.PayFine(recordID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fine paid successfully"})
}

func (h *Handler) listAllBorrows(c *gin.Context) {
	records, err := h.borrows.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) listBorrowRequests(c *gin.Context) {
	records, err := h.borrows.ListByStatus(models.BorrowStatusRequested)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) listReturnRequests(c *gin.Context) {
	records, err := h.borrows.ListByStatus(models.BorrowStatusReturnRequested)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) approveBorrow(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrow id"})
		return
	}

	record, err := h.borrows.ApproveBorrow(recordID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "borrow approved", "borrow": record})
}

func (h *Handler) confirmReturn(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrow id"})
		return
	}

	record, err := h.borrows.ConfirmReturn(recordID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "return confirmed", "borrow": record})
}
