package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type addBookRequest struct {
	Title     string `json:"title" binding:"required"`
	Author    string `json:"author" binding:"required"`
	ISBN      string `json:"isbn" binding:"required"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

func (h *Handler) addBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, author and isbn are required"})
		return
	}

	book, err := h.catalog.AddBook(req.Title, req.Author, req.ISBN, req.Category, req.Quantity, req.Available)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *Handler) listBooks(c *gin.Context) {
	books, err := h.catalog.SearchBooks(c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) deleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := h.catalog.DeleteBook(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

func (h *Handler) adminStats(c *gin.Context) {
	stats, err := h.catalog.AdminStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
