package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"unilib/internal/middleware"
	"unilib/internal/services"
)

// Handler carries the service layer into the HTTP boundary.
type Handler struct {
	auth    services.AuthService
	catalog services.CatalogService
	cards   services.CardService
	borrows services.BorrowService
	chat    services.ChatService
}

// RegisterRoutes mounts the full API surface. jwtSecret feeds the bearer-auth
// middleware; admin routes are additionally gated on the verified role.
func RegisterRoutes(
	r *gin.Engine,
	jwtSecret string,
	auth services.AuthService,
	catalog services.CatalogService,
	cards services.CardService,
	borrows services.BorrowService,
	chat services.ChatService,
) {
	h := &Handler{auth: auth, catalog: catalog, cards: cards, borrows: borrows, chat: chat}

	authed := middleware.Auth(jwtSecret)
	admin := middleware.AdminOnly()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "library backend up"})
	})

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("", h.register)
	users.POST("/login", h.login)
	users.GET("/me", authed, h.me)

	books := api.Group("/books")
	books.GET("", h.listBooks)
	books.POST("", authed, admin, h.addBook)
	books.DELETE("/:id", authed, admin, h.deleteBook)
	books.GET("/admin/stats", authed, admin, h.adminStats)

	borrowGroup := api.Group("/borrows", authed)
	borrowGroup.POST("/:bookId", h.requestBorrow)
	borrowGroup.GET("/my", h.myBorrows)
	borrowGroup.GET("/my/count", h.myBorrowCount)
	borrowGroup.POST("/request-return/:borrowId", h.requestReturn)
	borrowGroup.POST("/pay-fine/:borrowId", h.payFine)
	borrowGroup.GET("", admin, h.listAllBorrows)
	borrowGroup.GET("/admin/borrow-requests", admin, h.listBorrowRequests)
	borrowGroup.GET("/admin/return-requests", admin, h.listReturnRequests)
	borrowGroup.POST("/admin/approve/:borrowId", admin, h.approveBorrow)
	borrowGroup.POST("/admin/confirm-return/:borrowId", admin, h.confirmReturn)

	cardGroup := api.Group("/library-card", authed)
	cardGroup.POST("/apply", h.applyCard)
	cardGroup.GET("/my", h.myCard)
	cardGroup.GET("/pending", admin, h.pendingCards)
	cardGroup.POST("/approve/:id", admin, h.approveCard)

	api.POST("/chatbot", authed, h.chatbot)
}

// statusForError maps the service layer's sentinel errors onto HTTP status
// codes at the boundary. Anything unrecognized is an internal error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrBorrowNotFound),
		errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnpaidFine),
		errors.Is(err, services.ErrBorrowLimitReached),
		errors.Is(err, services.ErrCardRequired),
		errors.Is(err, services.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrDuplicateBorrow):
		return http.StatusConflict
	case errors.Is(err, services.ErrBookUnavailable),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrNoFineDue),
		errors.Is(err, services.ErrCardAlreadyApplied),
		errors.Is(err, services.ErrCardAlreadyApproved),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError converts a service error into a JSON error response. Internal
// errors are logged and never leak detail to the caller.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
