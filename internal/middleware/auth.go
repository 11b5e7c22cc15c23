package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"unilib/internal/models"
)

const authUserKey = "authUser"

// AuthUser is the verified identity of the caller, resolved from the bearer
// token and carried through the request context. Handlers authorize against
// this, never against anything the client supplied in the body.
type AuthUser struct {
	ID   uuid.UUID
	Role models.UserRole
}

// Auth verifies the Authorization bearer token and places the resolved
// AuthUser into the gin context.
func Auth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := strings.TrimSpace(ctx.GetHeader("Authorization"))
		if authHeader == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			ctx.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			ctx.Abort()
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			ctx.Abort()
			return
		}

		idStr, _ := claims["id"].(string)
		userID, err := uuid.Parse(idStr)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			ctx.Abort()
			return
		}
		roleStr, _ := claims["role"].(string)

		ctx.Set(authUserKey, AuthUser{ID: userID, Role: models.UserRole(roleStr)})
		ctx.Next()
	}
}

// AdminOnly rejects callers whose verified role is not admin. It must run
// after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || user.Role != models.UserRoleAdmin {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the verified caller identity set by Auth.
func CurrentUser(ctx *gin.Context) (AuthUser, bool) {
	v, ok := ctx.Get(authUserKey)
	if !ok {
		return AuthUser{}, false
	}
	user, ok := v.(AuthUser)
	return user, ok
}
