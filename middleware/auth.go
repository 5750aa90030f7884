package middleware

import (
	"net/http"
	"strings"

	"storefront/models"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// bearerToken reads the Authorization header, falling back to the cookie.
func bearerToken(c *gin.Context, cookie string) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return "", false
		}
		return tokenParts[1], true
	}
	if token, err := c.Cookie(cookie); err == nil && token != "" {
		return token, true
	}
	return "", false
}

func setClaims(c *gin.Context, claims *utils.Claims) bool {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return false
	}
	c.Set(ContextUserID, userID)
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserRole, claims.Role)
	return true
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c, AccessTokenCookie)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, token, utils.TokenTypeAccess)
		if err != nil || !setClaims(c, claims) {
			resp := models.ErrorResponse{Success: false, Message: "Invalid or expired token"}
			if err != nil {
				resp.Error = err.Error()
			}
			c.JSON(http.StatusUnauthorized, resp)
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth sets the user when a valid access token is present and lets
// anonymous requests through.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c, AccessTokenCookie); ok {
			if claims, err := utils.ValidateToken(secret, token, utils.TokenTypeAccess); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "User role not found",
			})
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "Access denied. Admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
