package middleware

import (
	"context"
	"strings"

	"newsdesk/helper"
	"newsdesk/models"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// Authenticator resolves a bearer token to a stored user.
type Authenticator interface {
	ParseToken(tokenString string) (*services.Claims, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware requires a valid bearer token. The user is reloaded from
// storage so a changed role applies to the very next request.
func AuthMiddleware(auth Authenticator, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, msg := authenticate(c, auth)
		if user == nil {
			h.SendUnauthorizedError(c, msg)
			c.Abort()
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, _ := authenticate(c, auth); user != nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, auth Authenticator) (*models.User, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Authentication credentials were not provided."
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, "Bearer token required"
	}

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		return nil, err.Error()
	}

	user, err := auth.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, "User not found"
	}
	return user, ""
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
	c.Set("user_id", user.ID)
	c.Set("role", string(user.Role))
}

// CurrentUser returns the authenticated user or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
