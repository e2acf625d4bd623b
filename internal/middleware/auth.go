package middleware

import (
	"strings"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BasicAuthenticator verifies credentials for the HTTP Basic path.
// Satisfied by service.AuthService.
type BasicAuthenticator interface {
	Authenticate(email, password string) (*model.User, error)
}

func resolveClaims(c *gin.Context, cfg *config.Config, basic BasicAuthenticator) *util.Claims {
	authHeader := c.GetHeader("Authorization")

	if email, password, ok := c.Request.BasicAuth(); ok && basic != nil {
		user, err := basic.Authenticate(email, password)
		if err == nil {
			return &util.Claims{UserID: user.ID, Role: user.Role, Email: user.Email}
		}
		return nil
	}

	tokenString := ""
	if authHeader != "" {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return nil
	}

	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		return nil
	}
	return claims
}

// AuthMiddleware requires an authenticated identity via JWT bearer token or
// HTTP Basic credentials and stores the claims in the request context.
func AuthMiddleware(cfg *config.Config, basic BasicAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := resolveClaims(c, cfg, basic)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches claims when credentials are present and valid,
// but lets anonymous requests through.
func TryAuthMiddleware(cfg *config.Config, basic BasicAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := resolveClaims(c, cfg, basic); claims != nil {
			c.Set("user", claims)
		}
		c.Next()
	}
}

// RoleMiddleware gates a route group on user role. Admins pass everywhere.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == model.Admin || user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
