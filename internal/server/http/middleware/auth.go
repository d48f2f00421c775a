package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated buyer.
	PrincipalContextKey = "principal"
	// AdminSessionContextKey is a gin context key for the verified admin session.
	AdminSessionContextKey = "adminSession"

	authCookieName  = "indiebook_token"
	adminCookieName = "indiebook_admin"
)

// TokenParser resolves buyer tokens.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Principal, error)
}

// AdminVerifier resolves admin tokens into sessions.
type AdminVerifier interface {
	AdminSession(token string) (usecase.AdminSession, error)
}

// BuyerRequired ensures a signed-in buyer is calling the handler.
func BuyerRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, authCookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		principal, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if principal.Role != pkgAuth.RoleBuyer || principal.Email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "buyer account required"})
			return
		}
		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// AdminRequired rejects requests without a valid admin token.
func AdminRequired(verifier AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, adminCookieName)
		session, err := verifier.AdminSession(token)
		if err != nil {
			switch {
			case errors.Is(err, domainErrors.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin login required"})
			case errors.Is(err, domainErrors.ErrForbidden):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			default:
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}
		c.Set(AdminSessionContextKey, session)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes buyer token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// SetAdminCookie writes admin token cookie to response.
func SetAdminCookie(c *gin.Context, token string) {
	c.SetCookie(adminCookieName, token, 0, "/api", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
