// Package httpauth extracts caller identity from bearer tokens. Role-scoped
// endpoints prefer the token's role claim over id-prefix conventions.
package httpauth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	roleContextKey   = "httpauth.role"
	userIDContextKey = "httpauth.userID"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// Claims is the token payload the API issues and consumes.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken verifies the signature and returns the embedded claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware parses an optional Authorization header and stashes the caller's
// identity in the request context. Requests without a token pass through
// unauthenticated; downstream code falls back to id-prefix role derivation.
// A token that is present but unverifiable is ignored the same way.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if claims, err := ParseToken(strings.TrimSpace(token), secret); err == nil {
				c.Set(roleContextKey, claims.Role)
				c.Set(userIDContextKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// RoleFromContext returns the authenticated role claim, or "" when the
// request carried no verifiable token.
func RoleFromContext(c *gin.Context) string {
	return c.GetString(roleContextKey)
}

// UserIDFromContext returns the authenticated user id claim, or "".
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDContextKey)
}
