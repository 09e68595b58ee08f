package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UsernameKey is the context key for the authenticated administrator
const UsernameKey = "username"

// TokenAuthenticator verifies a bearer token and returns its subject
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="employee-directory"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthenticated",
		"message": message,
	})
}

// RequireBearerToken rejects requests without a valid bearer token before
// they reach the handler, and stores the token subject under UsernameKey
func RequireBearerToken(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Missing authorization header")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			abortUnauthenticated(c, "Invalid authorization header format")
			return
		}

		username, err := auth.Authenticate(token)
		if err != nil {
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		c.Set(UsernameKey, username)
		c.Next()
	}
}

// GetUsername retrieves the authenticated administrator from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(UsernameKey); exists {
		if s, ok := username.(string); ok {
			return s
		}
	}
	return ""
}
