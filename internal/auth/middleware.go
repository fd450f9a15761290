package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// subjectKey is the gin context key under which the authenticated subject is
// stored.
const subjectKey = "auth.subject"

// SubjectFromContext returns the authenticated subject set by RequireAuth,
// or an empty string when the request is unauthenticated.
func SubjectFromContext(c *gin.Context) string {
	s, _ := c.Get(subjectKey)
	subject, _ := s.(string)
	return subject
}

// RequireAuth returns a middleware that rejects requests without a valid
// bearer access token.
func RequireAuth(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		subject, err := issuer.VerifyAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}
