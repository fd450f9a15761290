package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Credentials is a configured service account allowed to obtain tokens.
type Credentials struct {
	Username string
	Password string
}

type tokenRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type refreshRequest struct {
	Refresh string `form:"refresh" json:"refresh"`
}

// TokenHandler returns the token issuance endpoint. It accepts form-encoded
// or JSON credentials and responds with an access/refresh pair.
func TokenHandler(issuer *Issuer, creds Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}

		// Constant-time comparison guards against timing side-channels.
		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(creds.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(creds.Password)) == 1
		if !userOK || !passOK {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		pair, err := issuer.Issue(req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}

// RefreshHandler exchanges a valid refresh token for a new pair.
func RefreshHandler(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBind(&req); err != nil || req.Refresh == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token required"})
			return
		}

		subject, err := issuer.VerifyRefresh(req.Refresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		pair, err := issuer.Issue(subject)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}
