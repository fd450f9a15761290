package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer() *Issuer {
	return NewIssuer([]byte("test-secret"), time.Minute, time.Hour)
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	issuer := newIssuer()

	pair, err := issuer.Issue("orders-svc")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	subject, err := issuer.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "orders-svc", subject)

	subject, err = issuer.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "orders-svc", subject)
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	issuer := newIssuer()
	pair, err := issuer.Issue("orders-svc")
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyRefresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	pair, err := newIssuer().Issue("orders-svc")
	require.NoError(t, err)

	other := NewIssuer([]byte("other-secret"), time.Minute, time.Hour)
	_, err = other.VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), -time.Minute, time.Hour)
	pair, err := issuer.Issue("orders-svc")
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newTokenRouter(issuer *Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/token/", TokenHandler(issuer, Credentials{Username: "svc", Password: "pw"}))
	r.POST("/api/token/refresh/", RefreshHandler(issuer))
	r.GET("/protected", RequireAuth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": SubjectFromContext(c)})
	})
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenHandler(t *testing.T) {
	r := newTokenRouter(newIssuer())

	w := postForm(r, "/api/token/", url.Values{"username": {"svc"}, "password": {"pw"}})

	require.Equal(t, http.StatusOK, w.Code)
	var pair TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestTokenHandlerBadCredentials(t *testing.T) {
	r := newTokenRouter(newIssuer())

	w := postForm(r, "/api/token/", url.Values{"username": {"svc"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshHandler(t *testing.T) {
	issuer := newIssuer()
	r := newTokenRouter(issuer)
	pair, err := issuer.Issue("svc")
	require.NoError(t, err)

	w := postForm(r, "/api/token/refresh/", url.Values{"refresh": {pair.Refresh}})

	require.Equal(t, http.StatusOK, w.Code)
	var renewed TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &renewed))
	subject, err := issuer.VerifyAccess(renewed.Access)
	require.NoError(t, err)
	assert.Equal(t, "svc", subject)
}

func TestRequireAuth(t *testing.T) {
	issuer := newIssuer()
	r := newTokenRouter(issuer)
	pair, err := issuer.Issue("svc")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + pair.Access, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
		{"refresh as access", "Bearer " + pair.Refresh, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
