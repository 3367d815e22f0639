package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenIssuer(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(7, true)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.Admin)
	assert.Equal(t, "7", claims.Subject)

	other, err := NewTokenIssuer("another-secret")
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &TokenIssuer{secret: []byte("test-secret"), ttl: -time.Hour}
	old, err := expired.Issue(7, false)
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewTokenIssuer_RandomSecret(t *testing.T) {
	a, err := NewTokenIssuer("")
	require.NoError(t, err)
	b, err := NewTokenIssuer("  ")
	require.NoError(t, err)

	token, err := a.Issue(1, false)
	require.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}

func protectedRouter(issuer *TokenIssuer) *gin.Engine {
	r := gin.New()
	r.GET("/user", RequireAuth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": CurrentUserID(c)})
	})
	r.GET("/admin", RequireAdmin(issuer), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuthAndAdmin(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	require.NoError(t, err)
	r := protectedRouter(issuer)

	guest, err := issuer.Issue(5, false)
	require.NoError(t, err)
	admin, err := issuer.Issue(1, true)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"no header", "/user", "", http.StatusUnauthorized, "Authentication required"},
		{"not bearer", "/user", "Token " + guest, http.StatusUnauthorized, "Authentication required"},
		{"garbage token", "/user", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"guest on user route", "/user", "Bearer " + guest, http.StatusOK, `"uid":5`},
		{"guest on admin route", "/admin", "Bearer " + guest, http.StatusForbidden, "Admin access required"},
		{"admin on admin route", "/admin", "Bearer " + admin, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
