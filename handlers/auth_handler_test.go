package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crackexam-backend/config"
	"crackexam-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authTestConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.AdminUsername = "admin"
	cfg.Auth.AdminPasswordHash = string(hash)
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	return cfg
}

func loginWith(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := authTestConfig(t)

	r := gin.New()
	r.POST("/api/auth/login", NewAuthHandler(cfg).Login)

	rec := loginWith(r, "admin", "s3cret")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := authTestConfig(t)

	r := gin.New()
	r.POST("/api/auth/login", NewAuthHandler(cfg).Login)

	assert.Equal(t, http.StatusUnauthorized, loginWith(r, "admin", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, loginWith(r, "intruder", "s3cret").Code)
}

func TestRequireAdminGuardsMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := authTestConfig(t)

	r := gin.New()
	r.POST("/api/auth/login", NewAuthHandler(cfg).Login)
	r.DELETE("/api/papers/:id", middleware.RequireAdmin(cfg.Auth.JWTSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// No token.
	req := httptest.NewRequest(http.MethodDelete, "/api/papers/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodDelete, "/api/papers/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Freshly issued token.
	loginRec := loginWith(r, "admin", "s3cret")
	require.Equal(t, http.StatusOK, loginRec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &resp))

	req = httptest.NewRequest(http.MethodDelete, "/api/papers/x", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsSelfSignedTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := authTestConfig(t)

	r := gin.New()
	r.DELETE("/api/papers/:id", middleware.RequireAdmin(cfg.Auth.JWTSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Tokens signed with any key other than the configured secret must be
	// rejected, including one signed with an empty key.
	for _, key := range [][]byte{[]byte(""), []byte("guessed-secret")} {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "admin",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(key)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/papers/x", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
