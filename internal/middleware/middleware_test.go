package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", time.Hour)
}

func principalEcho(c *gin.Context) {
	p := PrincipalFrom(c)
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role})
}

func TestRequiredAuth(t *testing.T) {
	tokens := newTokens()
	a := NewAuthenticator(tokens)

	r := gin.New()
	r.GET("/me", a.Required(), principalEcho)

	valid, err := tokens.Generate(7, models.UserRoleOwner)
	require.NoError(t, err)
	foreign, err := auth.NewTokenManager("other", time.Hour).Generate(7, models.UserRoleOwner)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authentication required"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Invalid or expired token"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decodeError(t, w).Error.Message)
				return
			}
			assert.JSONEq(t, `{"user_id":7,"role":"owner"}`, w.Body.String())
		})
	}
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	tokens := newTokens()
	r := gin.New()
	r.GET("/stores", NewAuthenticator(tokens).Optional(), principalEcho)

	for _, header := range []string{"", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/stores", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
	}

	token, _ := tokens.Generate(3, models.UserRoleUser)
	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":3,"role":"user"}`, w.Body.String())
}

func TestAuthorize(t *testing.T) {
	tokens := newTokens()
	a := NewAuthenticator(tokens)

	r := gin.New()
	r.POST("/stores", a.Optional(), Authorize(auth.ActionCreateStore), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	do := func(role models.UserRole) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/stores", nil)
		if role != "" {
			token, _ := tokens.Generate(1, role)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusForbidden, do(models.UserRoleUser).Code)
	assert.Equal(t, http.StatusForbidden, do(models.UserRoleOwner).Code)
	assert.Equal(t, http.StatusCreated, do(models.UserRoleAdmin).Code)
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter *stubLimiter
		status  int
	}{
		{"allowed", &stubLimiter{allow: true}, http.StatusOK},
		{"limited", &stubLimiter{allow: false}, http.StatusTooManyRequests},
		{"limiter down fails open", &stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", RateLimit(tt.limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "192.0.2.10:5555"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, []string{"192.0.2.10"}, tt.limiter.keys)
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "Too many authentication attempts, please try again later", decodeError(t, w).Error.Message)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get("X-Request-ID"))
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestNotFoundHandler(t *testing.T) {
	r := gin.New()
	r.NoRoute(NotFoundHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decodeError(t, w).Error.Message)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(), CORSMiddleware([]string{"http://localhost:3000/"}))
	r.GET("/api/stores", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/stores", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
