package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/services"
	"ipl-prediction-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Discard()
}

func newRouter(auth *services.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", JWTAuth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserID)})
	})
	r.GET("/admin", JWTAuth(auth), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/maybe", OptionalAuth(auth), func(c *gin.Context) {
		if CurrentIdentity(c).UserID == 0 {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "known")
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	auth := services.NewAuthService(nil, "test-secret", time.Hour)
	userToken, _ := auth.GenerateToken(7, models.RoleUser)
	adminToken, _ := auth.GenerateToken(1, models.RoleAdmin)
	r := newRouter(auth)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "/me", "Bearer " + userToken, http.StatusOK, `{"user_id":7}`},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden, ""},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusNoContent, ""},
		{"optional without token", "/maybe", "", http.StatusOK, "anonymous"},
		{"optional with bad token", "/maybe", "Bearer nope", http.StatusOK, "anonymous"},
		{"optional with token", "/maybe", "Bearer " + userToken, http.StatusOK, "known"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRequestLoggerEchoesRequestID(t *testing.T) {
	r := newRouter(services.NewAuthService(nil, "s", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/maybe", nil))
	if got := w.Header().Get(HeaderRequestID); len(got) != 36 {
		t.Errorf("generated X-Request-ID = %q, want a uuid", got)
	}
}
