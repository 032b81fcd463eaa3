package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(sm *Middleware, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, h := range handlers {
		r.Use(h)
	}
	r.POST("/score", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestHeaders(t *testing.T) {
	sm := NewMiddleware(DefaultConfig())
	r := newTestRouter(sm, sm.Headers)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/score", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestValidateContentType(t *testing.T) {
	sm := NewMiddleware(DefaultConfig())
	r := newTestRouter(sm, sm.ValidateContentType)

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{"json allowed", "application/json", http.StatusOK},
		{"multipart allowed", "multipart/form-data; boundary=x", http.StatusOK},
		{"form allowed", "application/x-www-form-urlencoded", http.StatusOK},
		{"xml rejected", "application/xml", http.StatusUnsupportedMediaType},
		{"missing allowed", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLimitBodySize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 10
	sm := NewMiddleware(cfg)
	r := newTestRouter(sm, sm.LimitBodySize)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(strings.Repeat("a", 100)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
