package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantHeader string
	}{
		{"wildcard", []string{"*"}, "https://anything.dev", "*"},
		{"exact match", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"subdomain pattern", []string{"*.example.com"}, "https://staging.example.com", "https://staging.example.com"},
		{"unknown origin", []string{"https://app.example.com"}, "https://evil.dev", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(&config.ServerConfig{AllowedOrigins: tt.allowed}))
			r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:3000", "*.example.com"}
	assert.True(t, originAllowed(allowed, "http://localhost:3000"))
	assert.True(t, originAllowed(allowed, "https://a.b.example.com"))
	assert.False(t, originAllowed(allowed, "https://example.com.evil.dev"))
	assert.False(t, originAllowed(allowed, "https://notexample.com"))
}
