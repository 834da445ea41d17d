package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/temcen/wardrobe/internal/config"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		requestOrigin  string
		expectedOrigin string
	}{
		{name: "wildcard", origins: []string{"*"}, requestOrigin: "https://closet.example", expectedOrigin: "*"},
		{name: "listed origin", origins: []string{"https://closet.example"}, requestOrigin: "https://closet.example", expectedOrigin: "https://closet.example"},
		{name: "unlisted origin", origins: []string{"https://closet.example"}, requestOrigin: "https://evil.example", expectedOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Security.CORS.AllowedOrigins = tt.origins
			cfg.Security.CORS.AllowedMethods = []string{"GET", "POST"}
			cfg.Security.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}

			router := gin.New()
			router.Use(CORS(cfg))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.requestOrigin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestAllowsAnyOrigin(t *testing.T) {
	assert.True(t, allowsAnyOrigin(nil))
	assert.True(t, allowsAnyOrigin([]string{"https://a.example", "*"}))
	assert.False(t, allowsAnyOrigin([]string{"https://a.example"}))
}
