package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/wardrobe/internal/validation"
)

func newValidationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sv, err := validation.NewDefaultSchemaValidator()
	require.NoError(t, err)
	vm := NewValidationMiddleware(sv)

	router := gin.New()
	router.Use(RequestID())
	router.POST("/outfits", vm.ValidateHeaders(), vm.ValidateOutfitRequest(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	})
	router.GET("/users/:userId/outfits", vm.ValidatePathParams(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestValidateOutfitRequest(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		contentType    string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid body reaches handler",
			body:           `{"context": {"occasion": "casual"}}`,
			contentType:    "application/json",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty body",
			body:           "",
			contentType:    "application/json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "EMPTY_BODY",
		},
		{
			name:           "invalid json",
			body:           `{"context": `,
			contentType:    "application/json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_JSON",
		},
		{
			name:           "schema violation",
			body:           `{"inventory": {"id": "t1"}}`,
			contentType:    "application/json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "wrong content type",
			body:           `{}`,
			contentType:    "text/plain",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	router := newValidationRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/outfits", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var response map[string]map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedCode, response["error"]["code"])
				assert.NotEmpty(t, response["error"]["requestId"])
			} else {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestValidatePathParams(t *testing.T) {
	router := newValidationRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/abc/outfits", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/5b0bd4ad-8c3f-4a8e-9f5b-7a1c3f2d9e11/outfits", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
