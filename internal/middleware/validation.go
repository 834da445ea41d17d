package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/temcen/wardrobe/internal/validation"
)

// maxBodyBytes bounds request bodies read for validation.
const maxBodyBytes = 4 << 20

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.SchemaValidator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.SchemaValidator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

// ValidateOutfitRequest validates outfit recommendation request bodies
func (vm *ValidationMiddleware) ValidateOutfitRequest() gin.HandlerFunc {
	return vm.validateRequestBody(validation.OutfitRequestSchema)
}

// validateRequestBody creates a middleware that validates request body against a schema
func (vm *ValidationMiddleware) validateRequestBody(schemaName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodDelete {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
		if err != nil {
			vm.sendValidationError(c, "BODY_READ_ERROR", "Failed to read request body", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		if len(bodyBytes) > maxBodyBytes {
			vm.sendValidationError(c, "BODY_TOO_LARGE", "Request body is too large", nil)
			return
		}

		// Restore request body for downstream handlers
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		if len(bytes.TrimSpace(bodyBytes)) == 0 {
			vm.sendValidationError(c, "EMPTY_BODY", "Request body is required", nil)
			return
		}

		if !json.Valid(bodyBytes) {
			vm.sendValidationError(c, "INVALID_JSON", "Request body must be valid JSON", nil)
			return
		}

		result := vm.validator.ValidateJSONString(schemaName, string(bodyBytes))
		if !result.Valid {
			vm.sendValidationErrors(c, result.Errors)
			return
		}

		c.Next()
	}
}

// ValidatePathParams validates the path parameters used by the outfit routes
func (vm *ValidationMiddleware) ValidatePathParams() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.Param("userId"); userID != "" {
			if _, err := uuid.Parse(userID); err != nil {
				vm.sendValidationErrors(c, []validation.ValidationError{{
					Field:   "userId",
					Message: "User ID must be a valid UUID",
					Code:    "INVALID_PATH_PARAM",
					Value:   userID,
				}})
				return
			}
		}

		c.Next()
	}
}

// ValidateHeaders validates required headers
func (vm *ValidationMiddleware) ValidateHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		errors := make([]validation.ValidationError, 0)

		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut || c.Request.Method == http.MethodPatch {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				errors = append(errors, validation.ValidationError{
					Field:   "Content-Type",
					Message: "Content-Type header is required",
					Code:    "MISSING_HEADER",
				})
			} else if !strings.Contains(contentType, "application/json") {
				errors = append(errors, validation.ValidationError{
					Field:   "Content-Type",
					Message: "Content-Type must be application/json",
					Code:    "INVALID_HEADER",
					Value:   contentType,
				})
			}
		}

		if sessionID := c.GetHeader(SessionIDHeader); len(sessionID) > 128 {
			errors = append(errors, validation.ValidationError{
				Field:   SessionIDHeader,
				Message: "Session ID must be at most 128 characters",
				Code:    "INVALID_HEADER",
			})
		}

		if len(errors) > 0 {
			vm.sendValidationErrors(c, errors)
			return
		}

		c.Next()
	}
}

func (vm *ValidationMiddleware) sendValidationError(c *gin.Context, code, message string, details map[string]interface{}) {
	errorObj := map[string]interface{}{
		"code":      code,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": GetRequestID(c),
		"path":      c.Request.URL.Path,
		"method":    c.Request.Method,
	}
	if details != nil {
		errorObj["details"] = details
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{"error": errorObj})
	c.Abort()
}

func (vm *ValidationMiddleware) sendValidationErrors(c *gin.Context, errors []validation.ValidationError) {
	result := &validation.ValidationResult{Valid: false, Errors: errors}
	apiError := result.ToAPIError()
	if errorObj, ok := apiError["error"].(map[string]interface{}); ok {
		errorObj["timestamp"] = time.Now().UTC().Format(time.RFC3339)
		errorObj["requestId"] = GetRequestID(c)
		errorObj["path"] = c.Request.URL.Path
		errorObj["method"] = c.Request.Method
	}

	c.JSON(http.StatusBadRequest, apiError)
	c.Abort()
}
