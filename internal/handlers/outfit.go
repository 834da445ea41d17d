package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/middleware"
	"github.com/temcen/wardrobe/internal/services"
	"github.com/temcen/wardrobe/pkg/models"
)

type OutfitHandler struct {
	stylist   services.StylistServiceInterface
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewOutfitHandler(stylist services.StylistServiceInterface, logger *logrus.Logger) *OutfitHandler {
	return &OutfitHandler{
		stylist:   stylist,
		validator: validator.New(),
		logger:    logger,
	}
}

// Recommend handles POST /api/v1/outfits/recommendations
func (h *OutfitHandler) Recommend(c *gin.Context) {
	var request models.OutfitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
				"details": err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Request validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	response := h.stylist.Recommend(c.Request.Context(), &services.RecommendRequest{
		SessionKey:         h.sessionKey(c, request.SessionID),
		RequestID:          middleware.GetRequestID(c),
		Inventory:          request.Inventory,
		Profile:            request.Profile,
		Context:            request.Context,
		IncludeAccessories: request.IncludeAccessories,
	})

	c.Header(middleware.SessionIDHeader, response.SessionID)
	c.JSON(http.StatusOK, response)
}

// RecommendForUser handles GET /api/v1/users/:userId/outfits
func (h *OutfitHandler) RecommendForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user ID format",
			},
		})
		return
	}

	var query models.UserOutfitQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_QUERY",
				"message": "Invalid query parameters",
				"details": err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Query validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	response, err := h.stylist.RecommendForUser(c.Request.Context(), &services.UserRecommendRequest{
		UserID:             userID,
		SessionKey:         c.GetHeader(middleware.SessionIDHeader),
		RequestID:          middleware.GetRequestID(c),
		Context:            query.StyleContext(),
		IncludeAccessories: query.Accessories,
	})
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "No style profile exists for this user",
			},
		})
		return
	case errors.Is(err, services.ErrInventoryUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{
				"code":    "INVENTORY_UNAVAILABLE",
				"message": "Stored wardrobes are not available",
			},
		})
		return
	case err != nil:
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load stored wardrobe")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_GENERATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}

	c.Header(middleware.SessionIDHeader, response.SessionID)
	c.JSON(http.StatusOK, response)
}

// sessionKey picks the ledger key: the authenticated user, then the body,
// then the header. An empty key makes the service assign a fresh one.
func (h *OutfitHandler) sessionKey(c *gin.Context, bodySessionID string) string {
	if userID, ok := middleware.GetUserFromContext(c); ok {
		return userID.String()
	}
	if bodySessionID != "" {
		return bodySessionID
	}
	return c.GetHeader(middleware.SessionIDHeader)
}
