package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/temcen/wardrobe/pkg/models"
)

// InventorySource defines the interface for loading a user's stored wardrobe
type InventorySource interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.WardrobeItem, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.StyleProfile, error)
}

// EventPublisher defines the interface for publishing recommendation events
type EventPublisher interface {
	PublishOutfitRecommended(ctx context.Context, event *models.OutfitRecommendedEvent) error
}

// StylistServiceInterface defines the interface used by the HTTP handlers
type StylistServiceInterface interface {
	Recommend(ctx context.Context, req *RecommendRequest) *models.OutfitResponse
	RecommendForUser(ctx context.Context, req *UserRecommendRequest) (*models.OutfitResponse, error)
}
