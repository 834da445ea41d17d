package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/internal/database"
	"github.com/temcen/wardrobe/internal/messaging"
)

type Services struct {
	Auth         *AuthService
	Health       *HealthService
	Metrics      *MetricsCollector
	Sessions     SessionStore
	RateLimit    RateLimiter
	Inventory    *InventoryRepository
	Publisher    *messaging.OutfitEventPublisher
	Orchestrator *OutfitOrchestrator
	Stylist      *StylistService
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database, reg prometheus.Registerer) (*Services, error) {
	authService := NewAuthService(cfg, logger)
	healthService := NewHealthService(logger, db, reg)
	metrics := NewMetricsCollector(reg)

	var sessions SessionStore
	if db.Redis != nil {
		sessions = NewRedisSessionStore(db.Redis, cfg.Stylist.IdleWindow, logger)
	} else {
		sessions = NewMemorySessionStore(cfg.Stylist.IdleWindow)
	}

	var rateLimit RateLimiter
	if cfg.RateLimit.Enabled && cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window > 0 {
		if db.Redis != nil {
			rateLimit = NewRedisRateLimiter(db.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
		} else {
			rateLimit = NewMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
	}

	var inventory *InventoryRepository
	var source InventorySource
	if db.PG != nil {
		inventory = NewInventoryRepository(db.PG, logger)
		source = inventory
	}

	var publisher *messaging.OutfitEventPublisher
	var events EventPublisher
	if cfg.Kafka.Enabled {
		publisher = messaging.NewOutfitEventPublisher(cfg, logger)
		events = publisher
	}

	orchestrator := NewOutfitOrchestrator(&cfg.Stylist, logger)
	stylist := NewStylistService(orchestrator, sessions, source, events, metrics, &cfg.Stylist, logger)

	return &Services{
		Auth:         authService,
		Health:       healthService,
		Metrics:      metrics,
		Sessions:     sessions,
		RateLimit:    rateLimit,
		Inventory:    inventory,
		Publisher:    publisher,
		Orchestrator: orchestrator,
		Stylist:      stylist,
	}, nil
}

// Close releases the event publisher.
func (s *Services) Close() error {
	if s.Publisher != nil {
		return s.Publisher.Close()
	}
	return nil
}
