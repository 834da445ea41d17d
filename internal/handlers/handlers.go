package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/services"
)

type Handlers struct {
	Health  *HealthHandler
	Outfit  *OutfitHandler
	Metrics *MetricsHandler
}

func New(logger *logrus.Logger, services *services.Services, gatherer prometheus.Gatherer) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(logger, services.Health),
		Outfit:  NewOutfitHandler(services.Stylist, logger),
		Metrics: NewMetricsHandler(gatherer),
	}
}
