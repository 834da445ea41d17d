package services

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/database"
)

const healthCheckTimeout = 5 * time.Second

// HealthCheck probes one backing store.
type HealthCheck func(ctx context.Context) error

type HealthService struct {
	logger *logrus.Logger
	checks map[string]HealthCheck

	healthCheckStatus *prometheus.GaugeVec
	lastHealthCheck   *prometheus.GaugeVec
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Failures  []string          `json:"failures,omitempty"`
	Latency   time.Duration     `json:"latency,omitempty"`
}

// NewHealthService creates a health service that pings every configured store.
func NewHealthService(logger *logrus.Logger, db *database.Database, reg prometheus.Registerer) *HealthService {
	checks := make(map[string]HealthCheck)
	if db != nil && db.PG != nil {
		checks["postgresql"] = func(ctx context.Context) error {
			return db.PG.Ping(ctx)
		}
	}
	if db != nil && db.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		}
	}
	return NewHealthServiceWithChecks(logger, checks, reg)
}

// NewHealthServiceWithChecks creates a health service from explicit probes.
func NewHealthServiceWithChecks(logger *logrus.Logger, checks map[string]HealthCheck, reg prometheus.Registerer) *HealthService {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &HealthService{
		logger: logger,
		checks: checks,

		healthCheckStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stylist_health_check_status",
			Help: "Health check status (1 = healthy, 0 = unhealthy)",
		}, []string{"service"}),

		lastHealthCheck: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stylist_health_check_timestamp",
			Help: "Timestamp of last health check",
		}, []string{"service"}),
	}
}

// CheckHealth reports healthy when every store answers. The engine itself
// needs no store, so a failing store only degrades the service.
func (s *HealthService) CheckHealth() *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: start,
		Services:  map[string]string{"engine": "healthy"},
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		err := s.checks[name](ctx)
		cancel()

		if err != nil {
			status.Services[name] = "unhealthy"
			status.Failures = append(status.Failures, name)
			s.logger.WithError(err).Warnf("Service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
			continue
		}
		status.Services[name] = "healthy"
		s.UpdateHealthMetrics(name, true)
	}

	if len(status.Failures) > 0 {
		status.Status = "degraded"
	}
	status.Latency = time.Since(start)

	return status
}

// UpdateHealthMetrics updates health check metrics
func (s *HealthService) UpdateHealthMetrics(serviceName string, healthy bool) {
	if healthy {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(1)
	} else {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(0)
	}
	s.lastHealthCheck.WithLabelValues(serviceName).Set(float64(time.Now().Unix()))
}
