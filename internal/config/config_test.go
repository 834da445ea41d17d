package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "outfit-recommendations", cfg.Kafka.Topics.OutfitRecommendations)

	assert.Equal(t, *DefaultStylistConfig(), cfg.Stylist)
	assert.Equal(t, 5*time.Minute, cfg.Stylist.IdleWindow)
}

func TestDefaultStylistConfig_Weights(t *testing.T) {
	w := DefaultStylistConfig().Weights
	sum := w.Base + w.Diversity + w.Style + w.Color + w.Occasion + w.Weather + w.Completeness + w.Fashion + w.Goals

	// The weights are not a probability partition; confidence is clamped instead.
	assert.Greater(t, sum, 1.0)
	assert.InDelta(t, 0.22, w.Style, 1e-9)
}
