package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Stylist    StylistConfig    `mapstructure:"stylist"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Security   SecurityConfig   `mapstructure:"security"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig bounds recommendation requests per caller. Counters live in
// Redis when it is configured and in process memory otherwise.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// DatabaseConfig points at the wardrobe inventory store. An empty URL disables
// the stored-inventory endpoints.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig configures the session ledger store. An empty URL keeps ledgers
// in process memory.
type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		OutfitRecommendations string `mapstructure:"outfit_recommendations"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StylistConfig holds the tunables of the outfit recommendation engine.
type StylistConfig struct {
	UsageCap           int           `mapstructure:"usage_cap"`
	IdleWindow         time.Duration `mapstructure:"idle_window"`
	CandidatePool      int           `mapstructure:"candidate_pool"`
	MaxResults         int           `mapstructure:"max_results"`
	MinConfidence      float64       `mapstructure:"min_confidence"`
	DiversityTieBand   float64       `mapstructure:"diversity_tie_band"`
	MaxDressCandidates int           `mapstructure:"max_dress_candidates"`
	MaxPairIterations  int           `mapstructure:"max_pair_iterations"`
	Seed               int64         `mapstructure:"seed"`
	Weights            ScoreWeights  `mapstructure:"weights"`
}

// ScoreWeights are the fixed sub-score weights. They intentionally do not
// sum to 1; the final confidence is clamped.
type ScoreWeights struct {
	Base         float64 `mapstructure:"base"`
	Diversity    float64 `mapstructure:"diversity"`
	Style        float64 `mapstructure:"style"`
	Color        float64 `mapstructure:"color"`
	Occasion     float64 `mapstructure:"occasion"`
	Weather      float64 `mapstructure:"weather"`
	Completeness float64 `mapstructure:"completeness"`
	Fashion      float64 `mapstructure:"fashion"`
	Goals        float64 `mapstructure:"goals"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// DefaultStylistConfig returns the engine defaults. Load applies the same
// values through viper.
func DefaultStylistConfig() *StylistConfig {
	return &StylistConfig{
		UsageCap:           2,
		IdleWindow:         5 * time.Minute,
		CandidatePool:      8,
		MaxResults:         6,
		MinConfidence:      0.4,
		DiversityTieBand:   0.1,
		MaxDressCandidates: 5,
		MaxPairIterations:  15,
		Weights: ScoreWeights{
			Base:         0.1,
			Diversity:    0.12,
			Style:        0.22,
			Color:        0.18,
			Occasion:     0.2,
			Weather:      0.15,
			Completeness: 0.1,
			Fashion:      0.08,
			Goals:        0.05,
		},
	}
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Rate limit defaults
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 60)
	viper.SetDefault("rate_limit.window", "1m")

	// Database defaults
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "2s")

	// Kafka defaults
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.outfit_recommendations", "outfit-recommendations")

	// Auth defaults
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.issuer", "github.com/temcen/wardrobe")
	viper.SetDefault("auth.token_ttl", "24h")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Stylist defaults
	defaults := DefaultStylistConfig()
	viper.SetDefault("stylist.usage_cap", defaults.UsageCap)
	viper.SetDefault("stylist.idle_window", defaults.IdleWindow.String())
	viper.SetDefault("stylist.candidate_pool", defaults.CandidatePool)
	viper.SetDefault("stylist.max_results", defaults.MaxResults)
	viper.SetDefault("stylist.min_confidence", defaults.MinConfidence)
	viper.SetDefault("stylist.diversity_tie_band", defaults.DiversityTieBand)
	viper.SetDefault("stylist.max_dress_candidates", defaults.MaxDressCandidates)
	viper.SetDefault("stylist.max_pair_iterations", defaults.MaxPairIterations)
	viper.SetDefault("stylist.seed", 0)

	// Scoring weights
	viper.SetDefault("stylist.weights.base", defaults.Weights.Base)
	viper.SetDefault("stylist.weights.diversity", defaults.Weights.Diversity)
	viper.SetDefault("stylist.weights.style", defaults.Weights.Style)
	viper.SetDefault("stylist.weights.color", defaults.Weights.Color)
	viper.SetDefault("stylist.weights.occasion", defaults.Weights.Occasion)
	viper.SetDefault("stylist.weights.weather", defaults.Weights.Weather)
	viper.SetDefault("stylist.weights.completeness", defaults.Weights.Completeness)
	viper.SetDefault("stylist.weights.fashion", defaults.Weights.Fashion)
	viper.SetDefault("stylist.weights.goals", defaults.Weights.Goals)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
