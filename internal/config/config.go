package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// External weather site opened by the launch action.
	WeatherSiteURL string

	// Wind-data relay (the server that fetches GFS grids).
	RelayURL             string
	RelayTimeout         time.Duration
	RelayQueueSize       int
	RelayBreakerFailures int
	RelayBreakerTimeout  time.Duration

	LevelCacheSize int
	LevelCacheTTL  time.Duration

	// Panel rendering.
	DisplayTimezone   *time.Location
	DisplayDateLayout string
	DisplayTimeLayout string
	MapLibraries      []string

	// Mapbox reverse geocoding for pages without a usable location label.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka record publishing; disabled when no brokers are configured.
	KafkaBrokers     []string
	KafkaRecordTopic string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	relayTimeout, err := parseDuration("RELAY_TIMEOUT", "120s")
	if err != nil {
		return nil, err
	}
	breakerTimeout, err := parseDuration("RELAY_BREAKER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("LEVEL_CACHE_TTL", "6h")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	queueSize, err := parsePositiveInt("RELAY_QUEUE_SIZE", 16)
	if err != nil {
		return nil, err
	}
	breakerFailures, err := parsePositiveInt("RELAY_BREAKER_FAILURES", 5)
	if err != nil {
		return nil, err
	}
	levelCacheSize, err := parsePositiveInt("LEVEL_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	mapboxCacheSize, err := parsePositiveInt("MAPBOX_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	tz, err := time.LoadLocation(EnvOrDefault("DISPLAY_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherSiteURL: strings.TrimRight(EnvOrDefault("WEATHER_SITE_URL", "https://dafekt1ve.github.io"), "/"),

		RelayURL:             strings.TrimRight(EnvOrDefault("RELAY_URL", "http://localhost:8000"), "/"),
		RelayTimeout:         relayTimeout,
		RelayQueueSize:       queueSize,
		RelayBreakerFailures: breakerFailures,
		RelayBreakerTimeout:  breakerTimeout,

		LevelCacheSize: levelCacheSize,
		LevelCacheTTL:  cacheTTL,

		DisplayTimezone:   tz,
		DisplayDateLayout: EnvOrDefault("DISPLAY_DATE_LAYOUT", "1/2/2006"),
		DisplayTimeLayout: EnvOrDefault("DISPLAY_TIME_LAYOUT", "03:04 PM"),
		MapLibraries:      ParseList(EnvOrDefault("MAP_LIBRARIES", "leaflet,d3")),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		KafkaBrokers:     ParseList(os.Getenv("KAFKA_BROKERS")),
		KafkaRecordTopic: EnvOrDefault("KAFKA_RECORD_TOPIC", "checklist-records"),
	}

	if err := validateURL("WEATHER_SITE_URL", cfg.WeatherSiteURL); err != nil {
		return nil, err
	}
	if err := validateURL("RELAY_URL", cfg.RelayURL); err != nil {
		return nil, err
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaRecordTopic == "" {
		return nil, errors.New("KAFKA_RECORD_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether record publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// EnvOrDefault returns the value of key, or fallback when unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseList splits a comma-separated value, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
