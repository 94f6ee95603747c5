package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all client and watcher settings, populated from environment variables.
type Config struct {
	// GatewayEndpoint is the locations API URL. Empty means unconfigured and
	// every fetch is answered with mock data.
	GatewayEndpoint string
	GatewayTimeout  time.Duration
	CacheTTL        time.Duration
	FetchLimit      int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	PollInterval    time.Duration

	// Snapshot publishing is enabled when at least one broker is set.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	gatewayTimeout, err := parsePositiveDuration("GATEWAY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}

	fetchLimit, err := parseFetchLimit()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		GatewayEndpoint:    strings.TrimSpace(os.Getenv("LOCATIONS_API_ENDPOINT")),
		GatewayTimeout:     gatewayTimeout,
		CacheTTL:           cacheTTL,
		FetchLimit:         fetchLimit,
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		PollInterval:       pollInterval,
		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "vegetation-risk-locations"),
	}

	if cfg.GatewayEndpoint != "" && !strings.HasPrefix(cfg.GatewayEndpoint, "http://") && !strings.HasPrefix(cfg.GatewayEndpoint, "https://") {
		return nil, errors.New("LOCATIONS_API_ENDPOINT must be an http(s) URL")
	}
	if cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
	}

	return cfg, nil
}

// PublishingEnabled reports whether snapshots should be written to Kafka.
func (c *Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFetchLimit() (int, error) {
	s := sharedcfg.EnvOrDefault("FETCH_LIMIT", "100")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid FETCH_LIMIT: must be a positive integer")
	}
	return n, nil
}
