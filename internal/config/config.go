// Package config reads the auction engine settings from the environment and flags.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress = ":8080"
	defaultKafkaTopic = "auction.bid.placed"
)

// Config holds the service settings. Values from the environment win over flags.
type Config struct {
	RunAddress   string   `env:"RUN_ADDRESS"`
	DatabaseURI  string   `env:"DATABASE_URI"`
	RedisAddr    string   `env:"REDIS_ADDR"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	JWTSecret    string   `env:"JWT_SECRET"`

	KafkaTopic          string        `env:"KAFKA_TOPIC" envDefault:"auction.bid.placed"`
	EnforceSaleLiveness bool          `env:"ENFORCE_SALE_LIVENESS" envDefault:"false"`
	LockWaitTimeout     time.Duration `env:"LOCK_WAIT_TIMEOUT" envDefault:"5s"`
	LockTTL             time.Duration `env:"LOCK_TTL" envDefault:"15s"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Parse loads an optional .env file, then reads the environment and command-line flags.
func Parse() (*Config, error) {
	// a missing .env file is the normal case outside local development
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envRedisAddr := cfg.RedisAddr
	envKafkaBrokers := cfg.KafkaBrokers
	envJWTSecret := cfg.JWTSecret

	var kafkaBrokers string
	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, empty for the in-memory store")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address for the shared sale lock")
	flag.StringVar(&kafkaBrokers, "k", "", "comma separated kafka brokers")
	flag.StringVar(&cfg.JWTSecret, "s", "", "HMAC secret for bearer tokens")

	flag.Parse()

	cfg.KafkaBrokers = splitList(kafkaBrokers)

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}
	if len(envKafkaBrokers) > 0 {
		cfg.KafkaBrokers = splitList(strings.Join(envKafkaBrokers, ","))
	}
	if envJWTSecret != "" {
		cfg.JWTSecret = envJWTSecret
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = defaultKafkaTopic
	}
	if cfg.LockWaitTimeout <= 0 {
		return nil, fmt.Errorf("LOCK_WAIT_TIMEOUT must be positive, got %s", cfg.LockWaitTimeout)
	}
	if cfg.LockTTL <= 0 {
		return nil, fmt.Errorf("LOCK_TTL must be positive, got %s", cfg.LockTTL)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
