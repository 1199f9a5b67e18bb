// Package config loads moderator settings from environment variables over
// compiled defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/venuemarket/moderation/internal/logger"
)

// Config holds every setting the moderator binary reads.
type Config struct {
	ListenAddr     string
	DatabaseURL    string
	RedisAddr      string
	NATSURL        string
	NATSName       string
	MigrateOnStart bool

	StrikeWindow time.Duration // lifetime of a sender's strike counter
	BlockAfter   int           // strikes before messages are blocked (0 = never)

	CheckRateLimit  int
	CheckRateWindow time.Duration
}

// Default returns the settings used when nothing is overridden.
func Default() Config {
	return Config{
		ListenAddr:      ":8090",
		DatabaseURL:     "postgres://localhost:5432/venues?sslmode=disable",
		RedisAddr:       "localhost:6379",
		NATSURL:         "nats://localhost:4222",
		NATSName:        "venue-moderator",
		MigrateOnStart:  true,
		StrikeWindow:    24 * time.Hour,
		BlockAfter:      0,
		CheckRateLimit:  120,
		CheckRateWindow: time.Minute,
	}
}

// FromEnv overlays environment variables on Default. Invalid values are
// logged and the default kept.
func FromEnv() Config {
	c := Default()
	c.ListenAddr = str("LISTEN_ADDR", c.ListenAddr)
	c.DatabaseURL = str("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = str("REDIS_ADDR", c.RedisAddr)
	c.NATSURL = str("NATS_URL", c.NATSURL)
	c.NATSName = str("NATS_NAME", c.NATSName)
	c.MigrateOnStart = boolean("MIGRATE_ON_START", c.MigrateOnStart)
	c.StrikeWindow = duration("STRIKE_WINDOW", c.StrikeWindow)
	c.BlockAfter = integer("BLOCK_AFTER_STRIKES", c.BlockAfter)
	c.CheckRateLimit = integer("CHECK_RATE_LIMIT", c.CheckRateLimit)
	c.CheckRateWindow = duration("CHECK_RATE_WINDOW", c.CheckRateWindow)
	return c
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func integer(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		logger.Get().Warn().Str("key", key).Str("value", s).Int("default", def).Msg("invalid int; using default")
		return def
	}
	return n
}

func boolean(key string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		logger.Get().Warn().Str("key", key).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
		return def
	}
	return b
}

func duration(key string, def time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		logger.Get().Warn().Str("key", key).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
		return def
	}
	return d
}
