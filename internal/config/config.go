// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime settings of the assistant.
type Config struct {
	LogLevel  logrus.Level
	LogFormat string // "text" or "json"

	JournalPath string // sqlite journal file; empty disables the local journal
	DatabaseURL string // postgres journal; takes precedence over JournalPath

	RedisURL string        // suggestion cache; empty disables caching
	CacheTTL time.Duration // lifetime of cached rankings

	UserStarts *bool // nil asks the operator
	NoColor    bool
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		LogLevel:  logrus.InfoLevel,
		LogFormat: "text",
		CacheTTL:  10 * time.Minute,
	}
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, so tests can supply
// variables without touching the process environment.
func FromEnv(lookup func(string) string) (Config, error) {
	cfg := Defaults()

	if v := lookup("ESCOBA_LOG_LEVEL"); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("ESCOBA_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	switch f := strings.ToLower(getenv(lookup, "ESCOBA_LOG_FORMAT", "text")); f {
	case "text", "json":
		cfg.LogFormat = f
	default:
		return cfg, fmt.Errorf("ESCOBA_LOG_FORMAT: unknown format %q", f)
	}

	cfg.JournalPath = strings.TrimSpace(lookup("ESCOBA_JOURNAL"))
	cfg.DatabaseURL = strings.TrimSpace(lookup("DATABASE_URL"))
	cfg.RedisURL = strings.TrimSpace(lookup("REDIS_URL"))

	ttl, err := atoiDef(lookup("ESCOBA_CACHE_TTL"), int(cfg.CacheTTL/time.Second))
	if err != nil || ttl < 0 {
		return cfg, fmt.Errorf("ESCOBA_CACHE_TTL: invalid seconds %q", lookup("ESCOBA_CACHE_TTL"))
	}
	cfg.CacheTTL = time.Duration(ttl) * time.Second

	if v := lookup("ESCOBA_USER_STARTS"); v != "" {
		b := asBool(v)
		cfg.UserStarts = &b
	}
	cfg.NoColor = lookup("NO_COLOR") != ""
	return cfg, nil
}

// NewLogger returns a logrus logger configured from cfg.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: c.NoColor, FullTimestamp: true})
	}
	return log
}

func getenv(lookup func(string) string, k, def string) string {
	if v := lookup(k); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
