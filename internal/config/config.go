package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	LogFormat       string
	DefaultPageSize int
	MaxPageSize     int
	// WriteRateLimit is the number of mutating requests a client IP may
	// make per minute. Zero disables limiting.
	WriteRateLimit  int
	ShutdownTimeout time.Duration
}

// Load reads envFile into the process environment if it exists, without
// overriding variables already set, then builds the Config.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		Port:      orDefault(getenv("QUEST_PORT"), "8080"),
		DBPath:    orDefault(getenv("QUEST_DB_PATH"), "quests.db"),
		LogLevel:  orDefault(getenv("QUEST_LOG_LEVEL"), "info"),
		LogFormat: orDefault(getenv("QUEST_LOG_FORMAT"), "text"),
	}

	var err error
	if c.DefaultPageSize, err = intVar(getenv, "QUEST_DEFAULT_PAGE_SIZE", 20); err != nil {
		return Config{}, err
	}
	if c.MaxPageSize, err = intVar(getenv, "QUEST_MAX_PAGE_SIZE", 2000); err != nil {
		return Config{}, err
	}
	if c.WriteRateLimit, err = intVar(getenv, "QUEST_WRITE_RATE_LIMIT", 0); err != nil {
		return Config{}, err
	}
	c.ShutdownTimeout = 5 * time.Second
	if raw := getenv("QUEST_SHUTDOWN_TIMEOUT"); raw != "" {
		if c.ShutdownTimeout, err = time.ParseDuration(raw); err != nil {
			return Config{}, fmt.Errorf("QUEST_SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	switch {
	case c.DefaultPageSize < 1:
		return Config{}, fmt.Errorf("QUEST_DEFAULT_PAGE_SIZE must be at least 1, got %d", c.DefaultPageSize)
	case c.MaxPageSize < c.DefaultPageSize:
		return Config{}, fmt.Errorf("QUEST_MAX_PAGE_SIZE (%d) is below QUEST_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	case c.WriteRateLimit < 0:
		return Config{}, fmt.Errorf("QUEST_WRITE_RATE_LIMIT must not be negative, got %d", c.WriteRateLimit)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return Config{}, fmt.Errorf("QUEST_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
