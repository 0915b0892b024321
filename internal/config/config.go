// Package config reads process configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the server's environment-derived settings.
type Config struct {
	Port             string
	MinClientVersion uint32
	LogLevel         string
}

const (
	defaultPort             = "9001"
	defaultMinClientVersion = uint32(22)
)

// Load reads PORT, MIN_CLIENT_VERSION and LOG_LEVEL from the environment,
// falling back to the package defaults.
func Load() Config {
	cfg := Config{
		Port:             defaultPort,
		MinClientVersion: defaultMinClientVersion,
		LogLevel:         "info",
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if v := os.Getenv("MIN_CLIENT_VERSION"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.MinClientVersion = uint32(parsed)
		}
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	return cfg
}
