package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/wire"
)

// Load builds a Config starting from its zero value, merging in path
// (a TOML file) if present, then overlaying LICGUARD_SOCKET_ADDR /
// LICGUARD_DATABASE_URI environment variables when set. Environment
// wins over the file for any key it covers.
//
// Before reading the environment, Load quietly merges a ".env" file
// from the working directory if one exists, without overwriting
// variables already set in the process environment — a convenience
// for local development, never required in deployment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, logger.NewAuthorityError(logger.ErrCodeConfigurationError, "decode config file "+path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, logger.NewAuthorityError(logger.ErrCodeConfigurationError, "stat config file "+path, err)
	}

	setDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	return cfg, nil
}

const defaultHealthPort = 8090

func setDefaults(cfg *Config) {
	if cfg.SocketAddr == "" {
		cfg.SocketAddr = fmt.Sprintf(":%d", wire.DefaultPort)
	}
	if cfg.HealthPort == 0 {
		cfg.HealthPort = defaultHealthPort
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if addr := os.Getenv("LICGUARD_SOCKET_ADDR"); addr != "" {
		cfg.SocketAddr = addr
	}
	if uri := os.Getenv("LICGUARD_DATABASE_URI"); uri != "" {
		cfg.DatabaseURI = uri
	}
	if port := os.Getenv("LICGUARD_HEALTH_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.HealthPort = n
		}
	}
}
