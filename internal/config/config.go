package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT  string
	LOG_LEVEL string

	LOG_FILE_PATH string

	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	ELASTIC_URL   string
	ELASTIC_INDEX string

	GCP_PROJECT_ID string

	EXPORT_PROFILE_PATH string
}

// DefaultEnvConfig holds the configuration loaded by LoadEnvConfig.
var DefaultEnvConfig = envConfig{}

// LoadEnvConfig reads .env (when present) and the process environment into DefaultEnvConfig.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := envConfig{
		APP_PORT:            getEnv("APP_PORT", "8080"),
		LOG_LEVEL:           getEnv("LOG_LEVEL", "info"),
		LOG_FILE_PATH:       getEnv("LOG_FILE_PATH", ""),
		DB_HOST:             getEnv("DB_HOST", "localhost"),
		DB_USER:             getEnv("DB_USER", "postgres"),
		DB_PASSWORD:         getEnv("DB_PASSWORD", ""),
		DB_NAME:             getEnv("DB_NAME", "employees"),
		DB_SSL_MODE:         getEnv("DB_SSL_MODE", "disable"),
		ELASTIC_URL:         getEnv("ELASTIC_URL", ""),
		ELASTIC_INDEX:       getEnv("ELASTIC_INDEX", "employees"),
		GCP_PROJECT_ID:      getEnv("GCP_PROJECT_ID", ""),
		EXPORT_PROFILE_PATH: getEnv("EXPORT_PROFILE_PATH", ""),
	}

	var err error
	if cfg.DB_PORT, err = getEnvInt("DB_PORT", 5432); err != nil {
		return err
	}
	if cfg.DB_MAX_OPEN_CONNS, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return err
	}
	if cfg.DB_MAX_IDLE_CONNS, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return err
	}
	if cfg.DB_CONN_MAX_LIFETIME, err = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return err
	}

	DefaultEnvConfig = cfg
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
