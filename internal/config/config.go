package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"kopstat/internal/analytics"
	"kopstat/internal/stats"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	AnomalyThreshold    float64
	ForecastPeriods     int
	StableEpsilon       float64
	TimeZone            string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		AnomalyThreshold:    getEnvFloat("ANOMALY_THRESHOLD", stats.DefaultAnomalyThreshold),
		ForecastPeriods:     getEnvInt("FORECAST_PERIODS", stats.DefaultForecastPeriods),
		StableEpsilon:       getEnvFloat("TREND_STABLE_EPSILON", stats.DefaultStableEpsilon),
		TimeZone:            getEnv("KOPSTAT_TIMEZONE", "UTC"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

// EngineConfig maps the configuration onto the analytics engine settings.
// An unknown time zone falls back to UTC.
func (c *AppConfig) EngineConfig() analytics.Config {
	ec := analytics.DefaultConfig()
	if c.AnomalyThreshold > 0 {
		ec.AnomalyThreshold = c.AnomalyThreshold
	}
	if c.ForecastPeriods > 0 {
		ec.ForecastPeriods = c.ForecastPeriods
	}
	if c.StableEpsilon > 0 {
		ec.StableEpsilon = c.StableEpsilon
	}
	if c.TimeZone != "" {
		loc, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			log.Warn().Err(err).Str("timezone", c.TimeZone).Msg("Unknown time zone, using UTC")
		} else {
			ec.Location = loc
		}
	}
	return ec
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		intVal, err := strconv.Atoi(value)
		if err == nil && intVal > 0 {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Int("default", fallback).Msg("Invalid integer setting, using default")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		floatVal, err := strconv.ParseFloat(value, 64)
		if err == nil && floatVal > 0 {
			return floatVal
		}
		log.Warn().Str("key", key).Str("value", value).Float64("default", fallback).Msg("Invalid numeric setting, using default")
	}
	return fallback
}
