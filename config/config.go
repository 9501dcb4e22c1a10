package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ClientName    string
	ContactEmail  string
	BaseURL       string
	Timeout       time.Duration
	ServerPort    string
	DetailWorkers int
	AppEnv        string
	LogLevel      slog.Level
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	appEnv := getEnv("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	config := &Config{
		ClientName:    getEnv("NWS_CLIENT_NAME", ""),
		ContactEmail:  getEnv("NWS_CONTACT_EMAIL", ""),
		BaseURL:       getEnv("NWS_BASE_URL", "https://api.weather.gov"),
		Timeout:       time.Duration(getEnvAsInt("NWS_TIMEOUT", 15)) * time.Second,
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DetailWorkers: getEnvAsInt("DETAIL_WORKERS", 4),
		AppEnv:        appEnv,
		LogLevel:      level,
	}

	// The API rejects requests without an identifying User-Agent
	if config.ClientName == "" || config.ContactEmail == "" {
		return nil, fmt.Errorf("NWS_CLIENT_NAME and NWS_CONTACT_EMAIL must both be set")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
