package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string

	DBPath      string
	StorageRoot string
	SessionIdle time.Duration

	GridSize        float64
	GridScale       float64
	SnapThreshold   float64
	HistoryCapacity int

	LogLevel  string
	LogFormat string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS"),

		DBPath:      getEnv("EDITOR_DB_PATH", "data/db/projects.db"),
		StorageRoot: getEnv("EDITOR_STORAGE_ROOT", "data/projects"),
		SessionIdle: time.Duration(getEnvAsInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,

		GridSize:        getEnvAsFloat("GRID_SIZE", 20),
		GridScale:       getEnvAsFloat("GRID_SCALE", 1),
		SnapThreshold:   getEnvAsFloat("SNAP_THRESHOLD", 10),
		HistoryCapacity: getEnvAsInt("HISTORY_CAPACITY", 50),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

// getEnvAsList разбирает список через запятую; пустые элементы отбрасываются.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
