package config

import (
	"fmt"
	"os"
	"strconv"

	"plan3d/internal/viewer/models"

	"github.com/pelletier/go-toml/v2"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	TelemetryDBPath     string
	TelemetryMigrations string
	// TextureSeed закрепляет seed процедурных текстур; при 0 каждая сборка берет новый
	TextureSeed uint64
	// ViewerConfig: путь к TOML файлу с настройками отображения по умолчанию
	ViewerConfig string
	OpenAPIPath  string
	BodyLimit    int
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "3003"),
		Environment:         getEnv("ENV", "development"),
		ReadTimeout:         getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:        getEnvAsInt("WRITE_TIMEOUT", 30),
		TelemetryDBPath:     getEnv("TELEMETRY_DB_PATH", "data/db/telemetry.db"),
		TelemetryMigrations: getEnv("TELEMETRY_MIGRATIONS", "migrations/001_init_telemetry.sql"),
		TextureSeed:         getEnvAsUint64("TEXTURE_SEED", 0),
		ViewerConfig:        getEnv("VIEWER_CONFIG", ""),
		OpenAPIPath:         getEnv("OPENAPI_PATH", "docs/viewer.openapi.yaml"),
		BodyLimit:           getEnvAsInt("BODY_LIMIT_MB", 8) * 1024 * 1024,
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

func getEnvAsUint64(key string, defaultVal uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultVal
}

// ============================================================
// Viewer defaults (TOML)
// ============================================================

type viewerFile struct {
	Display models.Settings `toml:"display"`
}

// DisplayDefaults читает настройки отображения по умолчанию. Пустой путь
// дает models.DefaultSettings(); поля, которых нет в файле, тоже берутся оттуда.
func DisplayDefaults(path string) (models.Settings, error) {
	defaults := models.DefaultSettings()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("read viewer config: %w", err)
	}
	return ParseDisplayDefaults(data)
}

func ParseDisplayDefaults(data []byte) (models.Settings, error) {
	file := viewerFile{Display: models.DefaultSettings()}
	if err := toml.Unmarshal(data, &file); err != nil {
		return models.DefaultSettings(), fmt.Errorf("parse viewer config: %w", err)
	}
	return file.Display.Normalize(), nil
}
