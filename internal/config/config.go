package config

import (
	"os"
	"strconv"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port int
		Host string
	}
	DetectorAPI struct {
		BaseURL string
		Timeout int // в секундах
	}
	Analysis struct {
		SmoothingWindow int
		ConfThreshold   float64
		EmissionFactor  float64
	}
	Logging struct {
		Level string
	}
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {
	cfg := &Config{}

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Конфигурация сервиса детекции
	cfg.DetectorAPI.BaseURL = getEnv("DETECTOR_API_BASE_URL", "http://localhost:8000")
	cfg.DetectorAPI.Timeout = getEnvInt("DETECTOR_API_TIMEOUT_SECONDS", 300) // 5 минут по умолчанию

	// Параметры анализа по умолчанию
	cfg.Analysis.SmoothingWindow = getEnvInt("SMOOTHING_WINDOW", 5)
	cfg.Analysis.ConfThreshold = getEnvFloat("CONF_THRESHOLD", 0.4)
	cfg.Analysis.EmissionFactor = getEnvFloat("EMISSION_FACTOR", 0.23)

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	return cfg
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает float значение переменной окружения или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
