package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloud-ru/emi-oracle-go/internal/validators"
)

// DefaultBaseURL - адрес калькулятора, если <ENV>_BASE_URL не задан
const DefaultBaseURL = "https://www.calculateyouremi.in"

// Config содержит конфигурацию проверок
type Config struct {
	Env      string
	BaseURL  string
	Timeout  time.Duration
	Retries  int
	Workers  int
	Headless bool
	Browser  string

	MinPrincipal float64
	MaxPrincipal float64
	MinRate      float64
	MaxRate      float64
	MinTenure    int
	MaxTenure    int

	TolerancePercent float64
	MaxLoadTime      time.Duration
	MaxResponseTime  time.Duration

	ScreenshotOnFailure bool
	ScreenshotDir       string
	ReportFile          string
	MetricsFile         string

	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
	LogJSON         bool
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	defaults := validators.DefaultBounds()
	env := getEnvString("ENV", "dev")

	cfg := &Config{
		Env:      env,
		BaseURL:  getEnvString(strings.ToUpper(env)+"_BASE_URL", DefaultBaseURL),
		Timeout:  getEnvMillis("TIMEOUT", 30000),
		Retries:  getEnvInt("RETRIES", 2),
		Workers:  getEnvInt("WORKERS", 4),
		Headless: getEnvString("HEADLESS", "") == "true",
		Browser:  strings.ToLower(getEnvString("BROWSER", "chromium")),

		MinPrincipal: getEnvFloat("MIN_PRINCIPAL", defaults.MinPrincipal),
		MaxPrincipal: getEnvFloat("MAX_PRINCIPAL", defaults.MaxPrincipal),
		MinRate:      getEnvFloat("MIN_RATE", defaults.MinRate),
		MaxRate:      getEnvFloat("MAX_RATE", defaults.MaxRate),
		MinTenure:    getEnvInt("MIN_TENURE", defaults.MinTenure),
		MaxTenure:    getEnvInt("MAX_TENURE", defaults.MaxTenure),

		TolerancePercent: getEnvFloat("TOLERANCE_PERCENT", 1),
		MaxLoadTime:      getEnvMillis("MAX_LOAD_TIME", 3000),
		MaxResponseTime:  getEnvMillis("MAX_RESPONSE_TIME", 2000),

		ScreenshotOnFailure: getEnvString("SCREENSHOT_ON_FAILURE", "") == "true",
		ScreenshotDir:       getEnvString("SCREENSHOT_DIR", "reports/screenshots"),
		ReportFile:          getEnvString("REPORT_FILE", "reports/test-results.json"),
		MetricsFile:         getEnvString("METRICS_FILE", ""),

		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "emi-oracle"),
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
		LogJSON:         getEnvString("LOG_FORMAT", "console") == "json",
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got %d", c.Retries)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser %q", c.Browser)
	}
	if c.TolerancePercent < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %v", c.TolerancePercent)
	}
	return c.Bounds().Check()
}

// Bounds возвращает диапазоны для проверки входных значений
func (c *Config) Bounds() validators.Bounds {
	return validators.Bounds{
		MinPrincipal: c.MinPrincipal,
		MaxPrincipal: c.MaxPrincipal,
		MinRate:      c.MinRate,
		MaxRate:      c.MaxRate,
		MinTenure:    c.MinTenure,
		MaxTenure:    c.MaxTenure,
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Millisecond
}
