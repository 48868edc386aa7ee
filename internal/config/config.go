// Пакет config — загрузка и валидация конфигурации FoodWagen
// из переменных окружения (и опционального .env файла).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// DefaultFoodAPIURL — mock API каталога блюд по умолчанию.
const DefaultFoodAPIURL = "https://6852821e0594059b23cdd834.mockapi.io"

// Config содержит все параметры конфигурации FoodWagen.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- Food API ---

	// Базовый URL внешнего сервиса (без /Food)
	FoodAPIURL string
	// Таймаут запросов к Food API; 0 — без таймаута
	FoodAPITimeout time.Duration
	// Путь к CA-сертификату для TLS (пустая строка — системный пул)
	FoodAPICACertPath string

	// --- Каталог ---

	// Шаг окна отображения (Load More)
	PageSize int
	// Максимальное количество UI-сессий в памяти
	SessionMaxSize int
	// Время жизни UI-сессии с момента создания
	SessionTTL time.Duration

	// Разрешённые origin для UI shell (CORS)
	CORSAllowedOrigins []string

	// --- topologymetrics ---

	DephealthEnabled       bool
	DephealthGroup         string
	DephealthCheckInterval time.Duration
	DephealthIsEntry       bool
	// Не проверять сертификат Food API в probe (только https)
	DephealthTLSSkipVerify bool
}

// Load загружает конфигурацию из переменных окружения.
// Перед чтением переменных подгружается .env (FW_ENV_FILE, по умолчанию .env);
// уже заданные переменные окружения не перезаписываются.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnvDefault("FW_ENV_FILE", ".env")); err != nil {
		return nil, fmt.Errorf("FW_ENV_FILE: %w", err)
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	cfg.Port, err = getEnvInt("FW_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("FW_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("FW_PORT: порт %d вне диапазона 1-65535", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FW_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FW_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("FW_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FW_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("FW_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FW_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("FW_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FW_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("FW_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FW_HTTP_IDLE_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = getEnvDuration("FW_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FW_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Food API ---

	cfg.FoodAPIURL = strings.TrimRight(getEnvDefault("FW_FOOD_API_URL", DefaultFoodAPIURL), "/")
	parsed, err := url.Parse(cfg.FoodAPIURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("FW_FOOD_API_URL: некорректный URL %q", cfg.FoodAPIURL)
	}

	cfg.FoodAPITimeout, err = getEnvDuration("FW_FOOD_API_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("FW_FOOD_API_TIMEOUT: %w", err)
	}
	if cfg.FoodAPITimeout < 0 {
		return nil, fmt.Errorf("FW_FOOD_API_TIMEOUT: значение не может быть отрицательным")
	}

	cfg.FoodAPICACertPath = os.Getenv("FW_FOOD_API_CA_CERT_PATH")

	// --- Каталог ---

	cfg.PageSize, err = getEnvInt("FW_PAGE_SIZE", 8)
	if err != nil {
		return nil, fmt.Errorf("FW_PAGE_SIZE: %w", err)
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("FW_PAGE_SIZE: значение должно быть > 0")
	}

	cfg.SessionMaxSize, err = getEnvInt("FW_SESSION_MAX_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("FW_SESSION_MAX_SIZE: %w", err)
	}
	if cfg.SessionMaxSize < 1 {
		return nil, fmt.Errorf("FW_SESSION_MAX_SIZE: значение должно быть > 0")
	}

	cfg.SessionTTL, err = getEnvDuration("FW_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FW_SESSION_TTL: %w", err)
	}

	cfg.CORSAllowedOrigins = parseCSV(getEnvDefault("FW_CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	// --- topologymetrics ---

	cfg.DephealthEnabled, err = getEnvBool("FW_DEPHEALTH_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("FW_DEPHEALTH_ENABLED: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("FW_DEPHEALTH_GROUP", "foodwagen")
	cfg.DephealthCheckInterval, err = getEnvDuration("FW_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FW_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthIsEntry, err = getEnvBool("FW_DEPHEALTH_ISENTRY", false)
	if err != nil {
		return nil, fmt.Errorf("FW_DEPHEALTH_ISENTRY: %w", err)
	}
	cfg.DephealthTLSSkipVerify, err = getEnvBool("FW_DEPHEALTH_TLS_SKIP_VERIFY", false)
	if err != nil {
		return nil, fmt.Errorf("FW_DEPHEALTH_TLS_SKIP_VERIFY: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	return SetupLoggerTo(cfg, os.Stdout)
}

// SetupLoggerTo — как SetupLogger, но с указанным выводом
// (CLI пишет логи в stderr, stdout занят результатом команды).
func SetupLoggerTo(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// loadDotEnv подгружает переменные из .env файла. Отсутствие файла — не ошибка.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
