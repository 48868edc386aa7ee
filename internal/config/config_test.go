package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// noDotEnv направляет FW_ENV_FILE в несуществующий файл, чтобы .env рабочей
// директории не влиял на тест.
func noDotEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FW_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

func TestLoad_Defaults(t *testing.T) {
	noDotEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8040 {
		t.Errorf("Port = %d, ожидается 8040", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.FoodAPIURL != DefaultFoodAPIURL {
		t.Errorf("FoodAPIURL = %q, ожидается %q", cfg.FoodAPIURL, DefaultFoodAPIURL)
	}
	if cfg.FoodAPITimeout != 0 {
		t.Errorf("FoodAPITimeout = %v, ожидается 0 (без таймаута)", cfg.FoodAPITimeout)
	}
	if cfg.PageSize != 8 {
		t.Errorf("PageSize = %d, ожидается 8", cfg.PageSize)
	}
	if cfg.SessionMaxSize != 1000 {
		t.Errorf("SessionMaxSize = %d, ожидается 1000", cfg.SessionMaxSize)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, ожидается 30m", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.DephealthEnabled {
		t.Error("DephealthEnabled = false, ожидается true")
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.DephealthTLSSkipVerify {
		t.Error("DephealthTLSSkipVerify = true, ожидается false")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	noDotEnv(t)
	setEnvs(t, map[string]string{
		"FW_PORT":                      "9000",
		"FW_LOG_LEVEL":                 "debug",
		"FW_LOG_FORMAT":                "text",
		"FW_FOOD_API_URL":              "http://food-api:3000/",
		"FW_FOOD_API_TIMEOUT":          "3s",
		"FW_PAGE_SIZE":                 "12",
		"FW_SESSION_TTL":               "5m",
		"FW_CORS_ALLOWED_ORIGINS":      "http://a.local, http://b.local",
		"FW_DEPHEALTH_ENABLED":         "false",
		"FW_DEPHEALTH_TLS_SKIP_VERIFY": "true",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, ожидается 9000", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.FoodAPIURL != "http://food-api:3000" {
		t.Errorf("FoodAPIURL = %q, trailing slash должен быть убран", cfg.FoodAPIURL)
	}
	if cfg.FoodAPITimeout != 3*time.Second {
		t.Errorf("FoodAPITimeout = %v, ожидается 3s", cfg.FoodAPITimeout)
	}
	if cfg.PageSize != 12 {
		t.Errorf("PageSize = %d, ожидается 12", cfg.PageSize)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v, ожидается 5m", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.local" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.DephealthEnabled {
		t.Error("DephealthEnabled = true, ожидается false")
	}
	if !cfg.DephealthTLSSkipVerify {
		t.Error("DephealthTLSSkipVerify = false, ожидается true")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"некорректный порт", "FW_PORT", "abc"},
		{"порт вне диапазона", "FW_PORT", "70000"},
		{"некорректный уровень логов", "FW_LOG_LEVEL", "verbose"},
		{"некорректный формат логов", "FW_LOG_FORMAT", "xml"},
		{"некорректный URL", "FW_FOOD_API_URL", "food-api"},
		{"отрицательный таймаут", "FW_FOOD_API_TIMEOUT", "-1s"},
		{"нулевой размер страницы", "FW_PAGE_SIZE", "0"},
		{"некорректная длительность", "FW_SESSION_TTL", "forever"},
		{"некорректный bool", "FW_DEPHEALTH_ENABLED", "maybe"},
		{"некорректный skip verify", "FW_DEPHEALTH_TLS_SKIP_VERIFY", "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noDotEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load() не вернул ошибку для %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "FW_PAGE_SIZE=4\nFW_DEPHEALTH_GROUP=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FW_ENV_FILE", path)
	// Реальная переменная окружения приоритетнее .env
	t.Setenv("FW_DEPHEALTH_GROUP", "from-env")
	// FW_PAGE_SIZE задаётся только в файле; после теста очищаем
	t.Setenv("FW_PAGE_SIZE", "")
	os.Unsetenv("FW_PAGE_SIZE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.PageSize != 4 {
		t.Errorf("PageSize = %d, ожидается 4 (из .env)", cfg.PageSize)
	}
	if cfg.DephealthGroup != "from-env" {
		t.Errorf("DephealthGroup = %q, ожидается from-env", cfg.DephealthGroup)
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV(" a, ,b ,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("parseCSV = %v, ожидается [a b c]", got)
	}
	if parseCSV("") != nil {
		t.Error("parseCSV(\"\") должен вернуть nil")
	}
}
