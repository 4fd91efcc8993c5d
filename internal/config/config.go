package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port        string `toml:"port"`
	DBPath      string `toml:"db_path"`
	TimeZone    string `toml:"tz"`
	SecretKey   string `toml:"secret_key"`
	HorizonDays int    `toml:"routine_horizon_days"`
	// logging
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	LogJSON     bool   `toml:"log_json"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// notifications
	TelegramBotToken string `toml:"telegram_bot_token"`
	TelegramChatID   string `toml:"telegram_chat_id"`
	// remote workout store
	FirestoreProjectID string `toml:"firestore_project_id"`
}

func Defaults() Config {
	return Config{
		Port:        "8080",
		DBPath:      filepath.Join("data", "gymcal.db"),
		TimeZone:    "UTC",
		HorizonDays: 60,
		LogLevel:    "info",
		LogToStdout: true,
	}
}

// Load reads the optional TOML file at path and then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.TimeZone = getEnv("TZ", cfg.TimeZone)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", cfg.TelegramChatID)
	cfg.FirestoreProjectID = getEnv("FIRESTORE_PROJECT_ID", cfg.FirestoreProjectID)

	if raw := os.Getenv("LOG_JSON"); raw != "" {
		cfg.LogJSON = raw == "1" || strings.EqualFold(raw, "true")
	}
	if raw := os.Getenv("ROUTINE_HORIZON_DAYS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid ROUTINE_HORIZON_DAYS %q", raw)
		}
		cfg.HorizonDays = parsed
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
