package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application. It is loaded
// once at startup and treated as immutable afterwards.
type AppConfig struct {
	TelegramToken     string
	AuthorizedChatID  int64  // the bot only reacts inside this chat
	GoogleCredentials string // path to the service-account JSON key
	SpreadsheetID     string
	TemplateSheetName string // blank ledger cloned for each new teacher
	RosterSheetName   string
	DatabaseURL       string // optional; enables the attendance audit trail
	LogLevel          string
	Environment       string
	CronSpecReminder  string // daily "record your lessons" reminder
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	chatIDStr := os.Getenv("AUTHORIZED_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("AUTHORIZED_CHAT_ID is not set")
	}
	cfg.AuthorizedChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTHORIZED_CHAT_ID: %w", err)
	}

	cfg.GoogleCredentials = os.Getenv("GOOGLE_CREDENTIALS_JSON")
	if cfg.GoogleCredentials == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON is not set")
	}

	cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is not set")
	}

	cfg.TemplateSheetName = os.Getenv("TEMPLATE_SHEET_NAME")
	if cfg.TemplateSheetName == "" {
		cfg.TemplateSheetName = "Шаблон"
	}

	cfg.RosterSheetName = os.Getenv("ROSTER_SHEET_NAME")
	if cfg.RosterSheetName == "" {
		cfg.RosterSheetName = "Преподаватели"
	}

	// Optional: the bot runs without an audit trail when unset.
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecReminder = os.Getenv("CRON_SPEC_DAILY_REMINDER")
	if cfg.CronSpecReminder == "" {
		cfg.CronSpecReminder = "0 18 * * *" // Default: 18:00 daily
	}

	return cfg, nil
}
