package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultEndpoint is the homework-statuses endpoint polled by the bot.
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	// DefaultPollIntervalSeconds is how often the endpoint is polled.
	DefaultPollIntervalSeconds = 600
	// DefaultLogFile duplicates the log stream next to the binary.
	DefaultLogFile = "main.log"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64
	Endpoint       string
	PollInterval   time.Duration
	LogLevel       string
	Environment    string
	LogFile        string
}

// MissingEnvError reports the set of required environment variables that
// are absent or empty. Startup must not proceed while the set is non-empty.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	names := append([]string(nil), e.Names...)
	sort.Strings(names)
	return fmt.Sprintf("required environment variables are not set: %s", strings.Join(names, ", "))
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.PracticumToken = os.Getenv("PRACTICUM_TOKEN")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")

	// All three secrets are checked before anything is parsed so the error
	// names the complete set of absent variables, not just the first one.
	var missing []string
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if chatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Names: missing}
	}

	var err error
	cfg.TelegramChatID, err = strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.Endpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	intervalStr := os.Getenv("POLL_INTERVAL_SECONDS")
	if intervalStr == "" {
		cfg.PollInterval = DefaultPollIntervalSeconds * time.Second
	} else {
		seconds, err := strconv.Atoi(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
		}
		if seconds <= 0 {
			return nil, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: must be positive, got %d", seconds)
		}
		cfg.PollInterval = time.Duration(seconds) * time.Second
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	return cfg, nil
}
