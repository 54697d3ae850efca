package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// placeholderToken is the sample value shipped in .env.example; starting with it
// is treated the same as not configuring a token at all.
const placeholderToken = "YOUR_BOT_TOKEN"

// Config aggregates every setting the bot reads from the environment.
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Search   SearchConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	telegram, err := loadTelegramConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Telegram: telegram,
		Sheets:   loadSheetsConfig(),
		Search:   loadSearchConfig(),
	}, nil
}

// ServerConfig describes the status HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// TelegramConfig holds bot API credentials and polling behavior.
type TelegramConfig struct {
	Token        string
	PollInterval int
}

func loadTelegramConfig() (TelegramConfig, error) {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token == "" || token == placeholderToken {
		return TelegramConfig{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is unset or still the %q placeholder", placeholderToken)
	}

	interval := 3
	if override, err := parseOptionalIntEnv("TELEGRAM_POLL_INTERVAL"); err != nil {
		return TelegramConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return TelegramConfig{}, fmt.Errorf("TELEGRAM_POLL_INTERVAL must be at least 1, got %d", *override)
		}
		interval = *override
	}

	return TelegramConfig{Token: token, PollInterval: interval}, nil
}

// SheetsConfig addresses the target spreadsheet and its credentials.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	WorksheetName   string
}

// Enabled reports whether a connection attempt is worth making at all.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

func loadSheetsConfig() SheetsConfig {
	return SheetsConfig{
		CredentialsFile: getEnvOrDefault("GOOGLE_SHEETS_CREDENTIALS_FILE", "credentials.json"),
		SpreadsheetID:   strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID")),
		WorksheetName:   getEnvOrDefault("WORKSHEET_NAME", "Sheet1"),
	}
}

// SearchConfig holds Custom Search credentials.
type SearchConfig struct {
	APIKey   string
	EngineID string
}

// Enabled reports whether both required search credentials are present.
func (c SearchConfig) Enabled() bool {
	return c.APIKey != "" && c.EngineID != ""
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		APIKey:   strings.TrimSpace(os.Getenv("SEARCH_API_KEY")),
		EngineID: strings.TrimSpace(os.Getenv("SEARCH_ENGINE_ID")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
