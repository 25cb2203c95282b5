package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"erpchat/validation"
)

// DefaultEnvFiles are loaded, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	Port      string `env:"PORT" envDefault:"9090"`
	DBPath    string `env:"DB_PATH" envDefault:"./data/badger"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ReferenceCacheTTL time.Duration `env:"REFERENCE_CACHE_TTL" envDefault:"5m"`

	OpenAI    OpenAIConfig    `envPrefix:"OPENAI_"`
	Chatbot   ChatbotConfig   `envPrefix:"CHATBOT_"`
	SQLServer SQLServerConfig `envPrefix:"SQL_"`
}

type OpenAIConfig struct {
	APIKey      string  `env:"API_KEY"`
	BaseURL     string  `env:"BASE_URL"`
	Model       string  `env:"MODEL" envDefault:"gpt-4o-mini"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.2"`
}

// ChatbotConfig holds the document ids and knobs the chat handlers are driven by.
type ChatbotConfig struct {
	PreambleFileID  string `env:"PREAMBLE_FILE_ID"`
	HistoryFileID   string `env:"HISTORY_FILE_ID"`
	O2CFileID       string `env:"O2C_FILE_ID"`
	TemplateFileID  string `env:"TEMPLATE_FILE_ID"`
	ResultsFolder   string `env:"RESULTS_FOLDER" envDefault:"-15"`
	UploadFolder    string `env:"UPLOAD_FOLDER" envDefault:"reference"`
	ReferenceExt    string `env:"REFERENCE_EXT" envDefault:".txt"`
	SummaryRowLimit int    `env:"SUMMARY_ROW_LIMIT" envDefault:"5"`
}

type SQLServerConfig struct {
	Server   string `env:"SERVER"`
	Port     string `env:"PORT" envDefault:"1433"`
	Database string `env:"DATABASE"`
	UserID   string `env:"USER"`
	Password string `env:"PASSWORD"`
	Encrypt  bool   `env:"ENCRYPT" envDefault:"true"`
}

// Enabled reports whether enough settings are present to open a connection.
func (s SQLServerConfig) Enabled() bool {
	return s.Server != "" && s.Database != ""
}

// LoadEnv loads the env files that exist and returns how many were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads env files and parses the process environment into a Config.
func Load(envFiles []string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Chatbot.SummaryRowLimit < 0 {
		return fmt.Errorf("CHATBOT_SUMMARY_ROW_LIMIT must be non-negative, got %d", c.Chatbot.SummaryRowLimit)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2, got %v", c.OpenAI.Temperature)
	}
	ids := map[string]string{
		"CHATBOT_PREAMBLE_FILE_ID": c.Chatbot.PreambleFileID,
		"CHATBOT_HISTORY_FILE_ID":  c.Chatbot.HistoryFileID,
		"CHATBOT_O2C_FILE_ID":      c.Chatbot.O2CFileID,
		"CHATBOT_TEMPLATE_FILE_ID": c.Chatbot.TemplateFileID,
	}
	for name, id := range ids {
		if id != "" && !validation.IsDocumentID(id) {
			return fmt.Errorf("%s must be a positive document id, got '%s'", name, id)
		}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got '%s'", c.LogFormat)
	}
	return nil
}
