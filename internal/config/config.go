package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

// MaxMemoryCapacity is the largest number of exchanges the memory store may hold.
const MaxMemoryCapacity = 100

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":5000"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`
	MaxTokens        int         `env:"LLM_MAX_TOKENS" envDefault:"150"`
	Temperature      float32     `env:"LLM_TEMPERATURE" envDefault:"0.7"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Persona
	PersonaPromptPath string `env:"PERSONA_PROMPT_PATH"`
	NativeLanguage    string `env:"NATIVE_LANGUAGE" envDefault:"cs"`
	MemoryCapacity    int    `env:"MEMORY_CAPACITY" envDefault:"100"`

	// External services
	ExternalTimeout       time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"20s"`
	GoogleCredentialsFile string        `env:"GOOGLE_CREDENTIALS_FILE"`
	GoogleAPIKey          string        `env:"GOOGLE_API_KEY"`

	// HTTP
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Reports and audit
	AnalyticsReportSchedule string `env:"ANALYTICS_REPORT_SCHEDULE" envDefault:"0 21 * * *"`
	TranscriptLogPath       string `env:"TRANSCRIPT_LOG_PATH"`

	// Telegram front-end (optional)
	TelegramBotToken     string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAllowedUsers []int64 `env:"TELEGRAM_ALLOWED_USERS" envSeparator:":"`

	// Logging
	LogFormat  string `env:"LOG_FORMAT" envDefault:"console"`
	LogVerbose bool   `env:"LOG_VERBOSE" envDefault:"false"`
}

// New parses the environment into a Config and validates it.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the generation limits and sizes that have no safe default.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.MaxTokens))
	}
	if c.Temperature <= 0 || c.Temperature >= 1 {
		errs = append(errs, fmt.Errorf("LLM_TEMPERATURE must be in (0, 1), got %v", c.Temperature))
	}
	if c.MemoryCapacity <= 0 || c.MemoryCapacity > MaxMemoryCapacity {
		errs = append(errs, fmt.Errorf("MEMORY_CAPACITY must be in [1, %d], got %d", MaxMemoryCapacity, c.MemoryCapacity))
	}
	if c.ExternalTimeout <= 0 {
		errs = append(errs, errors.New("EXTERNAL_TIMEOUT must be positive"))
	}
	if c.NativeLanguage == "" {
		errs = append(errs, errors.New("NATIVE_LANGUAGE must not be empty"))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
