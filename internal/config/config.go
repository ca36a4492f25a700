package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/internal/llm"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// LLM Configuration:
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://api.deepseek.com/v1)
// - LLM_MODEL: Model name to use (default: deepseek-chat)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 3000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.3)
// - LLM_TIMEOUT: Request timeout in seconds (default: 120)
//
// Translate Configuration:
// - TARGET_LANGUAGE: BCP 47 tag of the translation target (default: zh)
// - BATCH_TARGET: Preferred batch size in blocks (default: 20)
// - BATCH_MIN: Minimum batch size before a breakpoint may close it (default: 15)
// - BATCH_MAX: Hard batch size ceiling (default: 30)
// - TRANSLATE_MAX_ATTEMPTS: Attempts per batch before giving up (default: 3)
// - TRANSLATE_RETRY_DELAY: Seconds between attempts (default: 2)
// - PROGRESS_DIR: Directory for checkpoint files (default: alongside input)
// - CRON_EXPR: Library scan schedule for serve mode (default: 0 0 * * *)
//
// Library Configuration:
// - LIBRARY_DIRS: Comma-separated caption library directories (default: /media)
//
// Jobs Configuration:
// - JOB_WORKERS: Concurrent translation workers in serve mode (default: 1)
// - JOB_DB_PATH: SQLite database path for job persistence (default: data/jobs.db)

type Config struct {
	LLM       llm.Config      `json:"llm"`
	Translate TranslateConfig `json:"translate"`
	Library   LibraryConfig   `json:"library"`
	Jobs      JobsConfig      `json:"jobs"`
}

// TranslateConfig holds the translation pipeline configuration.
type TranslateConfig struct {
	TargetLanguage language.Tag `json:"target_language"`
	BatchTarget    int          `json:"batch_target"`
	BatchMin       int          `json:"batch_min"`
	BatchMax       int          `json:"batch_max"`
	MaxAttempts    int          `json:"max_attempts"`
	RetryDelaySecs int          `json:"retry_delay_secs"`
	ProgressDir    string       `json:"progress_dir"`
	CronExpr       string       `json:"cron_expr"`
}

func (c TranslateConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySecs) * time.Second
}

// LibraryConfig holds the caption library configuration.
type LibraryConfig struct {
	Dirs []string `json:"dirs"`
}

// JobsConfig holds the background job queue configuration.
type JobsConfig struct {
	Workers int    `json:"workers"`
	DBPath  string `json:"db_path"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithTargetLanguage overrides the translation target language.
func WithTargetLanguage(tag language.Tag) Option {
	return func(c *Config) {
		c.Translate.TargetLanguage = tag
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		LLM: llm.Config{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://api.deepseek.com/v1"),
			Model:       getEnvString("LLM_MODEL", "deepseek-chat"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 3000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
			Timeout:     getEnvInt("LLM_TIMEOUT", 120),
		},
		Translate: TranslateConfig{
			TargetLanguage: language.Make(getEnvString("TARGET_LANGUAGE", "zh")),
			BatchTarget:    getEnvInt("BATCH_TARGET", 20),
			BatchMin:       getEnvInt("BATCH_MIN", 15),
			BatchMax:       getEnvInt("BATCH_MAX", 30),
			MaxAttempts:    getEnvInt("TRANSLATE_MAX_ATTEMPTS", 3),
			RetryDelaySecs: getEnvInt("TRANSLATE_RETRY_DELAY", 2),
			ProgressDir:    getEnvString("PROGRESS_DIR", ""),
			CronExpr:       getEnvString("CRON_EXPR", "0 0 * * *"),
		},
		Library: LibraryConfig{
			Dirs: getEnvStringSlice("LIBRARY_DIRS", []string{"/media"}),
		},
		Jobs: JobsConfig{
			Workers: getEnvInt("JOB_WORKERS", 1),
			DBPath:  getEnvString("JOB_DB_PATH", "data/jobs.db"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Translate.TargetLanguage == language.Und {
		return fmt.Errorf("TARGET_LANGUAGE is not a recognized language tag")
	}
	if c.Translate.BatchMin < 1 || c.Translate.BatchTarget < c.Translate.BatchMin || c.Translate.BatchMax < c.Translate.BatchTarget {
		return fmt.Errorf("batch sizes must satisfy 1 <= BATCH_MIN <= BATCH_TARGET <= BATCH_MAX")
	}
	if c.Translate.MaxAttempts < 1 {
		return fmt.Errorf("TRANSLATE_MAX_ATTEMPTS must be at least 1")
	}
	if c.Jobs.Workers < 1 {
		return fmt.Errorf("JOB_WORKERS must be at least 1")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvStringSlice gets a comma-separated list from environment variables with default
func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
