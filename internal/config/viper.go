// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported classifier providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Default model per provider, used when classifier.model is empty.
var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.0-flash",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderOpenAI:    "openai/gpt-oss-120b",
}

// DefaultOpenAIBaseURL points at Groq's OpenAI-compatible endpoint.
const DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"

// Environment variables consulted for the classifier API key, by provider.
var apiKeyEnvVars = map[string][]string{
	ProviderGemini:    {"GEMINI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	ProviderOpenAI:    {"GROQ_API_KEY", "OPENAI_API_KEY"},
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat string `mapstructure:"date_format" yaml:"date_format"`
	} `mapstructure:"csv" yaml:"csv"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Classifier struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Provider          string `mapstructure:"provider" yaml:"provider"`
		Model             string `mapstructure:"model" yaml:"model"`
		BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
		BatchSize         int    `mapstructure:"batch_size" yaml:"batch_size"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		MaxTokens         int    `mapstructure:"max_tokens" yaml:"max_tokens"`
		APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"classifier" yaml:"classifier"`

	Anomaly struct {
		CategoryZThreshold float64 `mapstructure:"category_z_threshold" yaml:"category_z_threshold"`
		GlobalZThreshold   float64 `mapstructure:"global_z_threshold" yaml:"global_z_threshold"`
		MinCategorySamples int     `mapstructure:"min_category_samples" yaml:"min_category_samples"`
	} `mapstructure:"anomaly" yaml:"anomaly"`

	Report struct {
		Currency string `mapstructure:"currency" yaml:"currency"`
		Format   string `mapstructure:"format" yaml:"format"`
		TopN     int    `mapstructure:"top_n" yaml:"top_n"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile loads configuration from an explicit file path.
// An empty path searches the default locations instead.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-audit")
		v.AddConfigPath(".expense-audit")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("EXPENSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Provider-dependent values
	config.Classifier.Provider = strings.ToLower(strings.TrimSpace(config.Classifier.Provider))
	applyProviderDefaults(&config)

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "")

	v.SetDefault("categories.file", "")

	v.SetDefault("classifier.enabled", true)
	v.SetDefault("classifier.provider", ProviderGemini)
	v.SetDefault("classifier.model", "")
	v.SetDefault("classifier.base_url", "")
	v.SetDefault("classifier.batch_size", 20)
	v.SetDefault("classifier.timeout_seconds", 30)
	v.SetDefault("classifier.requests_per_minute", 10)
	v.SetDefault("classifier.max_tokens", 4096)
	v.SetDefault("classifier.api_key", "")

	v.SetDefault("anomaly.category_z_threshold", 2.5)
	v.SetDefault("anomaly.global_z_threshold", 3.0)
	v.SetDefault("anomaly.min_category_samples", 5)

	v.SetDefault("report.currency", "INR")
	v.SetDefault("report.format", "json")
	v.SetDefault("report.top_n", 5)
}

func applyProviderDefaults(config *Config) {
	c := &config.Classifier
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Provider == ProviderOpenAI && c.BaseURL == "" {
		c.BaseURL = DefaultOpenAIBaseURL
	}
	if c.APIKey == "" {
		for _, name := range apiKeyEnvVars[c.Provider] {
			if key := strings.TrimSpace(os.Getenv(name)); key != "" {
				c.APIKey = key
				break
			}
		}
	}
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("%w: invalid log format: %s (must be 'text' or 'json')", ErrInvalidConfig, config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("%w: CSV delimiter must be a single character, got: %q", ErrInvalidConfig, config.CSV.Delimiter)
	}

	c := config.Classifier
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("%w: unknown classifier provider %q (must be gemini, anthropic or openai)", ErrInvalidConfig, c.Provider)
	}
	if c.BatchSize < 1 || c.BatchSize > 200 {
		return fmt.Errorf("%w: classifier.batch_size must be between 1 and 200, got: %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 300 {
		return fmt.Errorf("%w: classifier.timeout_seconds must be between 1 and 300, got: %d", ErrInvalidConfig, c.TimeoutSeconds)
	}
	if c.RequestsPerMinute < 0 || c.RequestsPerMinute > 1000 {
		return fmt.Errorf("%w: classifier.requests_per_minute must be between 0 and 1000, got: %d", ErrInvalidConfig, c.RequestsPerMinute)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("%w: classifier.max_tokens must be positive, got: %d", ErrInvalidConfig, c.MaxTokens)
	}

	a := config.Anomaly
	if a.CategoryZThreshold <= 0 || a.GlobalZThreshold <= 0 {
		return fmt.Errorf("%w: anomaly thresholds must be positive, got: %.2f / %.2f", ErrInvalidConfig, a.CategoryZThreshold, a.GlobalZThreshold)
	}
	if a.MinCategorySamples < 2 {
		return fmt.Errorf("%w: anomaly.min_category_samples must be at least 2, got: %d", ErrInvalidConfig, a.MinCategorySamples)
	}

	if config.Report.Format != "json" && config.Report.Format != "yaml" {
		return fmt.Errorf("%w: invalid report format: %s (must be 'json' or 'yaml')", ErrInvalidConfig, config.Report.Format)
	}
	if config.Report.TopN < 1 {
		return fmt.Errorf("%w: report.top_n must be positive, got: %d", ErrInvalidConfig, config.Report.TopN)
	}

	return nil
}

// ClassifierReady reports whether a classifier should be built: enabled and a key is present.
func (c *Config) ClassifierReady() bool {
	return c.Classifier.Enabled && c.Classifier.APIKey != ""
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
