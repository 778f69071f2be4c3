package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research pipeline
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Completion CompletionConfig `mapstructure:"completion"`
	Search     SearchConfig     `mapstructure:"search"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Maps       MapsConfig       `mapstructure:"maps"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// CompletionConfig contains completion-service settings
type CompletionConfig struct {
	Provider    string        `mapstructure:"provider"` // openai, ollama
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// SearchConfig contains search gateway settings
type SearchConfig struct {
	Providers      []string      `mapstructure:"providers"` // ordered fallback chain
	MergeAll       bool          `mapstructure:"merge_all"`
	SerperAPIKey   string        `mapstructure:"serper_api_key"`
	BraveAPIKey    string        `mapstructure:"brave_api_key"`
	GoogleAPIKey   string        `mapstructure:"google_api_key"`
	GoogleEngineID string        `mapstructure:"google_engine_id"`
	MaxResults     int           `mapstructure:"max_results"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// FetchConfig contains page fetching settings
type FetchConfig struct {
	Renderer       string        `mapstructure:"renderer"`        // chromedp, browserless, "" (disabled)
	BrowserlessURL string        `mapstructure:"browserless_url"`
	BrowserlessKey string        `mapstructure:"browserless_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxChars       int           `mapstructure:"max_chars"`       // per-page relevance budget
	UserAgent      string        `mapstructure:"user_agent"`
}

// MapsConfig contains static-map backend settings
type MapsConfig struct {
	APIKey string `mapstructure:"api_key"`
	Zoom   int    `mapstructure:"zoom"`
	Size   string `mapstructure:"size"`
}

// PipelineConfig contains orchestration limits
type PipelineConfig struct {
	MaxConcurrentSubtasks int `mapstructure:"max_concurrent_subtasks"`
	PagesPerDepth         int `mapstructure:"pages_per_depth"`   // max pages = depth * this
	ResultsPerDepth       int `mapstructure:"results_per_depth"` // results per query = depth * this
	ExtractCharBudget     int `mapstructure:"extract_char_budget"`
	SynthesisCharBudget   int `mapstructure:"synthesis_char_budget"`
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	MetricsPort  int  `mapstructure:"metrics_port"`
	CostTracking bool `mapstructure:"cost_tracking"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	viper.SetConfigName("surfer_config")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SURFER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional; defaults plus env cover the common case
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", "30s")

	viper.SetDefault("completion.provider", "ollama")
	viper.SetDefault("completion.base_url", "")
	viper.SetDefault("completion.model", "deepseek-r1:1.5b")
	viper.SetDefault("completion.temperature", 0.7)
	viper.SetDefault("completion.max_tokens", 2048)
	viper.SetDefault("completion.timeout", "60s")
	viper.SetDefault("completion.max_retries", 2)

	viper.SetDefault("search.providers", []string{"serper", "googleapi", "scrape"})
	viper.SetDefault("search.merge_all", false)
	viper.SetDefault("search.max_results", 10)
	viper.SetDefault("search.timeout", "30s")

	viper.SetDefault("fetch.renderer", "")
	viper.SetDefault("fetch.browserless_url", "https://chrome.browserless.io")
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("fetch.max_chars", 1000)
	viper.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	viper.SetDefault("maps.zoom", 13)
	viper.SetDefault("maps.size", "600x300")

	viper.SetDefault("pipeline.max_concurrent_subtasks", 3)
	viper.SetDefault("pipeline.pages_per_depth", 5)
	viper.SetDefault("pipeline.results_per_depth", 3)
	viper.SetDefault("pipeline.extract_char_budget", 10000)
	viper.SetDefault("pipeline.synthesis_char_budget", 15000)

	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.metrics_port", 9090)
	viper.SetDefault("telemetry.cost_tracking", true)
}

// overrideFromEnv overrides configuration with well-known environment variables
func overrideFromEnv() {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("completion.api_key", apiKey)
	}
	if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
		viper.Set("completion.base_url", base)
	}
	if apiKey := os.Getenv("SERPER_API_KEY"); apiKey != "" {
		viper.Set("search.serper_api_key", apiKey)
	}
	if apiKey := os.Getenv("BRAVE_SEARCH_KEY"); apiKey != "" {
		viper.Set("search.brave_api_key", apiKey)
	}
	if apiKey := os.Getenv("SEARCH_API_KEY"); apiKey != "" {
		viper.Set("search.google_api_key", apiKey)
	}
	if engineID := os.Getenv("SEARCH_ENGINE_ID"); engineID != "" {
		viper.Set("search.google_engine_id", engineID)
	}
	if apiKey := os.Getenv("BROWSERLESS_API_KEY"); apiKey != "" {
		viper.Set("fetch.browserless_key", apiKey)
	}
	if url := os.Getenv("BROWSERLESS_URL"); url != "" {
		viper.Set("fetch.browserless_url", url)
	}
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		viper.Set("maps.api_key", apiKey)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Completion.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unsupported completion provider: %s", config.Completion.Provider)
	}

	if len(config.Search.Providers) == 0 {
		return fmt.Errorf("at least one search provider must be configured")
	}
	for _, p := range config.Search.Providers {
		switch p {
		case "serper", "brave", "googleapi", "scrape":
		default:
			return fmt.Errorf("unknown search provider: %s", p)
		}
	}

	switch config.Fetch.Renderer {
	case "", "chromedp", "browserless":
	default:
		return fmt.Errorf("unknown renderer: %s", config.Fetch.Renderer)
	}

	return nil
}
