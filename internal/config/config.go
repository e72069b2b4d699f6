// Package config loads and validates discovery configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	Translate   TranslateConfig   `mapstructure:"translate"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Cloudflare  CloudflareConfig  `mapstructure:"cloudflare"`
	DNS         DNSConfig         `mapstructure:"dns"`
	DB          DBConfig          `mapstructure:"db"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// PipelineConfig governs queue pacing and candidate admission.
type PipelineConfig struct {
	WordList  string `mapstructure:"word_list"`
	MinLength int    `mapstructure:"min_length"`
	MaxLength int    `mapstructure:"max_length"`

	CallTimeoutSeconds int `mapstructure:"call_timeout_seconds"`

	TranslationPauseMs  int `mapstructure:"translation_pause_ms"`
	SynonymPauseMs      int `mapstructure:"synonym_pause_ms"`
	WebificationPauseMs int `mapstructure:"webification_pause_ms"`
	AvailabilityPauseMs int `mapstructure:"availability_pause_ms"`
	RatingPauseMs       int `mapstructure:"rating_pause_ms"`

	WatchIntervalSeconds       int `mapstructure:"watch_interval_seconds"`
	StatusIntervalSeconds      int `mapstructure:"status_interval_seconds"`
	ConvergenceIntervalSeconds int `mapstructure:"convergence_interval_seconds"`
}

// TranslateConfig points at the translation endpoint.
type TranslateConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LLMConfig configures the chat-completion provider.
type LLMConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CloudflareConfig holds Intel API credentials for WHOIS lookups.
type CloudflareConfig struct {
	APIToken       string `mapstructure:"api_token"`
	AccountID      string `mapstructure:"account_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DNSConfig bounds resolver lookups.
type DNSConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DBConfig locates the SQLite cache file.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// DiagnosticsConfig controls the local health/metrics server.
type DiagnosticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TERMSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("pipeline.word_list", "words.txt")
	v.SetDefault("pipeline.min_length", 3)
	v.SetDefault("pipeline.max_length", 10)
	v.SetDefault("pipeline.call_timeout_seconds", 90)
	v.SetDefault("pipeline.translation_pause_ms", 500)
	v.SetDefault("pipeline.synonym_pause_ms", 500)
	v.SetDefault("pipeline.webification_pause_ms", 500)
	v.SetDefault("pipeline.availability_pause_ms", 1000)
	v.SetDefault("pipeline.rating_pause_ms", 500)
	v.SetDefault("pipeline.watch_interval_seconds", 30)
	v.SetDefault("pipeline.status_interval_seconds", 15)
	v.SetDefault("pipeline.convergence_interval_seconds", 10)
	v.SetDefault("translate.base_url", "https://translate.google.com")
	v.SetDefault("translate.timeout_seconds", 30)
	v.SetDefault("llm.base_url", "http://127.0.0.1:1234/v1")
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("cloudflare.timeout_seconds", 30)
	v.SetDefault("dns.timeout_seconds", 5)
	v.SetDefault("db.path", "termscout.db")
	v.SetDefault("diagnostics.enabled", true)
	v.SetDefault("diagnostics.port", 8080)
}

// Validate enforces values every command depends on.
func (c Config) Validate() error {
	if c.Pipeline.MinLength <= 0 {
		return fmt.Errorf("pipeline.min_length must be > 0")
	}
	if c.Pipeline.MaxLength < c.Pipeline.MinLength {
		return fmt.Errorf("pipeline.max_length must be >= pipeline.min_length")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path must be set")
	}
	if c.Diagnostics.Enabled && c.Diagnostics.Port <= 0 {
		return fmt.Errorf("diagnostics.port must be > 0 when diagnostics are enabled")
	}
	return nil
}

// ValidateRun enforces the credentials the discovery run itself needs.
// Reporting commands read only the local cache and skip these.
func (c Config) ValidateRun() error {
	if c.Pipeline.WordList == "" {
		return fmt.Errorf("pipeline.word_list must be set")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must be set")
	}
	if c.Cloudflare.APIToken == "" {
		return fmt.Errorf("cloudflare.api_token must be set")
	}
	if c.Cloudflare.AccountID == "" {
		return fmt.Errorf("cloudflare.account_id must be set")
	}
	return nil
}

// CallTimeout converts the per-call budget into a duration.
func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.Pipeline.CallTimeoutSeconds) * time.Second
}
