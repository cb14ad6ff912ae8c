// Package config loads and validates the HireFlow runtime configuration.
//
// Values come from built-in defaults, an optional hireflow.yaml file and the
// environment, in increasing order of precedence. A .env file is loaded into
// the environment first when present.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Inference providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// Config is the complete application configuration.
// It is built once at startup and passed to components at construction time.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Inference  InferenceConfig  `mapstructure:"inference"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	Profile    ProfileConfig    `mapstructure:"profile"`
	Suggestion SuggestionConfig `mapstructure:"suggestion"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
}

// InferenceConfig configures the hosted language model.
// An empty Token disables live suggestions; the mock pool is used instead.
type InferenceConfig struct {
	Provider    string        `mapstructure:"provider"`
	Token       string        `mapstructure:"token"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SMTPConfig configures the outbound mail relay.
// Credentials are supplied per request by the applicant.
type SMTPConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	FromAddress string        `mapstructure:"from_address"`
	TLSPolicy   string        `mapstructure:"tls_policy"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ProfileConfig configures implicit selection of the profile variant.
// When Credential is set, requests carrying the same credential use the profile variant.
type ProfileConfig struct {
	Credential string `mapstructure:"credential"`
}

// SuggestionConfig configures the suggestion service.
type SuggestionConfig struct {
	PoolFile string `mapstructure:"pool_file"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	SuggestLimit    int           `mapstructure:"suggest_limit"`
	SendLimit       int           `mapstructure:"send_limit"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the environment variable names used by earlier deployments.
var legacyEnv = map[string][]string{
	"server.port":        {"HIREFLOW_SERVER_PORT", "PORT"},
	"inference.token":    {"HIREFLOW_INFERENCE_TOKEN", "HF_TOKEN"},
	"smtp.host":          {"HIREFLOW_SMTP_HOST", "SMTP_HOST"},
	"smtp.port":          {"HIREFLOW_SMTP_PORT", "SMTP_PORT"},
	"smtp.from_address":  {"HIREFLOW_SMTP_FROM_ADDRESS", "SMTP_USER"},
	"profile.credential": {"HIREFLOW_PROFILE_CREDENTIAL"},
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(10<<20))
	v.SetDefault("server.allowed_origin", "*")

	v.SetDefault("inference.provider", ProviderHuggingFace)
	v.SetDefault("inference.token", "")
	v.SetDefault("inference.base_url", "https://router.huggingface.co/v1")
	v.SetDefault("inference.model", "mistralai/Magistral-Small-2506")
	v.SetDefault("inference.max_tokens", 200)
	v.SetDefault("inference.temperature", 0.7)
	v.SetDefault("inference.timeout", 30*time.Second)

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from_address", "")
	v.SetDefault("smtp.tls_policy", "opportunistic")
	v.SetDefault("smtp.timeout", 15*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.suggest_limit", 30)
	v.SetDefault("rate_limit.send_limit", 20)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})

	v.SetDefault("profile.credential", "")
	v.SetDefault("suggestion.pool_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads .env (if present), the optional config file and the environment.
// configFile may be empty, in which case hireflow.yaml is searched in . and ./configs.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("hireflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper binds environment variables on v and decodes the result.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("HIREFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// A missing inference token is valid: suggestions then come from the mock pool.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config error: 'server.max_upload_bytes' must be positive")
	}

	switch c.Inference.Provider {
	case ProviderHuggingFace, ProviderGemini:
	default:
		return fmt.Errorf("config error: unknown inference provider %q", c.Inference.Provider)
	}
	if c.Inference.MaxTokens <= 0 {
		return fmt.Errorf("config error: 'inference.max_tokens' must be positive")
	}
	if c.Inference.Temperature < 0 || c.Inference.Temperature > 2 {
		return fmt.Errorf("config error: 'inference.temperature' must be within [0, 2]")
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("config error: 'smtp.port' must be between 1 and 65535, got %d", c.SMTP.Port)
	}
	switch c.SMTP.TLSPolicy {
	case "opportunistic", "mandatory", "none":
	default:
		return fmt.Errorf("config error: unknown smtp tls policy %q", c.SMTP.TLSPolicy)
	}

	return nil
}

// InferenceEnabled reports whether a live inference credential is configured.
func (c *Config) InferenceEnabled() bool {
	return c.Inference.Token != ""
}
