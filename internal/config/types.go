// Package config manages application configuration from environment variables,
// config files, and default values.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration indicates a configuration loading or validation failure.
// Configuration errors are fatal: the process must not accept traffic with
// an invalid or incomplete configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with SAPPHAI_ (e.g., SAPPHAI_AI_TOKEN)
// or through config.yaml.
type Config struct {
	Log       LogConfig                `mapstructure:"log"`
	Server    ServerConfig             `mapstructure:"server"`
	AI        AIConfig                 `mapstructure:"ai"`
	Chat      ChatConfig               `mapstructure:"chat"`
	Persona   PersonaConfig            `mapstructure:"persona"`
	Memory    MemoryConfig             `mapstructure:"memory"`
	Scheduler map[string]SchedulerTask `mapstructure:"scheduler"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ServerConfig controls the HTTP listener and its middleware.
type ServerConfig struct {
	Host            string        `mapstructure:"host"              validate:"required"`
	Port            int           `mapstructure:"port"              validate:"required,min=1,max=65535"`
	Environment     string        `mapstructure:"environment"       validate:"required,oneof=development production"`
	StaticDir       string        `mapstructure:"static_dir"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window" validate:"required,min=1s"`
	RateLimitMax    int           `mapstructure:"rate_limit_max"    validate:"required,min=1"`
}

// AIConfig configures the completion service client.
type AIConfig struct {
	Provider    string        `mapstructure:"provider"    validate:"required,oneof=openai gemini"`
	Token       string        `mapstructure:"token"       validate:"required"`
	BaseURL     string        `mapstructure:"base_url"    validate:"required,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int           `mapstructure:"max_tokens"  validate:"required,min=1"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"required,min=1s,max=10m"`
}

// ChatConfig holds conversation-level settings.
type ChatConfig struct {
	SupportLink string `mapstructure:"support_link" validate:"required,url"`
}

// PersonaConfig points at the two static persona documents loaded at startup.
type PersonaConfig struct {
	PersonalityPath string `mapstructure:"personality_path" validate:"required"`
	ResponsesPath   string `mapstructure:"responses_path"   validate:"required"`
}

// MemoryConfig bounds the in-process conversation store.
type MemoryConfig struct {
	MaxUsers int           `mapstructure:"max_users" validate:"required,min=1"`
	IdleTTL  time.Duration `mapstructure:"idle_ttl"  validate:"required,min=1m"`
}

// SchedulerTask configures a single scheduled task by name.
type SchedulerTask struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
