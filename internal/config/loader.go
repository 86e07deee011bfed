package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. SAPPHAI_* environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SAPPHAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; environment variables alone are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if cfg.Scheduler == nil {
		cfg.Scheduler = map[string]SchedulerTask{
			"memory_sweep": {Enabled: true, Schedule: DefaultSweepSchedule},
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.environment", DefaultServerEnvironment)
	v.SetDefault("server.static_dir", DefaultServerStaticDir)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit_window", DefaultRateLimitWindow)
	v.SetDefault("server.rate_limit_max", DefaultRateLimitMax)

	v.SetDefault("ai.provider", DefaultAIProvider)
	// The token has no usable default, but viper only unmarshals keys it
	// knows about; registering an empty default lets SAPPHAI_AI_TOKEN
	// bind through AutomaticEnv, and validation rejects the empty value.
	v.SetDefault("ai.token", "")
	v.SetDefault("ai.base_url", DefaultAIBaseURL)
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.temperature", DefaultAITemperature)
	v.SetDefault("ai.max_tokens", DefaultAIMaxTokens)
	v.SetDefault("ai.timeout", DefaultAITimeout)

	v.SetDefault("chat.support_link", DefaultSupportLink)

	v.SetDefault("persona.personality_path", DefaultPersonalityPath)
	v.SetDefault("persona.responses_path", DefaultResponsesPath)

	v.SetDefault("memory.max_users", DefaultMemoryMaxUsers)
	v.SetDefault("memory.idle_ttl", DefaultMemoryIdleTTL)
}
