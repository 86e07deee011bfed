package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultServerHost        = "0.0.0.0"
	DefaultServerPort        = 3000
	DefaultServerEnvironment = "development"
	DefaultServerStaticDir   = "public"

	DefaultRateLimitWindow = 15 * time.Minute
	DefaultRateLimitMax    = 100

	DefaultAIProvider    = "openai"
	DefaultAIBaseURL     = "https://api.openai.com/v1"
	DefaultAIModel       = "gpt-3.5-turbo"
	DefaultAITemperature = 0.7
	DefaultAIMaxTokens   = 300
	DefaultAITimeout     = 30 * time.Second

	DefaultSupportLink = "https://buy.stripe.com/cNi3cu9ju7yJcvN1rH5ZC00"

	DefaultPersonalityPath = "personality.yaml"
	DefaultResponsesPath   = "responses.yaml"

	DefaultMemoryMaxUsers = 10000
	DefaultMemoryIdleTTL  = 24 * time.Hour

	// DefaultSweepSchedule runs the idle-user sweep at the top of every hour.
	DefaultSweepSchedule = "0 * * * *"
)
