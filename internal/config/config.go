package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	LogLevel        string
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	DefaultMode     string
	TermMonthsMin   int
	TermMonthsMax   int
	SessionBackend  string
	RedisURL        string
	SessionTTL      time.Duration
	SlackBotToken   string
	SlackChannel    string
	APIToken        string
}

// LoadDotEnv reads KEY=value pairs from path into the process environment.
// Variables already set are left alone; a missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func Load() Config {
	return Config{
		Port:            envInt("INTAKE_PORT", 8760),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		LLMProvider:     envStr("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("GEMINI_MODEL", "gemini-1.5-pro"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		DefaultMode:     envStr("INTAKE_DEFAULT_MODE", "freeform"),
		TermMonthsMin:   envInt("TERM_MONTHS_MIN", 6),
		TermMonthsMax:   envInt("TERM_MONTHS_MAX", 480),
		SessionBackend:  envStr("SESSION_BACKEND", "memory"),
		RedisURL:        envStr("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:      envDuration("SESSION_TTL", time.Hour),
		SlackBotToken:   envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:    envStr("SLACK_APPLICATIONS_CHANNEL", ""),
		APIToken:        envStr("INTAKE_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
