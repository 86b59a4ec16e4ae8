package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers       []string
	Enabled       bool
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// AIConfig selects and configures the external AI scoring provider.
// Provider is one of "none", "gemini", "grok".
type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	GrokAPIKey   string
	Timeout      time.Duration
}

func (a AIConfig) Enabled() bool {
	return a.Provider != "" && a.Provider != "none"
}

// AdaptiveConfig tunes the online learning model.
type AdaptiveConfig struct {
	SampleThreshold  int
	LearningRate     float64
	ConfidenceTarget int
	SeedOnStartup    bool
	Seed             int64
}

type Config struct {
	HTTPPort    int
	DB          DatabaseConfig
	Kafka       KafkaConfig
	AI          AIConfig
	Adaptive    AdaptiveConfig
	DemoMode    bool
	LogLevel    string
	LogFormat   string
	ServiceName string
}

func (c Config) Validate() error {
	if c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	switch c.AI.Provider {
	case "", "none", "gemini", "grok":
	default:
		return fmt.Errorf("AI_PROVIDER must be one of none, gemini, grok; got %q", c.AI.Provider)
	}
	if c.Adaptive.LearningRate <= 0 || c.Adaptive.LearningRate >= 1 {
		return fmt.Errorf("ADAPTIVE_LEARNING_RATE must be in (0, 1); got %v", c.Adaptive.LearningRate)
	}
	if c.Adaptive.SampleThreshold < 0 {
		return fmt.Errorf("ADAPTIVE_SAMPLE_THRESHOLD must be non-negative")
	}
	if c.Adaptive.ConfidenceTarget <= 0 {
		return fmt.Errorf("ADAPTIVE_CONFIDENCE_TARGET must be positive")
	}
	return nil
}

func Load() Config {
	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8090),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "trustengine"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "trustengine"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Enabled:       getEnvBool("KAFKA_ENABLED", true),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		AI: AIConfig{
			Provider:     strings.ToLower(getEnv("AI_PROVIDER", "none")),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GrokAPIKey:   getEnv("GROK_API_KEY", ""),
			Timeout:      time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Adaptive: AdaptiveConfig{
			SampleThreshold:  getEnvInt("ADAPTIVE_SAMPLE_THRESHOLD", 10),
			LearningRate:     getEnvFloat("ADAPTIVE_LEARNING_RATE", 0.01),
			ConfidenceTarget: getEnvInt("ADAPTIVE_CONFIDENCE_TARGET", 1000),
			SeedOnStartup:    getEnvBool("ADAPTIVE_SEED_ON_STARTUP", false),
			Seed:             int64(getEnvInt("ADAPTIVE_SEED", 42)),
		},
		DemoMode:    getEnvBool("DEMO_MODE", false),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		ServiceName: "trust-scoring-engine",
	}
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
