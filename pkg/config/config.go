package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	GigaChat   GigaChatConfig
	Extraction ExtractionConfig
	Retry      RetryConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimitMB  int
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

// ExtractionConfig holds defaults applied during response normalization.
type ExtractionConfig struct {
	DefaultCurrency  string
	BatchConcurrency int
}

// RetryConfig is the bounded-backoff policy for provider calls.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine: environment variables are used directly
	// (useful for Docker/K8s).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "60"))
	bodyLimit, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "16"))
	batchConcurrency, _ := strconv.Atoi(getEnv("EXTRACT_BATCH_CONCURRENCY", "4"))
	maxAttempts, _ := strconv.Atoi(getEnv("LLM_RETRY_MAX_ATTEMPTS", "3"))
	initialMs, _ := strconv.Atoi(getEnv("LLM_RETRY_INITIAL_MS", "500"))
	maxMs, _ := strconv.Atoi(getEnv("LLM_RETRY_MAX_MS", "5000"))
	multiplier, _ := strconv.ParseFloat(getEnv("LLM_RETRY_MULTIPLIER", "2.0"), 64)
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimitMB:  bodyLimit,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		Extraction: ExtractionConfig{
			DefaultCurrency:  getEnv("EXTRACT_DEFAULT_CURRENCY", "MAD"),
			BatchConcurrency: batchConcurrency,
		},
		Retry: RetryConfig{
			MaxAttempts:     maxAttempts,
			InitialInterval: time.Duration(initialMs) * time.Millisecond,
			MaxInterval:     time.Duration(maxMs) * time.Millisecond,
			Multiplier:      multiplier,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
