package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Keys     APIKeys
	Ai       AIConfig
	Retry    RetryConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type APIKeys struct {
	Exa          string
	GoogleGemini string
}

type AIConfig struct {
	SearchBaseURL string
	LLMProvider   string // "gemini" or "ollama"
	LLMModel      string
	Temperature   float64
	MaxTokens     int // 0 keeps the provider default
	OllamaBaseURL string
	ImageModel    string
	ImageSize     string
}

// RetryConfig holds the backoff policy per upstream provider.
type RetryConfig struct {
	SearchMaxRetries     int
	SearchInitialDelay   time.Duration
	CompletionMaxRetries int
	CompletionDelay      time.Duration
	ImageMaxRetries      int
	ImageInitialDelay    time.Duration
}

type PipelineConfig struct {
	Timeout     time.Duration
	DefaultCity string
}

type StorageConfig struct {
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// Enabled reports whether generated images should be published to object storage.
func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != ""
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.json"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Keys: APIKeys{
			Exa:          getEnv("EXA_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			SearchBaseURL: getEnv("EXA_BASE_URL", "https://api.exa.ai"),
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:      getEnv("LLM_MODEL", "gemini-2.5-flash"),
			Temperature:   getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 0),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ImageModel:    getEnv("IMAGE_MODEL", "imagen-3.0-generate-002"),
			ImageSize:     getEnv("IMAGE_SIZE", "512x512"),
		},
		Retry: RetryConfig{
			SearchMaxRetries:     getEnvAsInt("SEARCH_MAX_RETRIES", 3),
			SearchInitialDelay:   getEnvAsDuration("SEARCH_RETRY_DELAY", time.Second),
			CompletionMaxRetries: getEnvAsInt("COMPLETION_MAX_RETRIES", 3),
			CompletionDelay:      getEnvAsDuration("COMPLETION_RETRY_DELAY", time.Second),
			ImageMaxRetries:      getEnvAsInt("IMAGE_MAX_RETRIES", 5),
			ImageInitialDelay:    getEnvAsDuration("IMAGE_RETRY_DELAY", time.Second),
		},
		Pipeline: PipelineConfig{
			Timeout:     getEnvAsDuration("PIPELINE_TIMEOUT", 60*time.Second),
			DefaultCity: getEnv("DEFAULT_CITY", "New York"),
		},
		Storage: StorageConfig{
			Endpoint:   getEnv("S3_ENDPOINT", ""),
			Region:     getEnv("S3_REGION", "us-east-1"),
			AccessKey:  getEnv("S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("S3_SECRET_KEY", ""),
			Bucket:     getEnv("S3_BUCKET", "generated-images"),
			UseSSL:     getEnvAsBool("S3_USE_SSL", false),
			PresignTTL: getEnvAsDuration("S3_PRESIGN_TTL", 24*time.Hour),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "citystyle-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1500ms") or plain milliseconds ("1500").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
