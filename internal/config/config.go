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
	Database DatabaseConfig
	Ai       AIConfig
	Search   SearchConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "huggingface"
	LLMModel      string
	LLMAPIKey     string
	OllamaBaseURL string
	LLMTimeout    time.Duration
	// HistoryWindow caps how many prior turns are sent to the model.
	HistoryWindow int
}

type SearchConfig struct {
	Provider     string // "google", "serper" or "brave"
	GoogleAPIKey string
	GoogleCSEID  string
	SerperAPIKey string
	BraveAPIKey  string
	TopK         int
	CacheTTL     time.Duration
	Timeout      time.Duration
}

type AuthConfig struct {
	JwtSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "phi3"),
			LLMAPIKey:     getEnv("LLM_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			HistoryWindow: getEnvAsInt("LLM_HISTORY_WINDOW", 20),
		},
		Search: SearchConfig{
			Provider:     strings.ToLower(getEnv("SEARCH_PROVIDER", "google")),
			GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
			GoogleCSEID:  getEnv("GOOGLE_CSE_ID", ""),
			SerperAPIKey: getEnv("SERPER_API_KEY", ""),
			BraveAPIKey:  getEnv("BRAVE_API_KEY", ""),
			TopK:         getEnvAsInt("SEARCH_TOP_K", 5),
			CacheTTL:     getEnvAsDuration("SEARCH_CACHE_TTL", 10*time.Minute),
			Timeout:      getEnvAsDuration("SEARCH_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
