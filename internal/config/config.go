package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string
	CORSOrigin  string

	// Database
	DatabaseURL string

	// Sessions
	SessionDuration time.Duration

	// Account lockout
	LockThreshold int
	LockDuration  time.Duration

	// Login rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration
	RedisURL        string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AI companion
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Sentiment analysis
	OllamaBaseURL        string
	OllamaSentimentModel string

	// Uploads
	UploadDir      string
	UploadMaxBytes int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigin:           getEnv("CORS_ORIGIN", "*"),
		DatabaseURL:          getEnv("DATABASE_URL", "moodjournal.db"),
		SessionDuration:      time.Duration(getEnvInt("SESSION_DURATION_HOURS", 30*24)) * time.Hour,
		LockThreshold:        getEnvInt("LOCK_THRESHOLD", 5),
		LockDuration:         time.Duration(getEnvInt("LOCK_DURATION_MINUTES", 15)) * time.Minute,
		LoginRateLimit:       getEnvInt("LOGIN_RATE_LIMIT", 50),
		LoginRateWindow:      time.Duration(getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second,
		RedisURL:             getEnv("REDIS_URL", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:    getEnv("GOOGLE_REDIRECT_URL", ""),
		GroqAPIKey:           getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:          getEnv("GROQ_BASE_URL", ""),
		GroqModel:            getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", ""),
		OllamaSentimentModel: getEnv("OLLAMA_SENTIMENT_MODEL", "gemma3:1b"),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes:       int64(getEnvInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode; session
// cookies are marked Secure only then.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
