package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	GeminiAPIKey        string
	TranslationModel    string
	MinConfidence       float64
	ContextWindow       int
	MaxRetries          int
	BaseDelay           time.Duration
	InterCallDelay      time.Duration
	WorkerCount         int
	DatabaseURL         string
	Neo4jURI            string
	Neo4jUser           string
	Neo4jPassword       string
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingModel      string
	EmbeddingDimensions int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		TranslationModel:    getEnv("TRANSLATION_MODEL", "gemini-2.5-flash"),
		MinConfidence:       getEnvFloat("MIN_CONFIDENCE", 0.5),
		ContextWindow:       getEnvInt("CONTEXT_WINDOW", 50),
		MaxRetries:          getEnvInt("MAX_RETRIES", 3),
		BaseDelay:           getEnvDuration("BASE_DELAY", time.Second),
		InterCallDelay:      getEnvDuration("INTER_CALL_DELAY", 100*time.Millisecond),
		WorkerCount:         getEnvInt("WORKER_COUNT", 4),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		Neo4jURI:            getEnv("NEO4J_URI", ""),
		Neo4jUser:           getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:       getEnv("NEO4J_PASSWORD", ""),
		EmbeddingAPIKey:     getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingBaseURL:    getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
