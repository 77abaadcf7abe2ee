package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	JWTExpiration time.Duration
	Port          int

	// cohere (embeddings)
	CohereAPIKey         string
	CohereBaseURL        string
	CohereEmbeddingModel string
	EmbeddingDim         int

	// groq (answer generation, OpenAI-compatible API)
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string
	Temperature float64
	MaxTokens   int

	// rag config
	ChunkSize      int
	ChunkOverlap   int
	TopKResults    int
	MaxUploadFiles int
}

func Load() *Config {
	godotenv.Load()
	jwtExp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "168h"))
	if err != nil {
		jwtExp = 168 * time.Hour
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: jwtExp,
		Port:          port,

		// Cohere
		CohereAPIKey:         getEnv("COHERE_API_KEY", ""),
		CohereBaseURL:        getEnv("COHERE_BASE_URL", "https://api.cohere.com/v1"),
		CohereEmbeddingModel: getEnv("COHERE_EMBEDDING_MODEL", "embed-english-v3.0"),
		EmbeddingDim:         getEnvInt("EMBEDDING_DIM", 1024),

		// Groq
		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("GROQ_CHAT_MODEL", "llama-3.3-70b-versatile"),
		Temperature: getEnvFloat("CHAT_TEMPERATURE", 0.3),
		MaxTokens:   getEnvInt("CHAT_MAX_TOKENS", 700),

		// RAG Config
		ChunkSize:      getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 200),
		TopKResults:    getEnvInt("TOP_K_RESULTS", 4),
		MaxUploadFiles: getEnvInt("MAX_UPLOAD_FILES", 4),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
