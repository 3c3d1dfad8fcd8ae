package config

import (
	"os"
	"strconv"
)

type Config struct {
	Environment string

	// Database
	DatabaseURL string

	// LLM Service (OpenAI compatible)
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Embedding Service (OpenAI compatible)
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Search
	SearchTopK    int
	SearchMaxTopK int

	// File Storage
	StoragePath string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/finsight?sslmode=disable"),

		LLMAPIKey:  getEnv("OPENAI_API_KEY", ""),
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),

		EmbeddingAPIKey:     getEnv("OPENAI_API_KEY", ""),
		EmbeddingBaseURL:    getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),

		SearchTopK:    getEnvInt("SEARCH_TOP_K", 5),
		SearchMaxTopK: getEnvInt("SEARCH_MAX_TOP_K", 50),

		StoragePath: getEnv("STORAGE_PATH", "./storage"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
