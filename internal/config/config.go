// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	DatabasePath  string
	JWTSecretKey  string
	ServiceAPIKey string
	Environment   string

	// AI providers
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingModelName  string
	EmbeddingDimensions int
	LLMAPIKey           string
	LLMBaseURL          string
	LLMModelName        string

	// Vector index
	PineconeAPIKey    string
	PineconeIndexHost string
	PineconeNamespace string

	// Object storage
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	// RAG tuning
	ChunkSize         int
	ChunkOverlap      int
	RetrievalTopK     int
	ContextCharBudget int
	HistoryWindow     int
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "docutalk.db"),
		JWTSecretKey:  getEnv("JWT_SECRET_KEY", ""),
		ServiceAPIKey: getEnv("SERVICE_API_KEY", ""),
		Environment:   env,

		EmbeddingAPIKey: getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", ""),
		// IMPORTANT: the model and dimensions must match the vectors
		// already stored in the index.
		EmbeddingModelName:  getEnv("EMBEDDING_MODEL_NAME", "text-embedding-004"),
		EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMBaseURL:          getEnv("LLM_BASE_URL", ""),
		LLMModelName:        getEnv("LLM_MODEL_NAME", "gemini-2.0-flash"),

		PineconeAPIKey:    getEnv("PINECONE_API_KEY", ""),
		PineconeIndexHost: getEnv("PINECONE_INDEX_HOST", ""),
		PineconeNamespace: getEnv("PINECONE_NAMESPACE", "pdfrag"),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "documents"),
		StorageUseSSL:    getEnvAsBool("STORAGE_USE_SSL", false),

		ChunkSize:         getEnvAsInt("CHUNK_SIZE", 500),
		ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 100),
		RetrievalTopK:     getEnvAsInt("RAG_TOPK", 5),
		ContextCharBudget: getEnvAsInt("RAG_CONTEXT_CHAR_BUDGET", 6000),
		HistoryWindow:     getEnvAsInt("RAG_HISTORY_WINDOW", 8),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.ServiceAPIKey == "" {
			missing = append(missing, "SERVICE_API_KEY")
		}
		if cfg.EmbeddingAPIKey == "" {
			missing = append(missing, "EMBEDDING_API_KEY")
		}
		if cfg.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if cfg.PineconeAPIKey == "" {
			missing = append(missing, "PINECONE_API_KEY")
		}
		if cfg.PineconeIndexHost == "" {
			missing = append(missing, "PINECONE_INDEX_HOST")
		}
		if cfg.StorageAccessKey == "" {
			missing = append(missing, "STORAGE_ACCESS_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return boolValue
}
