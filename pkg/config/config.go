package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DatabaseURL          string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIChatModel      string
	OpenAIEmbeddingModel string
	GeminiAPIKey         string
	OllamaBaseURL        string
	OllamaModel          string
	AIProvider           string
	ChromaURL            string
	ChromaCollection     string
	RetrievalTopK        int
	DigestBatchSize      int
	DigestTTL            time.Duration
	SettingsFile         string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	digestTTL := 5 * time.Minute
	if ttl := os.Getenv("DIGEST_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			digestTTL = parsed
		}
	}

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:          getEnv("OLLAMA_MODEL", "llama3"),
		AIProvider:           getEnv("AI_PROVIDER", "auto"),
		ChromaURL:            getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaCollection:     getEnv("CHROMA_COLLECTION", "emails"),
		RetrievalTopK:        getEnvInt("RETRIEVAL_TOP_K", 5),
		DigestBatchSize:      getEnvInt("DIGEST_BATCH_SIZE", 20),
		DigestTTL:            digestTTL,
		SettingsFile:         getEnv("SETTINGS_FILE", "settings.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
