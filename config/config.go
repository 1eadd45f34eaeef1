package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string
	HTTPPort     string
	HTTPSPort    string
	Domains      []string
	CertCacheDir string
	LogDir       string

	DatabaseURL string

	GroqAPIKey string
	LLMModel   string

	OpenAIAPIKey        string
	EmbeddingModel      string
	EmbeddingDimensions int

	DataDir string

	ChunkSize int
	Overlap   int
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		HTTPPort:     getEnv("HTTP_PORT", "8086"),
		HTTPSPort:    getEnv("HTTPS_PORT", "443"),
		Domains:      []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir: getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),
		LogDir:       getEnv("LOG_DIR", "logs"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GroqAPIKey: getEnv("GROQ_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "llama-3.1-8b-instant"),

		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),

		DataDir: getEnv("DATA_DIR", "."),

		ChunkSize: getEnvAsInt("CHUNK_SIZE", 800),
		Overlap:   getEnvAsInt("CHUNK_OVERLAP", 100),
	}
}

// Stage directories. Each pipeline stage reads one of these and writes the
// next; existence of an output file is the stage's commit marker.
func (c Config) InputDir() string     { return filepath.Join(c.DataDir, "new_pdfs") }
func (c Config) ExtractedDir() string { return filepath.Join(c.DataDir, "extracted_text") }
func (c Config) CleanDir() string     { return filepath.Join(c.DataDir, "clean_text") }
func (c Config) ChunksDir() string    { return filepath.Join(c.DataDir, "chunks") }
func (c Config) SchemesDir() string   { return filepath.Join(c.DataDir, "knowledge_base", "schemes") }
func (c Config) RawOutputsDir() string {
	return filepath.Join(c.DataDir, "knowledge_base", "raw_llm_outputs")
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
