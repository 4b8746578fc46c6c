package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Search    SearchConfig
	Retrieval RetrievalConfig
	LLM       LLMConfig
	Detect    DetectConfig
	App       AppConfig
}

type ServerConfig struct {
	Port   string
	APIKey string // empty disables the API-key check
}

type DatabaseConfig struct {
	DSN string // empty disables run persistence
}

type RedisConfig struct {
	Addr     string // empty disables the document cache
	Password string
	DB       int
}

type SearchConfig struct {
	GDELTBaseURL string // empty selects the public endpoint
}

type RetrievalConfig struct {
	WeaviateHost   string // empty disables the semantic index
	WeaviateScheme string
}

type LLMConfig struct {
	OpenAIAPIKey string // empty disables the generative summarizer
	Model        string
}

type DetectConfig struct {
	VendorTimeoutSec  int
	OverallTimeoutSec int
	Watchlist         []string // vendors for the scheduled sweep
	SweepSpec         string   // cron spec for the worker
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:   getEnv("PORT", "8080"),
			APIKey: getEnv("API_KEY", ""),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Search: SearchConfig{
			GDELTBaseURL: getEnv("GDELT_BASE_URL", ""),
		},
		Retrieval: RetrievalConfig{
			WeaviateHost:   getEnv("WEAVIATE_HOST", ""),
			WeaviateScheme: getEnv("WEAVIATE_SCHEME", "http"),
		},
		LLM: LLMConfig{
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Detect: DetectConfig{
			VendorTimeoutSec:  getEnvAsInt("VENDOR_TIMEOUT_SEC", 20),
			OverallTimeoutSec: getEnvAsInt("OVERALL_TIMEOUT_SEC", 120),
			Watchlist:         getEnvAsList("WATCHLIST", nil),
			SweepSpec:         getEnv("SWEEP_CRON", "0 0 2 * * *"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Detect.VendorTimeoutSec <= 0 {
		return fmt.Errorf("VENDOR_TIMEOUT_SEC must be positive")
	}
	if c.Detect.OverallTimeoutSec <= c.Detect.VendorTimeoutSec {
		return fmt.Errorf("OVERALL_TIMEOUT_SEC must exceed VENDOR_TIMEOUT_SEC")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
