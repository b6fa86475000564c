package helper

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configuration holds the runtime settings of the resolution pipeline.
type Configuration struct {
	OllamaHost    string
	OllamaModel   string
	Temperature   float64
	OracleTimeout time.Duration

	LayoutURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// TitleCase title-cases surface forms before they are used as registry keys.
	TitleCase bool
	// Workers bounds the number of documents processed in parallel.
	Workers int
}

// DefaultConfiguration returns the configuration used when no environment is set.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		OllamaHost:    "http://localhost:11434",
		OllamaModel:   "llama3.1",
		Temperature:   0,
		OracleTimeout: 2 * time.Minute,
		LayoutURL:     "http://localhost:5060",
		CacheTTL:      7 * 24 * time.Hour,
		Workers:       4,
	}
}

// NewConfiguration reads LEXENT_* environment variables on top of the defaults.
// A .env file in the working directory is loaded first if present.
func NewConfiguration() (*Configuration, error) {
	loadEnvFile()

	config := DefaultConfiguration()
	config.OllamaHost = strings.TrimRight(getenv("LEXENT_OLLAMA_HOST", config.OllamaHost), "/")
	config.OllamaModel = getenv("LEXENT_OLLAMA_MODEL", config.OllamaModel)
	config.LayoutURL = strings.TrimRight(getenv("LEXENT_LAYOUT_URL", config.LayoutURL), "/")
	config.RedisAddr = os.Getenv("LEXENT_REDIS_ADDR")
	config.RedisPassword = os.Getenv("LEXENT_REDIS_PASSWORD")

	var err error
	if config.OracleTimeout, err = getenvDuration("LEXENT_ORACLE_TIMEOUT", config.OracleTimeout); err != nil {
		return nil, err
	}
	if config.CacheTTL, err = getenvDuration("LEXENT_CACHE_TTL", config.CacheTTL); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getenvInt("LEXENT_REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.Workers, err = getenvInt("LEXENT_WORKERS", config.Workers); err != nil {
		return nil, err
	}
	if v := os.Getenv("LEXENT_TITLE_CASE"); v != "" {
		config.TitleCase, err = strconv.ParseBool(v)
		if err != nil {
			return nil, NewError("parse LEXENT_TITLE_CASE", err)
		}
	}
	if config.Workers < 1 {
		return nil, NewError("configuration", fmt.Errorf("LEXENT_WORKERS must be at least 1, got %d", config.Workers))
	}

	return config, nil
}

func loadEnvFile() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewError("parse "+key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, NewError("parse "+key, err)
	}
	return d, nil
}
