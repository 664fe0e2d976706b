package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Output
	OutputDir string

	// VecLite similarity index
	VecLitePath string

	// Gemini API
	GeminiAPIKey string

	// Groq API (optional fallback provider)
	GroqAPIKey string

	// Ollama (optional local fallback provider)
	OllamaHost  string
	OllamaModel string

	// Logging
	LogLevel string

	// Pipeline settings
	ChapterCooldown time.Duration
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "data/bookforge.db"),
		OutputDir:    getEnv("OUTPUT_DIR", "books"),
		VecLitePath:  getEnv("VECLITE_PATH", "data/chapters.veclite"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		OllamaHost:   normalizeOllamaHost(getEnv("OLLAMA_HOST", "http://localhost:11434")),
		OllamaModel:  getEnv("OLLAMA_MODEL", "llama3.2"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.ChapterCooldown, err = time.ParseDuration(getEnv("CHAPTER_COOLDOWN", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAPTER_COOLDOWN: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForGeneration checks configuration needed for book generation.
// A missing Gemini credential is fatal at startup: the cloud tiers are the
// primary providers and every run starts with them.
func (c *Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for generation")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	return nil
}

// ValidateForSimilarity checks configuration needed for the chapter
// similarity index.
func (c *Config) ValidateForSimilarity() error {
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// normalizeOllamaHost ensures the Ollama host has a proper URL scheme.
// This handles cases where OLLAMA_HOST is set to a bind address like "0.0.0.0"
// (used by Ollama server) instead of a client URL like "http://localhost:11434".
func normalizeOllamaHost(host string) string {
	if host == "" {
		return "http://localhost:11434"
	}

	// If it's just a bind address (0.0.0.0 or similar), use localhost instead
	if host == "0.0.0.0" || host == "0.0.0.0:11434" {
		return "http://localhost:11434"
	}

	// If it doesn't have a scheme, add http://
	if len(host) > 0 && host[0] != 'h' {
		if len(host) < 4 || host[:4] != "http" {
			return "http://" + host
		}
	}

	return host
}
