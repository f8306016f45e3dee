package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TranscriptsDir  string
	DataDir         string
	TemplatesDir    string
	StrategiesFile  string
	OllamaBaseURL   string
	OllamaModel     string
	Temperature     float64
	TypefullyAPIKey string
	SlackToken      string
	SlackChannel    string
	DiversityWeight float64
	PostsPerDoc     int
}

// LoadConfig loads configuration from environment variables.
// It first tries to load from .env file, then falls back to system environment variables.
func LoadConfig() *Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
	}

	return &Config{
		TranscriptsDir:  getEnv("TRANSCRIPTS_DIR", "transcripts"),
		DataDir:         getEnv("POSTFORGE_DATA_DIR", "data"),
		TemplatesDir:    getEnv("TEMPLATES_DIR", "templates"),
		StrategiesFile:  getEnv("STRATEGIES_FILE", filepath.Join("templates", "strategies.yaml")),
		OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.1"),
		Temperature:     getEnvFloat("OLLAMA_TEMPERATURE", 0.8),
		TypefullyAPIKey: getEnv("TYPEFULLY_API_KEY", ""),
		SlackToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannel:    getEnv("SLACK_CHANNEL", ""),
		DiversityWeight: getEnvFloat("DIVERSITY_WEIGHT", 0.7),
		PostsPerDoc:     getEnvInt("POSTS_PER_TRANSCRIPT", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %v", key, value, defaultValue)
		return defaultValue
	}
	return f
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %v", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func (c *Config) Validate() error {
	if c.TranscriptsDir == "" {
		return fmt.Errorf("TRANSCRIPTS_DIR is required")
	}
	if c.OllamaBaseURL == "" {
		return fmt.Errorf("OLLAMA_BASE_URL is required")
	}
	if c.OllamaModel == "" {
		return fmt.Errorf("OLLAMA_MODEL is required")
	}
	if c.DiversityWeight < 0 || c.DiversityWeight > 1 {
		return fmt.Errorf("DIVERSITY_WEIGHT must be between 0 and 1, got %v", c.DiversityWeight)
	}
	if c.PostsPerDoc < 1 {
		return fmt.Errorf("POSTS_PER_TRANSCRIPT must be at least 1, got %d", c.PostsPerDoc)
	}
	return nil
}

// PostsPath is the location of the post store file.
func (c *Config) PostsPath() string {
	return filepath.Join(c.DataDir, "posts.jsonl")
}

// ProcessedPath is the location of the processed-file state blob.
func (c *Config) ProcessedPath() string {
	return filepath.Join(c.DataDir, "processed_files.json")
}
