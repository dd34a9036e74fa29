// Package config loads and validates the application configuration from
// environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port    string
	Address string
	Env     string

	LogLevel          string
	LogRetentionWeeks int
	MaxLogFileSize    int64

	// MaxRequestBody must leave room for a base64 data URL of a cropped
	// photo, roughly 4/3 of the bitmap size.
	MaxRequestBody int64
	MaxHeaderSize  int64

	DatasetPath string
	OCRLanguage string

	OpenAIKey   string
	OpenAIModel string

	MaxResults      int
	MaxAlternatives int
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8000"),
		Address:           getEnv("ADDRESS", "127.0.0.1"),
		Env:               getEnv("ENV", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnv("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    getInt64Env("MAX_LOG_FILE_SIZE", 104857600), // 100MB
		MaxRequestBody:    getInt64Env("MAX_REQUEST_BODY", 12*1024*1024),
		MaxHeaderSize:     getInt64Env("MAX_HEADER_SIZE", 1048576),
		DatasetPath:       getEnv("DATASET_PATH", "medicine_data_cleaned.json"),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MaxResults:        getIntEnv("MAX_RESULTS", 5),
		MaxAlternatives:   getIntEnv("MAX_ALTERNATIVES", 3),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}
	if err := validateOneOf("ENV", cfg.Env, []string{"dev", "staging", "prod", "test"}); err != nil {
		return err
	}
	if err := validateOneOf("LOG_LEVEL", cfg.LogLevel, []string{"debug", "info", "warn", "error"}); err != nil {
		return err
	}
	if cfg.MaxRequestBody <= 0 || cfg.MaxRequestBody > 100*1024*1024 {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: must be in (0, 100MB], got %d", cfg.MaxRequestBody)
	}
	if cfg.MaxHeaderSize <= 0 || cfg.MaxHeaderSize > 10*1024*1024 {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: must be in (0, 10MB], got %d", cfg.MaxHeaderSize)
	}
	if cfg.LogRetentionWeeks <= 0 || cfg.LogRetentionWeeks > 52 {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: must be in [1, 52], got %d", cfg.LogRetentionWeeks)
	}
	if cfg.MaxLogFileSize < 1024*1024 || cfg.MaxLogFileSize > 1024*1024*1024 {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: must be in [1MB, 1GB], got %d", cfg.MaxLogFileSize)
	}
	if strings.TrimSpace(cfg.DatasetPath) == "" {
		return fmt.Errorf("invalid DATASET_PATH: cannot be empty")
	}
	if strings.TrimSpace(cfg.OCRLanguage) == "" {
		return fmt.Errorf("invalid OCR_LANGUAGE: cannot be empty")
	}
	if cfg.MaxResults < 1 || cfg.MaxResults > 50 {
		return fmt.Errorf("invalid MAX_RESULTS: must be in [1, 50], got %d", cfg.MaxResults)
	}
	if cfg.MaxAlternatives < 0 || cfg.MaxAlternatives > 10 {
		return fmt.Errorf("invalid MAX_ALTERNATIVES: must be in [0, 10], got %d", cfg.MaxAlternatives)
	}
	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if portNum < 1024 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1024 and 65535, got %d", portNum)
	}
	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}
	if address == "localhost" {
		return nil
	}
	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}
	return nil
}

func validateOneOf(name, value string, valid []string) error {
	value = strings.ToLower(value)
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: must be one of %v, got: %s", name, valid, value)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
