// Package config loads credentials from the environment and tunable pipeline
// policy from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Credentials holds the secrets required to reach the external services.
type Credentials struct {
	SpotifyClientID     string `validate:"required"`
	SpotifyClientSecret string `validate:"required"`
	OpenAIAPIKey        string `validate:"required"`
}

// LoadEnv loads variables from a .env file when one is present. A missing
// file is not an error; the variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// GetCredentials reads the required secrets from the environment and fails
// fast when any of them is missing.
func GetCredentials() (*Credentials, error) {
	creds := &Credentials{
		SpotifyClientID:     strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_ID")),
		SpotifyClientSecret: strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_SECRET")),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}

	if err := validator.New().Struct(creds); err != nil {
		return nil, fmt.Errorf("missing credentials: set SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and OPENAI_API_KEY in environment or .env file: %w", err)
	}

	if !strings.HasPrefix(creds.OpenAIAPIKey, "sk-") {
		return nil, fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}

	return creds, nil
}
