// Package auth resolves and validates the Gemini API key.
package auth

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// GetAPIKey retrieves the Gemini API key from the environment.
// Deployed environments inject the key via SSM Parameter Store before
// this is called; locally a .env file loaded at startup serves the
// same purpose.
func GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}
	return "", fmt.Errorf("API key not found. Set GEMINI_API_KEY or configure the SSM parameter")
}
