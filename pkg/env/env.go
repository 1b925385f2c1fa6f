// Package env reads configuration from environment variables with fallbacks.
// It supports both .env files (development) and Docker secrets (production).
package env

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const dockerSecretsPath = "/run/secrets"

// GetString retrieves an environment variable value.
// It first checks standard environment variables, then Docker secrets if not found.
func GetString(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if exists {
		return value
	}

	secretValue, err := readDockerSecret(key)
	if err == nil && secretValue != "" {
		return secretValue
	}

	return defaultValue
}

// readDockerSecret attempts to read a secret from Docker Swarm secrets.
// Secrets are stored as files under /run/secrets named after the key.
func readDockerSecret(key string) (string, error) {
	secretPath := filepath.Join(dockerSecretsPath, key)

	data, err := os.ReadFile(secretPath)
	if err != nil {
		return "", err
	}

	// Trim any trailing whitespace/newlines that might be in the secret file
	return strings.TrimSpace(string(data)), nil
}

func GetInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		panic(err)
	}

	return intValue
}

func GetBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		panic(err)
	}

	return boolValue
}
