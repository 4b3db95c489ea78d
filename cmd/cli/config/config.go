package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:5000"

const tokenFileName = ".secureweb_token"

// APIURL returns the base URL for the Secureweb realty API.
// It can be overridden with the SECUREWEB_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("SECUREWEB_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken writes the JWT token to the user's home directory.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// LoadToken reads the stored JWT token. An error means no user is logged in.
func LoadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes the stored token. Removing a token that does not exist is not an error.
func ClearToken() error {
	err := os.Remove(tokenPath())
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
