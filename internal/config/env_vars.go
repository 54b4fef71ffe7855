package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	baseURLVar     = "BREWGATE_BASE_URL"
	timeoutVar     = "BREWGATE_TIMEOUT"
	stateDirVar    = "BREWGATE_STATE_DIR"
	appNameVar     = "APP_NAME"
	defaultBaseURL = "http://16.184.16.198:61234"
)

// defaultRequestTimeout matches the console's client-wide request timeout.
const defaultRequestTimeout = 10 * time.Second

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Brewgate Seller Console")
}

// GetBaseURL returns the backend base URL (e.g. "https://api.example.com").
// All gateway requests are resolved against it.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, defaultBaseURL)
}

func (EnvVars) GetRequestTimeout() time.Duration {
	raw := GetEnv(timeoutVar, "")
	if raw == "" {
		return defaultRequestTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultRequestTimeout
	}
	return d
}

// GetStateDir returns the directory holding the persisted session
// credential file.
func (EnvVars) GetStateDir() string {
	if dir := os.Getenv(stateDirVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brewgate"
	}
	return filepath.Join(home, ".brewgate")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
