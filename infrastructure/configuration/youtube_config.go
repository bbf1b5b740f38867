package configuration

import (
	"encoding/json"
	"os"
	"strings"
)

// YouTubeConfig is the resolved default YouTube credential.
type YouTubeConfig struct {
	APIKey            string
	ClientID          string
	ClientSecret      string
	AccessToken       string
	RefreshToken      string
	RequestsPerSecond float64
}

// HasCredential reports whether any credential is available.
func (c *YouTubeConfig) HasCredential() bool {
	return c.APIKey != "" || c.AccessToken != "" || c.RefreshToken != ""
}

// HasToken reports whether an OAuth token is available in place of an API key.
func (c *YouTubeConfig) HasToken() bool {
	return c.AccessToken != "" || c.RefreshToken != ""
}

// GetYouTubeConfig returns YouTube configuration from JSON config with environment variable fallback
func GetYouTubeConfig() *YouTubeConfig {
	config := &YouTubeConfig{
		APIKey:            getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		ClientID:          getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", ""),
		ClientSecret:      getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", ""),
		AccessToken:       getConfigValue(C.YouTube.AccessToken, "YOUTUBE_ACCESS_TOKEN", ""),
		RefreshToken:      getConfigValue(C.YouTube.RefreshToken, "YOUTUBE_REFRESH_TOKEN", ""),
		RequestsPerSecond: C.YouTube.RequestsPerSecond,
	}

	// Fallback: without an API key, read token.json written by an earlier OAuth consent
	if config.APIKey == "" && (config.AccessToken == "" || config.RefreshToken == "") {
		if data, err := os.ReadFile("token.json"); err == nil {
			var tokenFile struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			}
			if jsonErr := json.Unmarshal(data, &tokenFile); jsonErr == nil {
				if config.AccessToken == "" {
					config.AccessToken = tokenFile.AccessToken
				}
				if config.RefreshToken == "" {
					config.RefreshToken = tokenFile.RefreshToken
				}
			}
		}
	}
	return config
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	// Environment variable takes precedence when provided
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Otherwise use config value if set and not a placeholder
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
