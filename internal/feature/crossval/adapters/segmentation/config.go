// Package segmentation provides a client for an external segmentation detector service.
package segmentation

import (
	"os"
	"time"
)

// Config holds configuration for the segmentation service client.
type Config struct {
	APIKey  string        // API key for authentication (optional)
	BaseURL string        // Base URL of the segmentation service (e.g., "http://segmentation:9000")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads segmentation service configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("SEGMENTATION_API_KEY"),
		BaseURL: os.Getenv("SEGMENTATION_API_URL"),
		Timeout: 120 * time.Second,
	}
}
