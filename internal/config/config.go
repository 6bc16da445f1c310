// Package config loads the preview service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the preview service settings.
type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	// PreviewWidth and PreviewHeight size the PNG preview in pixels.
	PreviewWidth  int
	PreviewHeight int
	// ElevationWidth is the elevation drawing width in inches.
	ElevationWidth int
	// Textures enables the procedural wood grain texture.
	Textures bool
}

// Load reads the configuration from environment variables, falling back
// to defaults for unset or malformed values.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		PreviewWidth:   getEnvAsInt("PREVIEW_WIDTH", 960),
		PreviewHeight:  getEnvAsInt("PREVIEW_HEIGHT", 540),
		ElevationWidth: getEnvAsInt("ELEVATION_WIDTH", 8),
		Textures:       getEnvAsBool("TEXTURES", true),
	}
}

// Production reports whether the service runs in production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
