package config

import "os"

const (
	EnvAppBasePath = "PROMPTBASE_APP_BASE_PATH"
	EnvAppTitle    = "PROMPTBASE_APP_TITLE"
)

// AppConfig holds settings for the server-rendered library page.
type AppConfig struct {
	BasePath string `toml:"base_path"`
	Title    string `toml:"title"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AppConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/app"
	}
	if c.Title == "" {
		c.Title = "Prompt Library"
	}

	if v := os.Getenv(EnvAppBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAppTitle); v != "" {
		c.Title = v
	}

	return validateBasePath(c.BasePath)
}

// Merge overwrites non-zero fields from overlay.
func (c *AppConfig) Merge(overlay *AppConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
}
