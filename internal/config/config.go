package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds startup configuration for the autograding service. The
// grading backend values only seed the mutable settings holder; the user can
// change them at runtime through the settings endpoint.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	AIProvider    string
	APIKey        string
	BaseURL       string
	ModelName     string
	DefaultRubric string
	MaxUploadMB   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AUTOGRADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Autograding API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("max_upload_mb", 20)

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       v.GetString("app.port"),
		AIProvider:    strings.ToLower(v.GetString("ai.provider")),
		APIKey:        v.GetString("ai.api_key"),
		BaseURL:       v.GetString("ai.base_url"),
		ModelName:     v.GetString("ai.model"),
		DefaultRubric: v.GetString("rubric"),
		MaxUploadMB:   v.GetInt("max_upload_mb"),
	}

	if cfg.AIProvider != "gemini" && cfg.AIProvider != "custom" {
		return Config{}, fmt.Errorf("unknown ai provider %q", cfg.AIProvider)
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}

	return cfg, nil
}
