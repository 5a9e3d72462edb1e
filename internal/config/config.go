package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	DatabasePath  string
	UploadDir     string
	SessionSecret string
	SessionTTL    time.Duration
	MaxUploadMB   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// MaxUploadBytes returns the request body limit in bytes.
func (c Config) MaxUploadBytes() int {
	return c.MaxUploadMB * 1024 * 1024
}

// Load reads configuration values from environment variables and an optional
// .env file. The session secret has no default; refusing to boot without one
// keeps the dev fallback key out of production.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PULSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PublicPulse API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.path", "publicpulse.db")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_mb", 16)
	v.SetDefault("session.ttl", "12h")

	ttlString := v.GetString("session.ttl")
	if ttlString == "" {
		ttlString = "12h"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       v.GetString("app.port"),
		DatabasePath:  v.GetString("database.path"),
		UploadDir:     v.GetString("upload.dir"),
		SessionSecret: v.GetString("session.secret"),
		SessionTTL:    ttl,
		MaxUploadMB:   v.GetInt("upload.max_mb"),
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("session secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 16
	}

	return cfg, nil
}
