package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M" for 100
	// requests per minute per client IP.
	RateLimit string

	// AllowedOrigins is the CORS allow-list; "*" allows every origin.
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:   viper.GetString("PGSQL_URL"),
		Port:          viper.GetString("PORT"),
		IsProduction:  viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck: viper.GetBool("ENABLE_DB_CHECK"),
		RateLimit:     viper.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	origins := viper.GetString("ALLOWED_ORIGINS")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}
