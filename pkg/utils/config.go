package utils

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	TMDB     TMDBConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type StoreConfig struct {
	// Driver selects the review-store backend: "memory" (default, volatile)
	// or "postgres".
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type TMDBConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

type SessionConfig struct {
	ExpiryHours int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "movie-rating")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)

	// A missing .env is fine; the environment alone can carry everything.
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Store: StoreConfig{
			Driver: viper.GetString("STORE_DRIVER"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		TMDB: TMDBConfig{
			BaseURL:        viper.GetString("TMDB_BASE_URL"),
			APIKey:         viper.GetString("TMDB_API_KEY"),
			TimeoutSeconds: viper.GetInt("TMDB_TIMEOUT_SECONDS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	// The catalog credential is mandatory; without it the process cannot
	// serve movie data at all.
	if config.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY environment variable is required")
	}

	if config.Store.Driver != "memory" && config.Store.Driver != "postgres" {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want memory or postgres)", config.Store.Driver)
	}

	return config, nil
}
