package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime settings, populated from environment variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTP        HTTPServer
	Database    Database `envPrefix:"DB_"`
	JWTSecret   string   `env:"JWT_SECRET"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	MediaRoot   string   `env:"MEDIA_ROOT" envDefault:"./media"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`
}

type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Name     string `env:"NAME" envDefault:"tourportal"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// DSN builds the postgres connection string.
func (d Database) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
