// Package config loads sharebook settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server is the configuration of cmd/server.
type Server struct {
	Addr            string        `env:"SHAREBOOK_ADDR" envDefault:":8080"`
	DBPath          string        `env:"SHAREBOOK_DB_PATH" envDefault:"./data/sharebook.db"`
	JWTSecret       string        `env:"SHAREBOOK_JWT_SECRET,required,notEmpty"`
	TokenTTL        time.Duration `env:"SHAREBOOK_TOKEN_TTL" envDefault:"720h"`
	InternalDomains []string      `env:"SHAREBOOK_INTERNAL_DOMAINS" envSeparator:","`
	Locale          string        `env:"SHAREBOOK_LOCALE" envDefault:"en"`

	// NotifySchedule is the cron schedule of share notification delivery.
	NotifySchedule string `env:"SHAREBOOK_NOTIFY_SCHEDULE" envDefault:"@every 1m"`

	Log Log
}

// Client is the configuration of cmd/sharectl.
type Client struct {
	ServerURL string `env:"SHAREBOOK_SERVER_URL" envDefault:"http://localhost:8080"`
	Token     string `env:"SHAREBOOK_TOKEN"`
	Locale    string `env:"SHAREBOOK_LOCALE" envDefault:"en"`

	Log Log
}

// Log selects the log handler.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadServer reads the server configuration.
func LoadServer() (Server, error) {
	var cfg Server
	if err := parse(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// LoadClient reads the client configuration.
func LoadClient() (Client, error) {
	var cfg Client
	if err := parse(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

func parse(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
