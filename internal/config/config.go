package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Server   Server
	Places   Places
	Hunt     Hunt
	Postgres Postgres
	Redis    Redis
	Watch    Watch
	Bot      Bot
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"reviewhunter"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Bot struct {
	Enabled bool   `env:"BOT_ENABLED" envDefault:"false"`
	Token   string `env:"BOT_TOKEN" json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
