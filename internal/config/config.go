package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	// Redis (change-stream fan-out + contribution ranking)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Server
	Port int `env:"PORT" envDefault:"8080"`

	// Auth
	TokenTTLHours int `env:"TOKEN_TTL_HOURS" envDefault:"24"`
	// Shared key for the token-mint endpoint; the identity provider in
	// front of this service holds it.
	AuthAPIKey string `env:"AUTH_API_KEY,required"`

	// Ops alerting (Telegram)
	AlertBotToken     string `env:"ALERT_BOT_TOKEN"`
	AlertChatID       int64  `env:"ALERT_CHAT_ID"`
	AlertTopicEconomy int    `env:"ALERT_TOPIC_ECONOMY"`
	AlertTopicRoom    int    `env:"ALERT_TOPIC_ROOM"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
