package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `env:"CAMPBOT_PORT" envDefault:"9000" validate:"required,numeric"`
	DB             string        `env:"CAMPBOT_DB" envDefault:"camp_games" validate:"required"`
	LogLevel       string        `env:"CAMPBOT_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	SessionBackend string        `env:"CAMPBOT_SESSION_BACKEND" envDefault:"memory" validate:"oneof=memory redis"`
	RedisAddr      string        `env:"CAMPBOT_REDIS_ADDR" envDefault:"localhost:6379" validate:"required_if=SessionBackend redis"`
	RedisPassword  string        `env:"CAMPBOT_REDIS_PASSWORD"`
	RedisDB        int           `env:"CAMPBOT_REDIS_DB" envDefault:"0" validate:"gte=0"`
	SessionTTL     time.Duration `env:"CAMPBOT_SESSION_TTL" envDefault:"24h" validate:"gt=0"`
	ModeratorToken string        `env:"CAMPBOT_MODERATOR_TOKEN"`
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
