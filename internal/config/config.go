package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string        `env:"ADDR" envDefault:":8080"`
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	CountdownDelay time.Duration `env:"COUNTDOWN_DELAY" envDefault:"3s"`
	HeartbeatTTL   time.Duration `env:"HEARTBEAT_TTL" envDefault:"45s"`
	RosterSize     int           `env:"ROSTER_SIZE" envDefault:"14"`
	MinBid         int           `env:"MIN_BID" envDefault:"1"`
	DevLog         bool          `env:"DEV_LOG" envDefault:"false"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
