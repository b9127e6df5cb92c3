package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del proceso.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseDSN  string `env:"DB_DSN"`
	JWTSecret    string `env:"JWT_SECRET"`
	AuthBaseURL  string `env:"AUTH_BASE_URL"`
	RateLimitRPS int    `env:"RATE_LIMIT_RPS" envDefault:"0"` // 0 = deshabilitado
}

// Load lee la configuración desde variables de entorno.
// El .env es opcional (solo para desarrollo local).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
