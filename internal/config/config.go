package config

import "github.com/caarlos0/env/v11"

// Config holds all runtime settings, supplied through the environment.
type Config struct {
	Address       string `env:"ADDRESS" envDefault:":8080"`
	DatabaseDSN   string `env:"DATABASE_DSN" envDefault:"connectapp.db"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"devsessionsecret"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	ReadTimeout   int    `env:"READ_TIMEOUT" envDefault:"15"`
	WriteTimeout  int    `env:"WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeout   int    `env:"IDLE_TIMEOUT" envDefault:"60"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}
