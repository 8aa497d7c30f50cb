// Package config loads typed application configuration from environment
// variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 behind a
// generic Load/MustLoad pair. The default .env file is loaded once per
// process (missing files are fine), and each configuration struct type is
// parsed at most once and cached for subsequent calls.
//
//	type AuthorityConfig struct {
//		BaseURL string        `env:"AUTHORITY_BASE_URL,required"`
//		Timeout time.Duration `env:"AUTHORITY_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg AuthorityConfig
//	config.MustLoad(&cfg)
package config
