// Package config содержит логику чтения конфигурации клиента Stellar Burgers.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultAPIURL = "https://norma.nomoreparties.space/api"

// Config содержит параметры конфигурации клиента.
type Config struct {
	APIURL         string        `env:"BURGER_API_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	AccessTokenTTL time.Duration `env:"TOKEN_TTL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных
// окружения; переменные окружения имеют приоритет.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIURL := cfg.APIURL
	envTimeout := cfg.RequestTimeout
	envTokenTTL := cfg.AccessTokenTTL

	flag.StringVar(&cfg.APIURL, "a", defaultAPIURL, "burger API base URL")
	flag.DurationVar(&cfg.RequestTimeout, "t", 15*time.Second, "request timeout")
	flag.DurationVar(&cfg.AccessTokenTTL, "l", 20*time.Minute, "access token fallback TTL")

	flag.Parse()

	if envAPIURL != "" {
		cfg.APIURL = envAPIURL
	}
	if envTimeout != 0 {
		cfg.RequestTimeout = envTimeout
	}
	if envTokenTTL != 0 {
		cfg.AccessTokenTTL = envTokenTTL
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}

	return cfg, nil
}
