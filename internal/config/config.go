package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// insecureDevSecret is the signing secret substituted in dev mode when no
// secret is configured. It must never be used outside local development,
// which is why an unset secret is a startup failure unless dev mode is
// explicitly enabled.
const insecureDevSecret = "super-secret-key"

type Config struct {
	Addr            string        `env:"NEWSBRIEF_ADDR"`
	Port            string        `env:"PORT"`
	Env             string        `env:"NEWSBRIEF_ENV" envDefault:"development"`
	DBPath          string        `env:"NEWSBRIEF_DB" envDefault:"newsbrief.db"`
	JWTSecret       string        `env:"NEWSBRIEF_JWT_SECRET"`
	DevMode         bool          `env:"NEWSBRIEF_DEV_MODE"`
	TokenTTL        time.Duration `env:"NEWSBRIEF_TOKEN_TTL" envDefault:"1h"`
	CacheTTL        time.Duration `env:"NEWSBRIEF_CACHE_TTL" envDefault:"10m"`
	NewsAPIKey      string        `env:"NEWS_API_KEY"`
	NewsAPIURL      string        `env:"NEWS_API_URL" envDefault:"https://newsapi.org/v2/everything"`
	UpstreamTimeout time.Duration `env:"NEWSBRIEF_UPSTREAM_TIMEOUT" envDefault:"10s"`
	RateLimits      RateLimits
}

type RateLimits struct {
	SignupPerMinute int `env:"NEWSBRIEF_RL_SIGNUP_PER_MIN" envDefault:"10"`
	LoginPerMinute  int `env:"NEWSBRIEF_RL_LOGIN_PER_MIN" envDefault:"30"`
}

// ErrMissingSecret is returned when no signing secret is configured and dev
// mode is not enabled.
var ErrMissingSecret = errors.New("NEWSBRIEF_JWT_SECRET is required (set NEWSBRIEF_DEV_MODE=true to run with an insecure development secret)")

// Load reads configuration from the environment.
//
// UsedDevSecret reports whether the caller should warn that the insecure
// development secret is in effect.
func Load() (Config, bool, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, false, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Addr == "" {
		if cfg.Port != "" {
			cfg.Addr = ":" + cfg.Port
		} else {
			cfg.Addr = ":8080"
		}
	}

	usedDevSecret := false
	if cfg.JWTSecret == "" {
		if !cfg.DevMode {
			return Config{}, false, ErrMissingSecret
		}
		cfg.JWTSecret = insecureDevSecret
		usedDevSecret = true
	}

	return cfg, usedDevSecret, nil
}
