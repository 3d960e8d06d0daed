package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names. The secret is the only required knob.
const (
	EnvAddr       = "TASKDESK_ADDR"
	EnvAuthSecret = "TASKDESK_AUTH_SECRET"
	EnvTokenTTL   = "TASKDESK_TOKEN_TTL_SECONDS"
	EnvPGDSN      = "TASKDESK_PG_DSN"
)

const (
	defaultAddr     = ":8080"
	defaultTokenTTL = 3600 * time.Second
)

// Config holds the process configuration, resolved once at startup. The
// signing secret is read-only afterwards; nothing mutates it.
type Config struct {
	Addr       string
	AuthSecret []byte
	TokenTTL   time.Duration
	PGDSN      string
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Addr:     defaultAddr,
		TokenTTL: defaultTokenTTL,
		PGDSN:    strings.TrimSpace(os.Getenv(EnvPGDSN)),
	}

	if addr := strings.TrimSpace(os.Getenv(EnvAddr)); addr != "" {
		cfg.Addr = addr
	}

	secret := strings.TrimSpace(os.Getenv(EnvAuthSecret))
	if secret == "" {
		return Config{}, fmt.Errorf("%s is required", EnvAuthSecret)
	}
	cfg.AuthSecret = []byte(secret)

	if raw := strings.TrimSpace(os.Getenv(EnvTokenTTL)); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTokenTTL, err)
		}
		if seconds <= 0 {
			return Config{}, errors.New(EnvTokenTTL + " must be greater than zero")
		}
		cfg.TokenTTL = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}
