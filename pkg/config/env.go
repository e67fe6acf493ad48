package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// DevelopmentSecretKey is used to sign tokens when AUTHD_SECRET_KEY is not
// set. Only suitable for local development; the server logs a warning when
// it is in effect.
const DevelopmentSecretKey = "development-secret-key-change-in-production"

// Runtime holds the process-level settings read from the environment.
// Application behavior settings live in Config; these cover where the
// process listens and what it connects to.
type Runtime struct {
	DatabaseURL string `env:"DATABASE_URL"`
	BindAddress string `env:"BIND_ADDRESS" envDefault:"0.0.0.0"`
	Port        string `env:"PORT" envDefault:"8000"`
	SecretKey   string `env:"AUTHD_SECRET_KEY"`
	LogLevel    string `env:"AUTHD_LOG_LEVEL" envDefault:"info"`
}

// LoadRuntime parses the runtime settings from environment variables.
func LoadRuntime() (*Runtime, error) {
	rt := &Runtime{}
	if err := env.Parse(rt); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return rt, nil
}

// SecretKeyBytes returns the token-signing secret and whether the
// development default is in effect.
func (r *Runtime) SecretKeyBytes() (secret []byte, isDevelopmentDefault bool) {
	if r.SecretKey == "" {
		return []byte(DevelopmentSecretKey), true
	}
	return []byte(r.SecretKey), false
}

// Addr returns the host:port the server binds to.
func (r *Runtime) Addr() string {
	return r.BindAddress + ":" + r.Port
}
