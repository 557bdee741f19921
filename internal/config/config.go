package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds all runtime settings, loaded from TENNISCLUB_* environment
// variables. Defaults target local development against a backend on :8090.
type App struct {
	// Network
	Addr       string `envconfig:"ADDR" default:":8080"`
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8090"`

	// Environment: "development" or "production"
	Env string `envconfig:"ENV" default:"development"`

	// Session persistence
	SessionDBPath string `envconfig:"SESSION_DB" default:"tennisclub.db"`

	// CSRF secret, 64 hex characters (32 bytes). Required in production.
	CSRFKey string `envconfig:"CSRF_KEY"`

	// Email (Resend). Empty key disables delivery.
	ResendKey  string `envconfig:"RESEND_KEY"`
	EmailFrom  string `envconfig:"EMAIL_FROM" default:"TennisClub <noreply@tennisclub.local>"`
	EmailReply string `envconfig:"EMAIL_REPLY_TO" default:"contato@tennisclub.local"`
}

// Load reads the configuration from the environment.
func Load() (App, error) {
	var c App
	err := envconfig.Process("TENNISCLUB", &c)
	return c, err
}

// IsProduction reports whether the app runs with production hardening.
func (c App) IsProduction() bool {
	return c.Env == "production"
}
