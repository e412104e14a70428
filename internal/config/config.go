// Package config loads CLI/process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Env is the environment-derived configuration for the companion CLI and
// for integration harnesses.
type Env struct {
	// BaseURL of the nodb service (NODB_BASE_URL). Required.
	BaseURL string

	// Token is the default credential (NODB_TOKEN). Optional.
	Token string

	// AppName / EnvName scope commands that operate on a single tenant
	// (NODB_APP / NODB_ENV).
	AppName string
	EnvName string
}

// Validate checks that the required variables were present.
func (e Env) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.BaseURL, validation.Required),
	)
}

// Load reads configuration from the process environment. A .env file in
// the working directory is merged in first when present; real environment
// variables win over file entries.
func Load() (*Env, error) {
	// Ignore a missing .env file; it is a convenience, not a requirement.
	_ = godotenv.Load()

	env := &Env{
		BaseURL: os.Getenv("NODB_BASE_URL"),
		Token:   os.Getenv("NODB_TOKEN"),
		AppName: os.Getenv("NODB_APP"),
		EnvName: os.Getenv("NODB_ENV"),
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}
