package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type sanitizer interface {
	Sanitize()
}

// load reads an optional .env file (a missing file is not an error), parses
// environment variables into cfg, and applies cfg's Sanitize.
func load(cfg sanitizer, files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return nil
}
