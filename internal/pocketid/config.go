// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package pocketid

import (
	"fmt"
	"os"
)

const (
	EnvAPIURL   = "POCKETID_API_URL"
	EnvAPIToken = "POCKETID_API_TOKEN"

	defaultAPIURL = "http://pocket-id.pocket-id.svc"
)

// Config is the connection configuration for a Pocket-ID instance, sourced
// from the process environment. It is re-read for every reconcile attempt so
// a rotated token takes effect without an operator restart.
type Config struct {
	BaseURL string
	Token   string
}

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL: os.Getenv(EnvAPIURL),
		Token:   os.Getenv(EnvAPIToken),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAPIURL
	}
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("%s is required", EnvAPIToken)
	}
	return cfg, nil
}
