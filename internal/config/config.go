// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FINKEEPER_"

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from environment
// variables, command-line flags, an optional JSON file and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds file locations used by the client.
	App App `envPrefix:"APP_"`

	// Storage holds the local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via FINKEEPER_CONFIG or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds client file locations.
type App struct {
	// BackupDir is where exported .pfencrypt files are written.
	// Env: FINKEEPER_APP_BACKUP_DIR
	BackupDir string `env:"BACKUP_DIR"`

	// LogPath is the JSON log file. Empty means stdout.
	// Env: FINKEEPER_APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Storage groups the configuration for the local storage backend.
type Storage struct {
	// DB holds the SQLite connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the SQLite database.
type DB struct {
	// DSN is the SQLite file path (e.g. "/home/me/.finkeeper/finkeeper.db").
	// Env: FINKEEPER_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// AutoLockCheckInterval is how often the auto-lock job checks for
	// inactivity.
	// Env: FINKEEPER_WORKERS_AUTO_LOCK_CHECK_INTERVAL
	AutoLockCheckInterval time.Duration `env:"AUTO_LOCK_CHECK_INTERVAL"`
}

// GetStructuredConfig loads and merges the configuration from all sources.
// args are the command-line arguments without the program name; the
// arguments left after the global flags are returned as rest.
func GetStructuredConfig(args []string) (cfg *StructuredConfig, rest []string, err error) {
	b := newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults()

	cfg, err = b.build()
	return cfg, b.rest, err
}
