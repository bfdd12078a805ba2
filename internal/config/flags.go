package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// parseFlags parses the global flags that precede the command name.
//
// Flags:
//
//	-d database file path
//	-c/-config json file path with configs
//	-backup-dir default backup directory
//	-log log file path
//	-auto-lock-check auto-lock check interval (e.g. "30s")
//
// Parsing stops at the first non-flag argument; it and everything after it
// are returned as rest.
func parseFlags(args []string) (*StructuredConfig, []string, error) {
	var databaseDSN string
	var jsonConfigPath string
	var backupDir string
	var logPath string
	var autoLockCheck time.Duration

	fs := flag.NewFlagSet("finkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&databaseDSN, "d", "", "Database file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&backupDir, "backup-dir", "", "Default backup directory")
	fs.StringVar(&logPath, "log", "", "Log file path")
	fs.DurationVar(&autoLockCheck, "auto-lock-check", 0, "Auto-lock check interval (e.g., 30s)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			BackupDir: backupDir,
			LogPath:   logPath,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			AutoLockCheckInterval: autoLockCheck,
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
