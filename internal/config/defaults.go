package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	defaultDirName               = ".finkeeper"
	defaultDBFile                = "finkeeper.db"
	defaultLogFile               = "finkeeper.log"
	defaultAutoLockCheckInterval = 30 * time.Second
)

func defaultConfig() *StructuredConfig {
	dataDir := defaultDataDir()

	return &StructuredConfig{
		App: App{
			BackupDir: ".",
			LogPath:   filepath.Join(dataDir, defaultLogFile),
		},
		Storage: Storage{
			DB: DB{
				DSN: filepath.Join(dataDir, defaultDBFile),
			},
		},
		Workers: Workers{
			AutoLockCheckInterval: defaultAutoLockCheckInterval,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}
