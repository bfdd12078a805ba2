// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"strings"
)

// validate checks that the client configuration can be used at startup.
// All violations are reported together.
func (cfg *ClientConfig) validate() error {
	var errs []error

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		errs = append(errs, ErrInvalidStorageConfigs)
	}

	if cfg.Workers.AutoLockCheckInterval <= 0 {
		errs = append(errs, ErrInvalidWorkerConfigs)
	}

	if cfg.App.BackupDir == "" {
		errs = append(errs, ErrInvalidAppConfigs)
	}

	return errors.Join(errs...)
}
