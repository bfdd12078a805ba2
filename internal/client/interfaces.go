// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/google/subcommands"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes one command line and returns its exit status.
	Run(ctx context.Context, args []string) subcommands.ExitStatus
	// Close releases every resource held by the client.
	Close() error
}

var _ Client = (*App)(nil)
