// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the finkeeper process runtime.
//
// It opens the local SQLite database, builds the encrypted store, the
// session gate and the ledger services on top of it, and dispatches one
// command line to the matching subcommand.
package client
