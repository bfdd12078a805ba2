// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks ledger records before they are written to the
// encrypted store. Once a record is sealed its fields can no longer be
// inspected without the key, so every rule is enforced here.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
