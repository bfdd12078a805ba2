// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Collection names a keyed set of encrypted envelopes.
type Collection string

const (
	CollectionTransactions          Collection = "transactions"
	CollectionAccounts              Collection = "accounts"
	CollectionBudgets               Collection = "budgets"
	CollectionGoals                 Collection = "goals"
	CollectionRecurringTransactions Collection = "recurringTransactions"
	CollectionSettings              Collection = "settings"
)

// AllCollections lists every collection known to the store.
var AllCollections = []Collection{
	CollectionTransactions,
	CollectionAccounts,
	CollectionBudgets,
	CollectionGoals,
	CollectionRecurringTransactions,
	CollectionSettings,
}

// BackupCollections lists the collections carried by an encrypted backup.
// Settings are device-local and are neither exported nor replaced on import.
var BackupCollections = []Collection{
	CollectionTransactions,
	CollectionAccounts,
	CollectionBudgets,
	CollectionGoals,
	CollectionRecurringTransactions,
}

// Valid reports whether c is one of [AllCollections].
func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

func (c Collection) String() string {
	return string(c)
}

// Entity is implemented by every record that can be stored in a collection.
// The returned id is the primary key of the record's envelope.
type Entity interface {
	EntityID() string
}

// TimestampLayout is the format of every createdAt, updatedAt and backup
// timestamp. It matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"
