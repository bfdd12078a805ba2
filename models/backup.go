// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// BackupVersion is the only backup format version this build reads and writes.
const BackupVersion = "1.0"

// BackupFileExtension is appended to exported backup files.
const BackupFileExtension = ".pfencrypt"

// BackupBlob is a self-describing encrypted backup. It carries its own salt
// so it can be restored on any device with the right PIN.
type BackupBlob struct {
	Version   string    `json:"version"`
	Timestamp string    `json:"timestamp"`
	Salt      ByteArray `json:"salt"`
	IV        ByteArray `json:"iv"`
	Data      ByteArray `json:"data"`
	Checksum  string    `json:"checksum"`
}

// BackupPayload is the plaintext carried inside a [BackupBlob].
type BackupPayload struct {
	Transactions          []Transaction          `json:"transactions"`
	Accounts              []Account              `json:"accounts"`
	Budgets               []Budget               `json:"budgets"`
	Goals                 []Goal                 `json:"goals"`
	RecurringTransactions []RecurringTransaction `json:"recurringTransactions"`
	ExportDate            string                 `json:"exportDate"`
}

// Records returns the payload entities grouped by collection.
func (p BackupPayload) Records() map[Collection][]Entity {
	out := make(map[Collection][]Entity, len(BackupCollections))
	out[CollectionTransactions] = toEntities(p.Transactions)
	out[CollectionAccounts] = toEntities(p.Accounts)
	out[CollectionBudgets] = toEntities(p.Budgets)
	out[CollectionGoals] = toEntities(p.Goals)
	out[CollectionRecurringTransactions] = toEntities(p.RecurringTransactions)
	return out
}

func toEntities[T Entity](items []T) []Entity {
	out := make([]Entity, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// ErrInvalidByteArray is returned when a JSON byte array holds anything other
// than integers in the range 0..255.
var ErrInvalidByteArray = errors.New("invalid byte array")

// ByteArray is a byte slice encoded in JSON as an array of numbers, the
// layout used by backup files.
type ByteArray []byte

// MarshalJSON implements [json.Marshaler].
func (b ByteArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(b)*4 + 2)
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements [json.Unmarshaler]. It rejects null, non-integer
// and out-of-range elements.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: null", ErrInvalidByteArray)
	}

	var elems []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&elems); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidByteArray, err)
	}

	out := make([]byte, len(elems))
	for i, elem := range elems {
		n, ok := elem.(json.Number)
		if !ok {
			return fmt.Errorf("%w: element %d is not a number", ErrInvalidByteArray, i)
		}
		v, err := strconv.ParseUint(n.String(), 10, 8)
		if err != nil {
			return fmt.Errorf("%w: element %d (%s)", ErrInvalidByteArray, i, n)
		}
		out[i] = byte(v)
	}

	*b = out
	return nil
}
