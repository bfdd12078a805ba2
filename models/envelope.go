package models

import "time"

// Envelope is the persisted form of a single record. Only ID is kept in the
// clear; everything else about the entity lives inside Ciphertext.
type Envelope struct {
	Collection Collection
	ID         string
	Ciphertext []byte
	Nonce      []byte
	WrittenAt  time.Time
}

// EnvelopeKey addresses one envelope without its contents.
type EnvelopeKey struct {
	Collection Collection
	ID         string
}
