package vault

import "errors"

var (
	// ErrNotInitialized is returned by every data operation before a
	// successful [Store.Open] or after [Store.Lock].
	ErrNotInitialized = errors.New("store is not initialized")
	// ErrMissingID is returned when an entity without an id is written.
	ErrMissingID = errors.New("entity id is empty")
	// ErrUnknownCollection is returned for a collection name the store does
	// not know.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrNotFound is returned by lookups that require the record to exist.
	ErrNotFound = errors.New("record not found")
)
