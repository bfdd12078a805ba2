package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

// ClientStorages groups the repositories of the local database so they can
// be passed to the vault and session layers as one value.
type ClientStorages struct {
	// Envelopes holds encrypted records of every collection.
	Envelopes EnvelopeRepository
	// PlainValues holds the salt, PIN hash and preferences.
	PlainValues PlainValueRepository

	db *DB
}

// NewClientStorages opens the SQLite file at cfg.DB.DSN (creating it when
// missing), applies pending migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Envelopes:   NewEnvelopeRepository(db),
		PlainValues: NewPlainValueRepository(db),
		db:          db,
	}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
