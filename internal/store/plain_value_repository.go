package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

// plainValueRepository is the SQLite implementation of
// [PlainValueRepository]. Errors are logged through [logger.FromContext].
type plainValueRepository struct {
	*DB
}

// NewPlainValueRepository constructs a [PlainValueRepository] on db.
func NewPlainValueRepository(db *DB) PlainValueRepository {
	return &plainValueRepository{DB: db}
}

// Get implements [PlainValueRepository].
func (r *plainValueRepository) Get(ctx context.Context, key string) (string, error) {
	query, args, err := buildSelectPlainValueQuery(key)
	if err != nil {
		return "", err
	}

	var value string
	err = r.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "plainValueRepository.Get").
			Str("key", key).
			Msg("failed to scan plain value")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, nil
}

// Set implements [PlainValueRepository].
func (r *plainValueRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := buildUpsertPlainValueQuery(key, value)
	if err != nil {
		return err
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "plainValueRepository.Set").
			Str("key", key).
			Msg("failed to upsert plain value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// Delete implements [PlainValueRepository].
func (r *plainValueRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := buildDeletePlainValuesQuery(keys)
	if err != nil {
		return err
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "plainValueRepository.Delete").
			Strs("keys", keys).
			Msg("failed to delete plain values")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// DeletePrefix implements [PlainValueRepository].
func (r *plainValueRepository) DeletePrefix(ctx context.Context, prefix string) error {
	query, args, err := buildDeletePlainValuePrefixQuery(prefix)
	if err != nil {
		return err
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "plainValueRepository.DeletePrefix").
			Str("prefix", prefix).
			Msg("failed to delete plain values by prefix")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
