package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// envelopeRepository is the SQLite implementation of [EnvelopeRepository].
// Every method takes its logger from ctx via [logger.FromContext] so that
// store operations are traced with collection and id fields.
type envelopeRepository struct {
	*DB
}

// NewEnvelopeRepository constructs an [EnvelopeRepository] on db.
func NewEnvelopeRepository(db *DB) EnvelopeRepository {
	return &envelopeRepository{DB: db}
}

// Save implements [EnvelopeRepository].
func (r *envelopeRepository) Save(ctx context.Context, envelopes ...models.Envelope) error {
	return r.Apply(ctx, envelopes, nil)
}

// Apply implements [EnvelopeRepository].
func (r *envelopeRepository) Apply(ctx context.Context, upserts []models.Envelope, deletes []models.EnvelopeKey) error {
	log := logger.FromContext(ctx)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range upserts {
			if err := upsertEnvelope(ctx, tx, e); err != nil {
				log.Err(err).
					Str("func", "envelopeRepository.Apply").
					Str("collection", e.Collection.String()).
					Str("id", e.ID).
					Msg("failed to upsert envelope")
				return err
			}
		}

		for _, k := range deletes {
			query, args, err := buildDeleteEnvelopesQuery(k.Collection, []string{k.ID})
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				log.Err(err).
					Str("func", "envelopeRepository.Apply").
					Str("collection", k.Collection.String()).
					Str("id", k.ID).
					Msg("failed to delete envelope")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

// Get implements [EnvelopeRepository].
func (r *envelopeRepository) Get(ctx context.Context, collection models.Collection, id string) (models.Envelope, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectEnvelopeQuery(collection, id)
	if err != nil {
		return models.Envelope{}, err
	}

	var e models.Envelope
	var coll string
	err = r.QueryRowContext(ctx, query, args...).Scan(&coll, &e.ID, &e.Ciphertext, &e.Nonce, &e.WrittenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Envelope{}, ErrEnvelopeNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "envelopeRepository.Get").
			Str("collection", collection.String()).
			Str("id", id).
			Msg("failed to scan envelope row")
		return models.Envelope{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	e.Collection = models.Collection(coll)

	return e, nil
}

// GetAll implements [EnvelopeRepository].
func (r *envelopeRepository) GetAll(ctx context.Context, collection models.Collection) ([]models.Envelope, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectCollectionQuery(collection)
	if err != nil {
		return nil, err
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "envelopeRepository.GetAll").
			Str("collection", collection.String()).
			Msg("failed to execute query for collection envelopes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	envelopes := make([]models.Envelope, 0, 50)
	for rows.Next() {
		var e models.Envelope
		var coll string
		if scanErr := rows.Scan(&coll, &e.ID, &e.Ciphertext, &e.Nonce, &e.WrittenAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "envelopeRepository.GetAll").
				Str("collection", collection.String()).
				Msg("failed to scan envelope row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		e.Collection = models.Collection(coll)
		envelopes = append(envelopes, e)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "envelopeRepository.GetAll").
			Str("collection", collection.String()).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return envelopes, nil
}

// Delete implements [EnvelopeRepository].
func (r *envelopeRepository) Delete(ctx context.Context, collection models.Collection, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteEnvelopesQuery(collection, ids)
	if err != nil {
		return err
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "envelopeRepository.Delete").
			Str("collection", collection.String()).
			Int("ids", len(ids)).
			Msg("failed to delete envelopes")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Replace implements [EnvelopeRepository].
func (r *envelopeRepository) Replace(ctx context.Context, collections []models.Collection, envelopes []models.Envelope) error {
	log := logger.FromContext(ctx)

	query, args, err := buildClearCollectionsQuery(collections)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "envelopeRepository.Replace").
				Int("collections", len(collections)).
				Msg("failed to clear collections")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		for _, e := range envelopes {
			if err := upsertEnvelope(ctx, tx, e); err != nil {
				log.Err(err).
					Str("func", "envelopeRepository.Replace").
					Str("collection", e.Collection.String()).
					Str("id", e.ID).
					Msg("failed to insert envelope")
				return err
			}
		}
		return nil
	})
}

// Purge implements [EnvelopeRepository].
func (r *envelopeRepository) Purge(ctx context.Context) error {
	query, args, err := buildPurgeEnvelopesQuery()
	if err != nil {
		return err
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "envelopeRepository.Purge").
			Msg("failed to purge envelopes")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func upsertEnvelope(ctx context.Context, tx *sql.Tx, e models.Envelope) error {
	query, args, err := buildUpsertEnvelopeQuery(e)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w (collection=%s, id=%s): %w", ErrExecutingStatement, e.Collection, e.ID, err)
	}
	return nil
}
