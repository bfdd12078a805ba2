package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// Reader is the read side of [Store] used by the typed helpers.
type Reader interface {
	Get(ctx context.Context, collection models.Collection, id string, dst any) (bool, error)
	GetAll(ctx context.Context, collection models.Collection) ([]json.RawMessage, error)
}

// GetAs reads collection/id as a T. found is false when the record is absent.
func GetAs[T any](ctx context.Context, r Reader, collection models.Collection, id string) (v T, found bool, err error) {
	found, err = r.Get(ctx, collection, id, &v)
	return v, found, err
}

// GetAllAs reads every record of collection as a T. The result is never nil.
func GetAllAs[T any](ctx context.Context, r Reader, collection models.Collection) ([]T, error) {
	records, err := r.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, raw := range records {
		var v T
		if err = json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", collection, crypto.ErrCorruptedRecord, err)
		}
		out = append(out, v)
	}
	return out, nil
}
