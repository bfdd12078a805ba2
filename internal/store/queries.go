package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-finance-keeper/models"
)

const (
	envelopesTable   = "envelopes"
	plainValuesTable = "plain_values"
)

var envelopeColumns = []string{"collection", "id", "ciphertext", "nonce", "written_at"}

// squirrel's default "?" placeholders match the SQLite driver.

func buildUpsertEnvelopeQuery(e models.Envelope) (string, []any, error) {
	query, args, err := sq.Insert(envelopesTable).
		Columns(envelopeColumns...).
		Values(string(e.Collection), e.ID, e.Ciphertext, e.Nonce, e.WrittenAt.UTC()).
		Suffix("ON CONFLICT(collection, id) DO UPDATE SET " +
			"ciphertext = excluded.ciphertext, nonce = excluded.nonce, written_at = excluded.written_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectEnvelopeQuery(collection models.Collection, id string) (string, []any, error) {
	query, args, err := sq.Select(envelopeColumns...).
		From(envelopesTable).
		Where(sq.Eq{"collection": string(collection), "id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectCollectionQuery(collection models.Collection) (string, []any, error) {
	query, args, err := sq.Select(envelopeColumns...).
		From(envelopesTable).
		Where(sq.Eq{"collection": string(collection)}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteEnvelopesQuery(collection models.Collection, ids []string) (string, []any, error) {
	query, args, err := sq.Delete(envelopesTable).
		Where(sq.Eq{"collection": string(collection), "id": ids}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildClearCollectionsQuery(collections []models.Collection) (string, []any, error) {
	names := make([]string, 0, len(collections))
	for _, c := range collections {
		names = append(names, string(c))
	}

	query, args, err := sq.Delete(envelopesTable).
		Where(sq.Eq{"collection": names}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildPurgeEnvelopesQuery() (string, []any, error) {
	query, args, err := sq.Delete(envelopesTable).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectPlainValueQuery(key string) (string, []any, error) {
	query, args, err := sq.Select("value").
		From(plainValuesTable).
		Where(sq.Eq{"name": key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertPlainValueQuery(key, value string) (string, []any, error) {
	query, args, err := sq.Insert(plainValuesTable).
		Columns("name", "value").
		Values(key, value).
		Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeletePlainValuesQuery(keys []string) (string, []any, error) {
	query, args, err := sq.Delete(plainValuesTable).
		Where(sq.Eq{"name": keys}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeletePlainValuePrefixQuery(prefix string) (string, []any, error) {
	query, args, err := sq.Delete(plainValuesTable).
		// LIKE would treat "_" in the prefix as a wildcard.
		Where(sq.Expr("substr(name, 1, ?) = ?", len(prefix), prefix)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
