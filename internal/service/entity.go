package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// stampable is a pointer to a record whose id and timestamps the service
// assigns.
type stampable[T any] interface {
	*T
	models.Entity
	Created() string
	Stamp(id, createdAt, updatedAt string)
}

// EntityService is plain create/read/update/delete over one collection for
// records that have no side effects on other records.
type EntityService[T models.Entity, PT stampable[T]] struct {
	collection models.Collection
	store      RecordStore
	ids        IDGenerator
	validator  validators.Validator
	logger     *logger.Logger
	now        func() time.Time
}

type (
	BudgetService    = EntityService[models.Budget, *models.Budget]
	GoalService      = EntityService[models.Goal, *models.Goal]
	RecurringService = EntityService[models.RecurringTransaction, *models.RecurringTransaction]
)

func NewEntityService[T models.Entity, PT stampable[T]](
	collection models.Collection,
	store RecordStore,
	ids IDGenerator,
	validator validators.Validator,
	logger *logger.Logger,
) *EntityService[T, PT] {
	return &EntityService[T, PT]{
		collection: collection,
		store:      store,
		ids:        ids,
		validator:  validator,
		logger:     logger,
		now:        time.Now,
	}
}

func NewBudgetService(store RecordStore, ids IDGenerator, validator validators.Validator, logger *logger.Logger) *BudgetService {
	return NewEntityService[models.Budget](models.CollectionBudgets, store, ids, validator, logger)
}

func NewGoalService(store RecordStore, ids IDGenerator, validator validators.Validator, logger *logger.Logger) *GoalService {
	return NewEntityService[models.Goal](models.CollectionGoals, store, ids, validator, logger)
}

func NewRecurringService(store RecordStore, ids IDGenerator, validator validators.Validator, logger *logger.Logger) *RecurringService {
	return NewEntityService[models.RecurringTransaction](models.CollectionRecurringTransactions, store, ids, validator, logger)
}

// Create assigns a fresh id and timestamps to v and stores it.
func (s *EntityService[T, PT]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := s.validator.Validate(ctx, v); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	ts := timestamp(s.now())
	PT(&v).Stamp(s.ids.Generate(), ts, ts)

	if err := s.store.Put(ctx, s.collection, v); err != nil {
		return zero, fmt.Errorf("save %s: %w", s.collection, err)
	}
	return v, nil
}

// Get returns the record or an error wrapping [vault.ErrNotFound].
func (s *EntityService[T, PT]) Get(ctx context.Context, id string) (T, error) {
	v, found, err := vault.GetAs[T](ctx, s.store, s.collection, id)
	if err != nil {
		return v, fmt.Errorf("load %s: %w", s.collection, err)
	}
	if !found {
		return v, fmt.Errorf("%s %s: %w", s.collection, id, vault.ErrNotFound)
	}
	return v, nil
}

// List returns every record ordered by id.
func (s *EntityService[T, PT]) List(ctx context.Context) ([]T, error) {
	items, err := vault.GetAllAs[T](ctx, s.store, s.collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.collection, err)
	}

	slices.SortFunc(items, func(a, b T) int {
		return cmp.Compare(a.EntityID(), b.EntityID())
	})
	return items, nil
}

// Update overwrites an existing record, keeping its creation time.
func (s *EntityService[T, PT]) Update(ctx context.Context, v T) (T, error) {
	var zero T
	if v.EntityID() == "" {
		return zero, fmt.Errorf("%w: %w", ErrValidation, validators.ErrInvalidID)
	}
	if err := s.validator.Validate(ctx, v); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	prev, err := s.Get(ctx, v.EntityID())
	if err != nil {
		return zero, err
	}

	PT(&v).Stamp(v.EntityID(), PT(&prev).Created(), timestamp(s.now()))

	if err = s.store.Put(ctx, s.collection, v); err != nil {
		return zero, fmt.Errorf("update %s: %w", s.collection, err)
	}
	return v, nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (s *EntityService[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.collection, err)
	}
	return nil
}
