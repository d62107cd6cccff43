package reconcile

import (
	"context"
	"fmt"
	"strings"

	"bling-sync/core/database"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Resolver implements resolve-or-create for one entity kind.
type Resolver[T any] struct {
	db      *gorm.DB
	adapter Adapter[T]
	logger  *zap.Logger

	// inflight collapses concurrent creations of the same external id.
	inflight singleflight.Group
	stats    counters
}

// NewResolver creates a resolver over db for adapter.
func NewResolver[T any](db *gorm.DB, adapter Adapter[T], logger *zap.Logger) *Resolver[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver[T]{db: db, adapter: adapter, logger: logger.With(zap.String("kind", adapter.Kind()))}
}

// Kind returns the adapter's kind.
func (r *Resolver[T]) Kind() string {
	return r.adapter.Kind()
}

// Stats returns a snapshot of the resolver counters.
func (r *Resolver[T]) Stats() Stats {
	return r.stats.snapshot()
}

func blankID(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || id == "0"
}

// Resolve returns the local entity of id, creating it from the ERP when it
// does not exist yet. Existing rows are returned as they are. Blank and zero
// ids are optional references and resolve to nil.
func (r *Resolver[T]) Resolve(ctx context.Context, id string) (*T, error) {
	if blankID(id) {
		return nil, nil
	}

	existing, err := r.adapter.FindByOriginal(ctx, r.db.WithContext(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: lookup: %w", r.adapter.Kind(), id, err)
	}
	if existing != nil {
		return existing, nil
	}

	v, err, _ := r.inflight.Do(id, func() (any, error) {
		// Double-check: a caller that just finished may have created it.
		existing, err := r.adapter.FindByOriginal(ctx, r.db.WithContext(ctx), id)
		if err != nil {
			return nil, fmt.Errorf("%s %s: lookup: %w", r.adapter.Kind(), id, err)
		}
		if existing != nil {
			return existing, nil
		}
		return r.fetchAndSave(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// Refresh always fetches id from the ERP and overwrites the local row.
func (r *Resolver[T]) Refresh(ctx context.Context, id string) (*T, error) {
	if blankID(id) {
		return nil, nil
	}
	return r.fetchAndSave(ctx, id)
}

func (r *Resolver[T]) fetchAndSave(ctx context.Context, id string) (*T, error) {
	entity, err := r.adapter.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: fetch: %w", r.adapter.Kind(), id, err)
	}
	r.stats.fetched.Add(1)

	if err := r.Save(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Save persists entity. An existing row with the same external id is
// updated in place, its children rebuilt. When the insert still hits a unique
// constraint, the conflicting row is looked up by external id and then by
// natural key, its key adopted, and the write retried once as an update.
func (r *Resolver[T]) Save(ctx context.Context, entity *T) error {
	id := r.adapter.OriginalID(entity)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.adapter.FindByOriginal(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := r.adoptExisting(ctx, tx, existing, entity); err != nil {
				return err
			}
		}
		if err := r.adapter.Persist(ctx, tx, entity); err != nil {
			return err
		}
		if existing != nil {
			r.stats.updated.Add(1)
		} else {
			r.stats.created.Add(1)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if !database.IsUniqueViolation(err) {
		return err
	}

	conflict := err
	r.stats.conflicts.Add(1)
	r.logger.Info("Unique conflict, retrying as update", zap.String("id", id), zap.Error(err))

	// A failed statement aborts the transaction on some drivers, so the retry
	// runs in a fresh one.
	retryErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.adapter.FindByOriginal(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			existing, err = r.adapter.FindByNaturalKey(ctx, tx, entity)
			if err != nil {
				return err
			}
		}
		if existing == nil {
			return conflict
		}
		if err := r.adoptExisting(ctx, tx, existing, entity); err != nil {
			return err
		}
		if err := r.adapter.Persist(ctx, tx, entity); err != nil {
			return err
		}
		r.stats.updated.Add(1)
		return nil
	})
	if retryErr != nil {
		return fmt.Errorf("%s %s: save after conflict: %w", r.adapter.Kind(), id, retryErr)
	}
	return nil
}

func (r *Resolver[T]) adoptExisting(ctx context.Context, tx *gorm.DB, existing, entity *T) error {
	r.adapter.AdoptID(entity, existing)
	if err := r.adapter.ResetChildren(ctx, tx, existing, entity); err != nil {
		return fmt.Errorf("reset children: %w", err)
	}
	return nil
}
