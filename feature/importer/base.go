package importer

import (
	"context"
	"fmt"
	"strconv"

	"bling-sync/core/database"
	"bling-sync/core/reconcile"

	"gorm.io/gorm"
)

// entity is the part of the reconcile protocol that is the same for every
// model: lookup by id_original, key adoption and a plain save. Adapters embed
// it and add Fetch plus whatever their model needs beyond that.
type entity[T any] struct {
	kind     string
	key      func(*T) *uint
	original func(*T) string
}

func (e entity[T]) Kind() string { return e.kind }

func (e entity[T]) OriginalID(row *T) string { return e.original(row) }

func (e entity[T]) FindByOriginal(ctx context.Context, tx *gorm.DB, id string) (*T, error) {
	return first[T](tx.WithContext(ctx).Where("id_original = ?", id))
}

func (e entity[T]) FindByNaturalKey(context.Context, *gorm.DB, *T) (*T, error) {
	return nil, nil
}

func (e entity[T]) Persist(ctx context.Context, tx *gorm.DB, row *T) error {
	return tx.WithContext(ctx).Save(row).Error
}

func (e entity[T]) AdoptID(dst, existing *T) {
	*e.key(dst) = *e.key(existing)
}

func (e entity[T]) ResetChildren(context.Context, *gorm.DB, *T, *T) error {
	return nil
}

// first runs q and returns its first row, or nil when there is none.
func first[T any](q *gorm.DB) (*T, error) {
	var row T
	err := q.Take(&row).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return n, nil
}

// refID returns a pointer to the key of row, or nil for a missing reference.
func refID[T any](row *T, key func(*T) uint) *uint {
	if row == nil {
		return nil
	}
	id := key(row)
	return &id
}

func refresher[T any](r *reconcile.Resolver[T]) func(context.Context, string) error {
	return func(ctx context.Context, id string) error {
		_, err := r.Refresh(ctx, id)
		return err
	}
}

type visitKey struct {
	kind string
	id   string
}

type visitedKey struct{}

// enter records that (kind, id) is being resolved on the returned context.
func enter(ctx context.Context, kind, id string) context.Context {
	seen, _ := ctx.Value(visitedKey{}).(map[visitKey]struct{})
	next := make(map[visitKey]struct{}, len(seen)+1)
	for v := range seen {
		next[v] = struct{}{}
	}
	next[visitKey{kind: kind, id: id}] = struct{}{}
	return context.WithValue(ctx, visitedKey{}, next)
}

// visiting reports whether (kind, id) is already being resolved up the
// chain. Resolving it again would wait on its own in-flight call, so parent
// references that close a cycle are left unset.
func visiting(ctx context.Context, kind, id string) bool {
	seen, _ := ctx.Value(visitedKey{}).(map[visitKey]struct{})
	_, ok := seen[visitKey{kind: kind, id: id}]
	return ok
}
