package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Adapter defines the entity-specific half of the resolve-or-create protocol.
// The Resolver owns the control flow (lookup, fetch, persist, conflict retry);
// an adapter only knows how one local entity type maps onto the ERP.
type Adapter[T any] interface {
	// Kind returns the entity kind handled by this adapter (e.g., "pessoa", "venda").
	Kind() string

	// OriginalID returns the external id carried by entity.
	OriginalID(entity *T) string

	// FindByOriginal looks up the local row whose id_original equals id.
	// It returns nil and no error when the row does not exist.
	FindByOriginal(ctx context.Context, tx *gorm.DB, id string) (*T, error)

	// FindByNaturalKey looks up a local row sharing entity's natural unique key
	// (e.g., a person's document number). Adapters without one return nil, nil.
	FindByNaturalKey(ctx context.Context, tx *gorm.DB, entity *T) (*T, error)

	// Fetch loads the detail of id from the ERP and maps it to a new local
	// entity, resolving every foreign reference through sibling resolvers.
	// It is called outside any transaction.
	Fetch(ctx context.Context, id string) (*T, error)

	// Persist inserts entity, or updates it when its primary key is set,
	// together with its owned children.
	Persist(ctx context.Context, tx *gorm.DB, entity *T) error

	// AdoptID copies the primary key of existing onto dst.
	AdoptID(dst, existing *T)

	// ResetChildren deletes the owned children (items, installments) of
	// existing and clears the child keys of entity so they are inserted again.
	ResetChildren(ctx context.Context, tx *gorm.DB, existing, entity *T) error
}
