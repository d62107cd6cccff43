// Package reconcile implements the idempotent resolve-or-create protocol used
// to mirror ERP records into local tables.
//
// Every local entity carries the ERP id in a unique id_original column. A
// Resolver drives the protocol for one entity kind while an Adapter supplies
// the kind-specific pieces (lookups, ERP fetch and mapping, persistence).
//
// # Protocol
//
//  1. Resolve looks the row up by id_original and returns it when present.
//     Refresh skips this step and always re-fetches.
//  2. Otherwise the adapter fetches and maps the ERP detail, resolving its
//     foreign references through sibling resolvers.
//  3. Save updates the existing row (rebuilding owned children) or inserts a
//     new one.
//  4. A unique violation means another writer got there first or a natural
//     key already exists. The conflicting row is re-queried by id_original,
//     then by natural key, its primary key adopted, its children deleted, and
//     the write retried once as an update.
//  5. Any other error is returned untouched.
//
// Concurrent Resolve calls for the same id inside one process share a single
// fetch through singleflight.
//
// # Usage Example
//
//	people := reconcile.NewResolver[models.Person](db, importer.NewPersonAdapter(deps), logger)
//	person, err := people.Resolve(ctx, "16049186437")
package reconcile
