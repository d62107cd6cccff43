// Package sync exposes the ERP synchronization over HTTP.
//
// It wraps the importer's walker sources in a Service that runs them either
// in the foreground (CLI, scheduler) or in the background (HTTP), keeping a
// single run per kind and the last report of every kind.
//
// # Components
//
//   - Service: Builds walkers, tracks running kinds and last reports, and
//     reads or resets cursors.
//   - Handler: Exposes the HTTP endpoints below.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET  /sync/kinds                : Registered kinds in dependency order.
//   - GET  /sync/cursors              : Every persisted cursor.
//   - GET  /sync/cursors/:kind        : The cursor of one kind.
//   - POST /sync/cursors/:kind/reset  : Move a cursor back to page 1 of a date.
//   - POST /sync/:kind                : Start a background run (202, 409 when busy).
//   - GET  /sync/runs                 : Last report per kind.
//   - GET  /sync/stats                : Reconcile counters per entity.
//   - GET  /health                    : Liveness probe.
package sync
