// Package integrity provides health checks of the synchronizer's storage.
//
// Unlike the 'sync' package which moves data, this package validates what
// the synchronization left behind.
//
// # Checks Provided
//
//   - Schema: Validates that every table matches its gorm model (missing tables and columns).
//   - Archive: Verifies that recent raw payloads were mirrored to object storage, and re-uploads the missing ones.
//   - Cursors: Lists kinds that never ran and windowed kinds lagging behind today.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true and ?sample=N).
//   - GET /integrity/cursors : Runs the cursor check (supports ?max_lag_days=N).
package integrity
