// Package cache implements the response log: the last raw ERP payload fetched
// per (kind, external id).
//
// Rows in response_log are upserted, never appended, so there is at most one
// entry per key pair. Reconcilers read it before calling the ERP for payloads
// that no longer change, and every importer writes to it for audit.
//
// Two optional layers sit around the table:
//
//   - Redis, as a read-through copy with a TTL.
//   - Object storage, as an audit mirror under responses/<kind>/<id>.json.
package cache
