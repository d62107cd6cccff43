// Package middleware contains HTTP middleware for the admin API.
//
// # Components
//
//   - Auth: Rejects requests without the configured X-API-Key header. Paths listed in
//     Config.Skip (the health probe) stay public.
//   - RayID: Tags every request with a uuid, echoed in the X-Ray-ID response header and
//     attached to request logs through logger.WithRayID.
//
// Both are registered globally in cmd/start.go; /swagger and /metrics are mounted before
// Auth and stay public.
package middleware
