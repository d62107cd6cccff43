// Package scheduler triggers the enabled synchronization kinds on a fixed
// interval.
//
// Each tick runs every enabled kind concurrently, one goroutine per kind. A
// failing kind is logged and does not stop the others; a kind still running
// from a previous tick is skipped.
package scheduler
