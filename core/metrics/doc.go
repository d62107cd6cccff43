// Package metrics exports synchronization counters in the Prometheus format.
//
// A Recorder owns a private registry so tests can gather it without touching
// the global default registry. Register mounts it on the Fiber app through the
// net/http adaptor.
package metrics
