package reconcile

import "sync/atomic"

// Stats counts what a resolver did since it was created.
type Stats struct {
	Fetched   int64 `json:"fetched"`
	Created   int64 `json:"created"`
	Updated   int64 `json:"updated"`
	Conflicts int64 `json:"conflicts"`
}

type counters struct {
	fetched   atomic.Int64
	created   atomic.Int64
	updated   atomic.Int64
	conflicts atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Fetched:   c.fetched.Load(),
		Created:   c.created.Load(),
		Updated:   c.updated.Load(),
		Conflicts: c.conflicts.Load(),
	}
}
