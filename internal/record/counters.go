package record

import "sync/atomic"

// Counters are the run-level observability counters. They are safe to bump
// from concurrent extraction workers.
type Counters struct {
	Empty       atomic.Int64
	Structured  atomic.Int64
	FreeText    atomic.Int64
	Unclustered atomic.Int64
}

// Snapshot is the plain-value view of Counters used in results and the
// exported manifest.
type Snapshot struct {
	Empty       int64 `json:"skippedEmpty"`
	Structured  int64 `json:"structured"`
	FreeText    int64 `json:"freeText"`
	Unclustered int64 `json:"unclustered"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Empty:       c.Empty.Load(),
		Structured:  c.Structured.Load(),
		FreeText:    c.FreeText.Load(),
		Unclustered: c.Unclustered.Load(),
	}
}
