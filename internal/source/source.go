// Package source abstracts the read-only record store the engine ingests
// from. Backends stream (id, content) pairs ordered by id so a run over the
// same store is reproducible.
package source

import "context"

type Record struct {
	ID      string
	Content string
}

type Source interface {
	// Records invokes fn for every record in id order. A non-nil error from
	// fn stops iteration and is returned as-is.
	Records(ctx context.Context, fn func(Record) error) error
	Count(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}
