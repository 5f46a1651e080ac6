package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"worldhooks/internal/source"
)

var _ source.Source = (*Client)(nil)

// Client reads records from a postgres table
// records(id TEXT PRIMARY KEY, content TEXT). Queries run read-only; the
// input store is never written.
type Client struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{pool: pool}, nil
}

func (c *Client) Records(ctx context.Context, fn func(source.Record) error) error {
	rows, err := c.pool.Query(ctx, "SELECT id, COALESCE(content, '') FROM records ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec source.Record
		if err := rows.Scan(&rec.ID, &rec.Content); err != nil {
			return fmt.Errorf("scanning record: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating records: %w", err)
	}
	return nil
}

func (c *Client) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}
