package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"worldhooks/internal/source"

	_ "modernc.org/sqlite"
)

var _ source.Source = (*Client)(nil)

// Client reads records from a sqlite database holding a
// records(id TEXT PRIMARY KEY, content TEXT) table. The connection is
// pinned read-only; this engine never writes to its input store.
type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA query_only = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return &Client{db: db}, nil
}

func (c *Client) Records(ctx context.Context, fn func(source.Record) error) error {
	rows, err := c.db.QueryContext(ctx, "SELECT id, content FROM records ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec source.Record
		var content sql.NullString
		if err := rows.Scan(&rec.ID, &content); err != nil {
			return fmt.Errorf("scanning record: %w", err)
		}
		rec.Content = content.String
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
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
