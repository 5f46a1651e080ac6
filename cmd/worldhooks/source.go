package main

import (
	"context"
	"fmt"
	"strings"

	"worldhooks/internal/source"
	"worldhooks/internal/source/postgres"
	"worldhooks/internal/source/sqlite"
)

func openSource(ctx context.Context, dsn string) (source.Source, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported source DSN scheme: %s", dsn)
	}
}
