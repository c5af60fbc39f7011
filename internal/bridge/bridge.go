// Package bridge selects and configures a backend for the remote command
// interface the catalog orchestrator drives. The contract itself
// (catalog.Bridge) is owned by the consumer; this package only provides
// implementations of it.
package bridge

import (
	"context"
	"fmt"
	"io"
	"strings"

	"stockroom/internal/bridge/mongobridge"
	"stockroom/internal/bridge/sqlitebridge"
	"stockroom/internal/catalog"
)

// Settings selects the backend and carries per-backend configuration,
// sourced from the environment.
type Settings struct {
	Backend string `envconfig:"STOCKROOM_BACKEND" default:"sqlite"`

	Mongo  mongobridge.Config
	SQLite sqlitebridge.Config
}

// Closer is satisfied by backends holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// Open builds the configured backend. The returned closer is non-nil on
// success; callers own it for the process lifetime.
func (s Settings) Open(ctx context.Context) (catalog.Bridge, Closer, error) {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "mongo", "mongodb":
		b, err := s.Mongo.Open(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo bridge: %w", err)
		}
		return b, b, nil
	case "sqlite", "":
		b, err := s.SQLite.Open(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite bridge: %w", err)
		}
		return b, ctxCloser{b}, nil
	default:
		return nil, nil, fmt.Errorf("unknown bridge backend %q (want sqlite or mongo)", s.Backend)
	}
}

type ctxCloser struct{ c io.Closer }

func (c ctxCloser) Close(context.Context) error { return c.c.Close() }
