// Package repository opens the record store selected by configuration.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	missiondb "github.com/garnizeh/missiondeck/db"
	"github.com/garnizeh/missiondeck/internal/config"
	"github.com/garnizeh/missiondeck/internal/db"
	"github.com/garnizeh/missiondeck/internal/repository/memory"
	"github.com/garnizeh/missiondeck/internal/repository/sqlite"
	pkgrepo "github.com/garnizeh/missiondeck/pkg/repository"
)

// Open returns the store named by cfg.Driver. For sqlite the schema is
// migrated first when cfg.MigrateOnStart is set.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (pkgrepo.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		conn, err := db.New(ctx, cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := db.Migrate(conn, missiondb.Migrations); err != nil {
				conn.Close()
				return nil, err
			}
		}
		return sqlite.New(conn, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
