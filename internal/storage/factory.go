// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/internal/database"
	influxstorage "github.com/OCAP2/skirmish/internal/storage/influx"
	"github.com/OCAP2/skirmish/internal/storage/memory"
	"github.com/OCAP2/skirmish/internal/storage/postgres"
	sqlitestorage "github.com/OCAP2/skirmish/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

// Backend type names accepted in storage.type.
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeInflux   = "influx"
)

var (
	_ Backend    = (*memory.Backend)(nil)
	_ Exportable = (*memory.Backend)(nil)
	_ Backend    = (*sqlitestorage.Backend)(nil)
	_ Exportable = (*sqlitestorage.Backend)(nil)
	_ Backend    = (*postgres.Backend)(nil)
	_ Backend    = (*influxstorage.Backend)(nil)
)

// NewBackend creates a journal backend based on configuration. The returned
// backend still needs Init.
func NewBackend(cfg config.StorageConfig, logger *slog.Logger, dbLog zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return memory.New(cfg.Memory), nil
	case TypeSQLite:
		return sqlitestorage.New(cfg.SQLite, database.NewManager(dbLog), logger)
	case TypePostgres:
		return postgres.New(cfg.Postgres, database.NewManager(dbLog), logger), nil
	case TypeInflux:
		return influxstorage.New(cfg.Influx, dbLog), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
