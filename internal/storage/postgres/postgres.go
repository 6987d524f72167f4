// Package postgres journals matches to PostgreSQL through the GORM backend.
package postgres

import (
	"errors"
	"log/slog"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/internal/database"
	gormstorage "github.com/OCAP2/skirmish/internal/storage/gorm"
)

// Backend wraps the GORM backend; the connection is opened by Init.
type Backend struct {
	*gormstorage.Backend
	mgr *database.Manager
	cfg config.PostgresConfig
	log *slog.Logger
}

func New(cfg config.PostgresConfig, mgr *database.Manager, logger *slog.Logger) *Backend {
	return &Backend{mgr: mgr, cfg: cfg, log: logger}
}

// Init connects, migrates the schema and starts the writer.
func (b *Backend) Init() error {
	if err := b.mgr.ConnectPostgres(b.cfg); err != nil {
		return err
	}
	if err := b.mgr.Setup(); err != nil {
		return err
	}
	b.Backend = gormstorage.New(gormstorage.Dependencies{DB: b.mgr.DB, Logger: b.log})
	return b.Backend.Init()
}

func (b *Backend) Close() error {
	var errs []error
	if b.Backend != nil {
		errs = append(errs, b.Backend.Close())
	}
	errs = append(errs, b.mgr.Close())
	return errors.Join(errs...)
}
