// Package sqlitestorage journals matches to SQLite through the GORM backend.
// With no path the database lives in memory and can be snapshotted to
// DumpPath when the backend closes.
package sqlitestorage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/internal/database"
	gormstorage "github.com/OCAP2/skirmish/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	mgr *database.Manager
	cfg config.SQLiteConfig
	log *slog.Logger
}

// New opens the SQLite database. The schema is migrated by Init.
func New(cfg config.SQLiteConfig, mgr *database.Manager, logger *slog.Logger) (*Backend, error) {
	if err := mgr.ConnectSqlite(cfg.Path); err != nil {
		return nil, err
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: mgr.DB, Logger: logger}),
		mgr:     mgr,
		cfg:     cfg,
		log:     logger,
	}, nil
}

// Init migrates the schema and starts the embedded writer.
func (b *Backend) Init() error {
	if err := b.mgr.Setup(); err != nil {
		return err
	}
	return b.Backend.Init()
}

// Close flushes the journal, dumps an in-memory database when configured
// and closes the connection.
func (b *Backend) Close() error {
	var errs []error
	if err := b.Backend.Close(); err != nil {
		errs = append(errs, err)
	}
	if b.cfg.Path == "" && b.cfg.DumpPath != "" {
		if err := b.mgr.DumpMemoryToDisk(b.cfg.DumpPath); err != nil {
			errs = append(errs, fmt.Errorf("sqlite dump: %w", err))
		} else if b.log != nil {
			b.log.Info("journal dumped", "path", b.cfg.DumpPath)
		}
	}
	if err := b.mgr.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ExportedFilePath returns where the journal is on disk, if anywhere.
func (b *Backend) ExportedFilePath() string {
	if b.cfg.Path != "" {
		return b.cfg.Path
	}
	return b.cfg.DumpPath
}
