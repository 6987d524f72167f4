package storage_test

import (
	"log/slog"
	"testing"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/internal/storage"
	influxstorage "github.com/OCAP2/skirmish/internal/storage/influx"
	"github.com/OCAP2/skirmish/internal/storage/memory"
	"github.com/OCAP2/skirmish/internal/storage/postgres"
	sqlitestorage "github.com/OCAP2/skirmish/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		check   func(t *testing.T, b storage.Backend)
		wantErr string
	}{
		{
			name: "memory",
			cfg:  config.StorageConfig{Type: storage.TypeMemory},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &memory.Backend{}, b)
				_, ok := b.(storage.Exportable)
				assert.True(t, ok)
			},
		},
		{
			name: "empty defaults to memory",
			cfg:  config.StorageConfig{},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &memory.Backend{}, b)
			},
		},
		{
			name: "sqlite in memory",
			cfg:  config.StorageConfig{Type: storage.TypeSQLite},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &sqlitestorage.Backend{}, b)
				require.NoError(t, b.Init())
				assert.NoError(t, b.Close())
			},
		},
		{
			name: "postgres",
			cfg:  config.StorageConfig{Type: storage.TypePostgres},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &postgres.Backend{}, b)
			},
		},
		{
			name: "influx",
			cfg:  config.StorageConfig{Type: storage.TypeInflux},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &influxstorage.Backend{}, b)
			},
		},
		{
			name:    "unknown",
			cfg:     config.StorageConfig{Type: "redis"},
			wantErr: "unknown storage type: redis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := storage.NewBackend(tt.cfg, logger, zerolog.Nop())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, b)
		})
	}
}
