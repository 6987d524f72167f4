// Package influxstorage journals matches as InfluxDB points. When the server
// cannot be reached, points are appended as gzipped line protocol to a backup
// file instead.
package influxstorage

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/pkg/core"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

// Measurement names.
const (
	MeasurementUnit        = "unit_placed"
	MeasurementAction      = "action"
	MeasurementElimination = "elimination"
	MeasurementResult      = "match_result"
)

// retention applied to a bucket this backend creates
const retentionSeconds = 60 * 60 * 24 * 90

// Backend implements storage.Backend on top of the InfluxDB client.
type Backend struct {
	cfg    config.InfluxConfig
	Logger zerolog.Logger

	client     influxdb2.Client
	writer     influxdb2_api.WriteAPI
	backup     *gzip.Writer
	backupFile *os.File
	valid      bool

	mu        sync.Mutex
	match     *core.Match
	idCounter uint
}

func New(cfg config.InfluxConfig, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, Logger: log}
}

// Init connects to InfluxDB, creating the org and bucket when missing. An
// unreachable server switches the backend to the backup file.
func (b *Backend) Init() error {
	b.client = influxdb2.NewClientWithOptions(
		b.cfg.URL(),
		b.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	running, err := b.client.Ping(ctx)
	if err != nil || !running {
		b.client.Close()
		b.client = nil
		b.Logger.Warn().Err(err).Str("backupPath", b.cfg.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return b.openBackup()
	}

	if err := b.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}

	b.writer = b.client.WriteAPI(b.cfg.Org, b.cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			b.Logger.Error().Err(writeErr).Str("bucket", b.cfg.Bucket).Msg("Error sending data to InfluxDB")
		}
	}(b.writer.Errors())

	b.valid = true
	b.Logger.Info().Str("url", b.cfg.URL()).Str("bucket", b.cfg.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (b *Backend) openBackup() error {
	if b.cfg.BackupPath == "" {
		return fmt.Errorf("influxdb unreachable and no backup path configured")
	}
	if err := os.MkdirAll(filepath.Dir(b.cfg.BackupPath), 0755); err != nil {
		return fmt.Errorf("error creating backup directory: %w", err)
	}
	f, err := os.OpenFile(b.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	b.backupFile = f
	b.backup = gzip.NewWriter(f)
	return nil
}

func (b *Backend) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := b.client.OrganizationsAPI()
	org, err := orgs.FindOrganizationByName(ctx, b.cfg.Org)
	if err != nil {
		b.Logger.Info().Str("org", b.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, b.cfg.Org)
		if err != nil {
			return fmt.Errorf("error creating organization %s: %w", b.cfg.Org, err)
		}
	}

	buckets := b.client.BucketsAPI()
	if _, err := buckets.FindBucketByName(ctx, b.cfg.Bucket); err != nil {
		b.Logger.Info().Str("bucket", b.cfg.Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = buckets.CreateBucketWithName(ctx, org, b.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: retentionSeconds,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %s: %w", b.cfg.Bucket, err)
		}
	}
	return nil
}

// Close flushes pending points and releases the client or backup file.
func (b *Backend) Close() error {
	if b.writer != nil {
		b.writer.Flush()
	}
	if b.client != nil {
		b.client.Close()
	}
	if b.backup != nil {
		if err := b.backup.Close(); err != nil {
			return fmt.Errorf("error closing backup writer: %w", err)
		}
		return b.backupFile.Close()
	}
	return nil
}

func (b *Backend) write(point *influxdb2_write.Point) error {
	if b.valid {
		b.writer.WritePoint(point)
		return nil
	}
	if b.backup == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := b.backup.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

func (b *Backend) nextID() uint {
	b.idCounter++
	return b.idCounter
}

func (b *Backend) StartMatch(m *core.Match) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.idCounter = 0
	m.ID = b.nextID()
	b.match = m
	return nil
}

func (b *Backend) current() (*core.Match, error) {
	if b.match == nil {
		return nil, fmt.Errorf("no match started")
	}
	return b.match, nil
}

func (b *Backend) AddUnit(u *core.UnitRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, err := b.current()
	if err != nil {
		return err
	}
	u.ID = b.nextID()
	return b.write(UnitPoint(m, *u))
}

func (b *Backend) RecordAction(e *core.ActionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, err := b.current()
	if err != nil {
		return err
	}
	e.ID = b.nextID()
	return b.write(ActionPoint(m, *e))
}

func (b *Backend) RecordElimination(e *core.EliminationEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, err := b.current()
	if err != nil {
		return err
	}
	e.ID = b.nextID()
	return b.write(EliminationPoint(m, *e))
}

func (b *Backend) EndMatch(r *core.MatchResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, err := b.current()
	if err != nil {
		return err
	}
	if err := b.write(ResultPoint(m, *r)); err != nil {
		return err
	}
	if b.writer != nil {
		b.writer.Flush()
	}
	if b.backup != nil {
		return b.backup.Flush()
	}
	return nil
}

func matchPoint(measurement string, m *core.Match, ts time.Time) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement(measurement).
		AddTag("match", m.UUID).
		SetTime(ts)
	if m.Tag != "" {
		p.AddTag("tag", m.Tag)
	}
	return p
}

// UnitPoint builds the point written when a unit is placed.
func UnitPoint(m *core.Match, u core.UnitRecord) *influxdb2_write.Point {
	return matchPoint(MeasurementUnit, m, u.PlacedAt).
		AddTag("kind", u.Kind.String()).
		AddTag("team", u.Team.String()).
		AddField("id", int64(u.ID)).
		AddField("seq", int64(u.ActionSeq)).
		AddField("health", u.Health).
		AddField("ammo", u.Ammo).
		AddField("range", u.Range).
		AddField("power", u.Power).
		AddField("row", u.Position.Row).
		AddField("col", u.Position.Col)
}

// ActionPoint builds the point for one action. Failed actions carry the error
// text in the "error" field.
func ActionPoint(m *core.Match, e core.ActionEvent) *influxdb2_write.Point {
	p := matchPoint(MeasurementAction, m, e.Time).
		AddTag("action", e.Action).
		AddTag("ok", fmt.Sprintf("%t", e.OK)).
		AddField("seq", int64(e.Seq)).
		AddField("source_row", e.Source.Row).
		AddField("source_col", e.Source.Col).
		AddField("target_row", e.Target.Row).
		AddField("target_col", e.Target.Col)
	if e.ActorID != nil {
		p.AddField("actor", int64(*e.ActorID))
	}
	if e.Error != "" {
		p.AddField("error", e.Error)
	}
	for k, v := range e.Details {
		switch v.(type) {
		case int, int64, uint, float64, bool, string:
			p.AddField("detail_"+k, v)
		}
	}
	return p
}

func EliminationPoint(m *core.Match, e core.EliminationEvent) *influxdb2_write.Point {
	p := matchPoint(MeasurementElimination, m, e.Time).
		AddTag("team", e.Team.String()).
		AddField("seq", int64(e.Seq)).
		AddField("victim", int64(e.VictimID)).
		AddField("health", e.Health).
		AddField("row", e.Position.Row).
		AddField("col", e.Position.Col)
	if e.KillerID != nil {
		p.AddField("killer", int64(*e.KillerID))
	}
	return p
}

func ResultPoint(m *core.Match, r core.MatchResult) *influxdb2_write.Point {
	winner := "none"
	if r.Winner.Valid() {
		winner = r.Winner.String()
	}
	return matchPoint(MeasurementResult, m, r.Time).
		AddTag("winner", winner).
		AddField("over", r.Over).
		AddField("actions", int64(r.Actions)).
		AddField("survivors", r.Survivor)
}
