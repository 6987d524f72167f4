package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/internal/dispatcher"
	"github.com/OCAP2/skirmish/internal/match"
	"github.com/OCAP2/skirmish/internal/parser"
	"github.com/OCAP2/skirmish/internal/storage/memory"
	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
)

type readerSource struct {
	reader *sdkmetric.ManualReader
}

func (r readerSource) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	err := r.reader.Collect(ctx, &rm)
	return rm, err
}

type harness struct {
	d       *dispatcher.Dispatcher
	session *match.Session
	journal *memory.Backend
}

func newHarness(t *testing.T, withMetrics bool) harness {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	journal := memory.New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, journal.Init())
	session, err := match.NewSession(match.Options{
		Rows:   5,
		Cols:   5,
		Rules:  unit.DefaultRules(),
		Tag:    "Handlers",
		Logger: logger,
		Meter:  mp.Meter("test"),
	}, journal)
	require.NoError(t, err)

	d, err := dispatcher.New(logger)
	require.NoError(t, err)

	deps := Dependencies{Session: session, Logger: logger}
	if withMetrics {
		deps.Metrics = readerSource{reader: reader}
	}
	NewService(deps).Register(d)
	return harness{d: d, session: session, journal: journal}
}

func (h harness) run(t *testing.T, line string) (any, error) {
	t.Helper()
	e, ok := parser.ParseLine(line, time.Now())
	require.True(t, ok, "line %q produced no event", line)
	return h.d.Dispatch(e)
}

func TestRegister_AllCommands(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t,
		[]string{"attack", "board", "help", "metrics", "move", "place", "reload", "status"},
		h.d.Commands())
}

func TestPlaceMoveReload(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.run(t, "place medic west 0 0 20 5 3 4")
	require.NoError(t, err)
	assert.Equal(t, "WEST medic placed at (0,0)", out)

	out, err = h.run(t, "move 0 0 1 1")
	require.NoError(t, err)
	assert.Equal(t, "moved (0,0) -> (1,1)", out)

	out, err = h.run(t, "reload 1 1")
	require.NoError(t, err)
	assert.Equal(t, "reloaded (1,1)", out)

	units := h.session.Units()
	require.Len(t, units, 1)
	assert.Equal(t, core.Pt(1, 1), units[0].Position())
}

func TestAttack_ReportsEliminations(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run(t, "place medic west 0 0 20 5 3 4")
	require.NoError(t, err)
	_, err = h.run(t, "place sniper east 0 3 10 2 4 25")
	require.NoError(t, err)

	out, err := h.run(t, "attack 0 3 0 0")
	require.NoError(t, err)
	assert.Equal(t, "attack (0,3) -> (0,0), eliminated: WEST medic at (0,0)", out)

	status, err := h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, status, "winner EAST")
	assert.Len(t, h.journal.Eliminations(), 1)
}

func TestCommandErrors(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run(t, "place medic west 0 0")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = h.run(t, "move 0 0 1 1")
	assert.Error(t, err)

	_, err = h.run(t, "reload x 1")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = h.run(t, "jump 0 0")
	assert.ErrorIs(t, err, dispatcher.ErrUnknownCommand)
}

func TestBoardAndHelp(t *testing.T) {
	h := newHarness(t, false)

	board, err := h.run(t, "board")
	require.NoError(t, err)
	assert.NotEmpty(t, board)

	help, err := h.run(t, "help")
	require.NoError(t, err)
	assert.Contains(t, help, "place <kind> <team> <row> <col> <health> <ammo> <range> <power>")
	assert.Contains(t, help, "reload <row> <col>")
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, true)
	_, err := h.run(t, "place medic west 0 0 20 5 3 4")
	require.NoError(t, err)

	out, err := h.run(t, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "match.actions 1")

	disabled := newHarness(t, false)
	out, err = disabled.run(t, "metrics")
	require.NoError(t, err)
	assert.Equal(t, "metrics disabled", out)
}
