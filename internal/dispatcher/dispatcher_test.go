package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.add("DEBUG", msg, keysAndValues) }
func (l *testLogger) Info(msg string, keysAndValues ...any)  { l.add("INFO", msg, keysAndValues) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.add("ERROR", msg, keysAndValues) }

func (l *testLogger) add(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, kv))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	t.Helper()
	logger := &testLogger{}
	d, err := New(logger)
	require.NoError(t, err)
	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Event
	d.Register("move", func(e Event) (any, error) {
		got = e
		return "moved", nil
	})

	result, err := d.Dispatch(Event{Command: "move", Args: []string{"0", "0", "0", "1"}})
	require.NoError(t, err)
	assert.Equal(t, "moved", result)
	assert.Equal(t, []string{"0", "0", "0", "1"}, got.Args)
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(Event{Command: "fly"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "fly")
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("board", func(e Event) (any, error) { return "ok", nil }, Logged())
	_, err := d.Dispatch(Event{Command: "board"})
	require.NoError(t, err)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.messages, 2)
	assert.True(t, strings.HasPrefix(logger.messages[0], "DEBUG: handling command"))
	assert.True(t, strings.HasPrefix(logger.messages[1], "DEBUG: command complete"))
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("attack", func(e Event) (any, error) {
		return nil, fmt.Errorf("out of range")
	}, Logged())
	_, err := d.Dispatch(Event{Command: "attack"})
	require.Error(t, err)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.messages, 2)
	assert.True(t, strings.HasPrefix(logger.messages[1], "ERROR: command failed"))
}

func TestDispatcher_SlogLogger(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	require.NoError(t, err)

	d.Register("status", func(e Event) (any, error) { return nil, nil }, Logged())
	_, err = d.Dispatch(Event{Command: "status"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "command=status")
}

func TestDispatcher_HasHandlerAndHelp(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("reload", func(e Event) (any, error) { return nil, nil }, Usage("reload <row> <col>"))
	d.Register("board", func(e Event) (any, error) { return nil, nil })

	assert.True(t, d.HasHandler("reload"))
	assert.False(t, d.HasHandler("heal"))
	assert.Equal(t, []string{"board", "reload"}, d.Commands())
	assert.Equal(t, []string{"board", "reload <row> <col>"}, d.Help())
}

func TestDispatcher_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(mp)
	t.Cleanup(func() {
		otel.SetMeterProvider(prev)
		_ = mp.Shutdown(context.Background())
	})

	d, _ := newTestDispatcher(t)
	d.Register("ok", func(e Event) (any, error) { return nil, nil })
	d.Register("bad", func(e Event) (any, error) { return nil, fmt.Errorf("nope") })

	_, _ = d.Dispatch(Event{Command: "ok"})
	_, _ = d.Dispatch(Event{Command: "ok"})
	_, _ = d.Dispatch(Event{Command: "bad"})
	_, _ = d.Dispatch(Event{Command: "missing"})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(3), totals["dispatcher.commands.processed"])
	assert.Equal(t, int64(2), totals["dispatcher.commands.failed"])
}
