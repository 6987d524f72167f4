package dispatcher

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownCommand is returned by Dispatch for unregistered commands.
var ErrUnknownCommand = errors.New("unknown command")

// Event is one parsed command line.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
	usage  string
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Usage attaches a one-line usage string shown by Help.
func Usage(u string) Option {
	return func(c *config) {
		c.usage = u
	}
}

// Dispatcher routes events to registered handlers. Handlers run synchronously
// on the caller's goroutine, so commands apply in the order they arrive.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	usage    map[string]string
	logger   Logger
	metrics  commandMetrics
}

// New creates a Dispatcher that logs through logger.
func New(logger Logger) (*Dispatcher, error) {
	metrics, err := newCommandMetrics()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		usage:    make(map[string]string),
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Register adds a handler for the given command with optional configuration.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if cfg.logged {
		handler = d.withLogging(command, handler)
	}

	d.handlers[command] = handler
	if cfg.usage != "" {
		d.usage[command] = cfg.usage
	}
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
		d.metrics.record(e.Command, false, err)
		return nil, err
	}

	result, err := h(e)
	d.metrics.record(e.Command, true, err)
	return result, err
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help returns one usage line per command, sorted by name.
func (d *Dispatcher) Help() []string {
	lines := make([]string, 0, len(d.handlers))
	for _, name := range d.Commands() {
		if u, ok := d.usage[name]; ok {
			lines = append(lines, u)
		} else {
			lines = append(lines, name)
		}
	}
	return lines
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling command", "command", command, "args", len(e.Args))

		result, err := h(e)

		if err != nil {
			d.logger.Error("command failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", command, "duration", time.Since(start))
		}

		return result, err
	}
}
