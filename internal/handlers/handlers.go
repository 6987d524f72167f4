// Package handlers binds text commands to a match session.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/OCAP2/skirmish/internal/dispatcher"
	"github.com/OCAP2/skirmish/internal/match"
	skotel "github.com/OCAP2/skirmish/internal/otel"
	"github.com/OCAP2/skirmish/internal/parser"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// MetricsSource yields the current metric snapshot. *otel.Provider satisfies it.
type MetricsSource interface {
	Collect(ctx context.Context) (metricdata.ResourceMetrics, error)
}

// Dependencies holds the collaborators used by command handlers.
type Dependencies struct {
	Session *match.Session
	Logger  *slog.Logger
	Metrics MetricsSource
}

// Service implements one handler per command.
type Service struct {
	deps Dependencies
	help func() []string
}

// NewService creates a handler service.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// Register installs every command on d.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	s.help = d.Help

	d.Register("place", s.Place, dispatcher.Logged(),
		dispatcher.Usage("place <kind> <team> <row> <col> <health> <ammo> <range> <power>"))
	d.Register("move", s.Move, dispatcher.Logged(),
		dispatcher.Usage("move <row> <col> <row> <col>"))
	d.Register("attack", s.Attack, dispatcher.Logged(),
		dispatcher.Usage("attack <row> <col> <row> <col>"))
	d.Register("reload", s.Reload, dispatcher.Logged(),
		dispatcher.Usage("reload <row> <col>"))
	d.Register("board", s.Board, dispatcher.Usage("board"))
	d.Register("status", s.Status, dispatcher.Usage("status"))
	d.Register("help", s.Help, dispatcher.Usage("help"))
	d.Register("metrics", s.Metrics, dispatcher.Usage("metrics"))
}

// Place puts a new unit on the board.
func (s *Service) Place(e dispatcher.Event) (any, error) {
	p, err := parser.ParsePlace(e.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.Place(p.Kind, p.Team, p.Stats, p.Point); err != nil {
		return nil, err
	}
	return fmt.Sprintf("%s %s placed at %s", p.Team, p.Kind, p.Point), nil
}

// Move relocates a unit.
func (s *Service) Move(e dispatcher.Event) (any, error) {
	src, dst, err := parser.ParseSourceTarget(e.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.Move(src, dst); err != nil {
		return nil, err
	}
	return fmt.Sprintf("moved %s -> %s", src, dst), nil
}

// Attack fires from one square at another and reports eliminations.
func (s *Service) Attack(e dispatcher.Event) (any, error) {
	src, dst, err := parser.ParseSourceTarget(e.Args)
	if err != nil {
		return nil, err
	}
	casualties, err := s.deps.Session.Attack(src, dst)
	if err != nil {
		return nil, err
	}
	if len(casualties) == 0 {
		return fmt.Sprintf("attack %s -> %s", src, dst), nil
	}
	names := make([]string, 0, len(casualties))
	for _, u := range casualties {
		names = append(names, fmt.Sprintf("%s %s at %s", u.Team(), u.Kind(), u.Position()))
	}
	return fmt.Sprintf("attack %s -> %s, eliminated: %s", src, dst, strings.Join(names, ", ")), nil
}

// Reload refills a unit's ammunition.
func (s *Service) Reload(e dispatcher.Event) (any, error) {
	p, err := parser.ParseSingle(e.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.Reload(p); err != nil {
		return nil, err
	}
	return fmt.Sprintf("reloaded %s", p), nil
}

// Board renders the grid.
func (s *Service) Board(dispatcher.Event) (any, error) {
	return s.deps.Session.Board(), nil
}

// Status summarizes the match.
func (s *Service) Status(dispatcher.Event) (any, error) {
	return s.deps.Session.Status().String(), nil
}

// Help lists the available commands.
func (s *Service) Help(dispatcher.Event) (any, error) {
	if s.help == nil {
		return "", nil
	}
	return strings.Join(s.help(), "\n"), nil
}

// Metrics prints counter totals, one per line.
func (s *Service) Metrics(dispatcher.Event) (any, error) {
	if s.deps.Metrics == nil {
		return "metrics disabled", nil
	}
	rm, err := s.deps.Metrics.Collect(context.Background())
	if err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}
	sums := skotel.Sums(rm)
	if len(sums) == 0 {
		return "metrics disabled", nil
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s %d", name, sums[name]))
	}
	return strings.Join(lines, "\n"), nil
}
