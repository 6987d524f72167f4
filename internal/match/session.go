// Package match runs one engine instance as a journaled session. Every
// action is recorded through a storage.Backend, whether it succeeded or not,
// and counted through OpenTelemetry.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/skirmish/internal/cache"
	"github.com/OCAP2/skirmish/internal/game"
	"github.com/OCAP2/skirmish/internal/storage"
	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/skirmish/internal/match"

var (
	errClosed  = errors.New("session closed")
	errDecided = errors.New("match already decided")
)

// Options configures a Session.
type Options struct {
	Rows   int
	Cols   int
	Rules  unit.Rules
	Tag    string
	Logger *slog.Logger
	// Meter defaults to the global OTel meter.
	Meter metric.Meter
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session serializes engine calls and journals their outcome. It is safe for
// concurrent use.
type Session struct {
	mu      sync.Mutex
	game    *game.Game
	backend storage.Backend
	units   *cache.UnitCache
	seq     cache.SafeCounter
	match   core.Match
	log     *slog.Logger
	now     func() time.Time

	ended  bool
	closed bool

	actions      metric.Int64Counter
	eliminations metric.Int64Counter
}

// Status summarizes a session.
type Status struct {
	UUID    string
	Tag     string
	Actions uint
	West    int
	East    int
	Over    bool
	Winner  core.Team
	// Ended is set once an elimination has decided the match.
	Ended bool
}

func (s Status) String() string {
	state := "in progress"
	if s.Over {
		state = "winner " + s.Winner.String()
	} else if s.West+s.East == 0 {
		state = "empty board"
	}
	return fmt.Sprintf("match %s: %d actions, WEST %d, EAST %d, %s", s.UUID, s.Actions, s.West, s.East, state)
}

// NewSession creates the engine and starts a match on backend. The backend
// must already be initialized.
func NewSession(opts Options, backend storage.Backend) (*Session, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", core.ErrInvalidArgument)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	g, err := game.New(opts.Rows, opts.Cols, game.WithRules(opts.Rules), game.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	s := &Session{
		game:    g,
		backend: backend,
		units:   cache.NewUnitCache(),
		now:     now,
		match: core.Match{
			UUID:      uuid.NewString(),
			Rows:      opts.Rows,
			Cols:      opts.Cols,
			StartTime: now(),
			Tag:       opts.Tag,
		},
	}
	s.log = logger.With("match_id", s.match.UUID)

	s.actions, err = meter.Int64Counter(
		"match.actions",
		metric.WithDescription("Engine actions attempted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating actions counter: %w", err)
	}
	s.eliminations, err = meter.Int64Counter(
		"match.eliminations",
		metric.WithDescription("Units removed from the board"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating eliminations counter: %w", err)
	}

	if err := backend.StartMatch(&s.match); err != nil {
		return nil, fmt.Errorf("starting match journal: %w", err)
	}
	s.log.Info("match started", "rows", opts.Rows, "cols", opts.Cols, "tag", opts.Tag)
	return s, nil
}

// Match returns the journaled match header.
func (s *Session) Match() core.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match
}

// Place creates a unit and puts it on the board at p.
func (s *Session) Place(kind core.Kind, team core.Team, stats unit.Stats, p core.GridPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accepting(); err != nil {
		return err
	}

	seq := s.seq.Next()
	ev := core.ActionEvent{
		Seq:    seq,
		Time:   s.now(),
		Action: core.ActionPlace,
		Source: p,
		Target: p,
		Details: map[string]any{
			"kind": kind.String(),
			"team": team.String(),
		},
	}

	u, err := unit.New(kind, team, stats, s.game.Rules())
	if err == nil {
		err = s.game.AddUnit(p, u)
	}
	if err != nil {
		s.journalAction(ev, err)
		return err
	}

	rec := core.UnitRecord{
		Kind:      kind,
		Team:      team,
		Health:    stats.Health,
		Ammo:      stats.Ammo,
		Range:     stats.Range,
		Power:     stats.Power,
		Position:  p,
		PlacedAt:  ev.Time,
		ActionSeq: seq,
	}
	if jerr := s.backend.AddUnit(&rec); jerr != nil {
		s.log.Warn("failed to journal unit", "error", jerr)
	} else {
		s.units.Add(u, rec.ID)
	}
	ev.ActorID = s.units.IDRef(u)
	s.journalAction(ev, nil)
	return nil
}

// Move relocates the unit at src to dst.
func (s *Session) Move(src, dst core.GridPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accepting(); err != nil {
		return err
	}

	ev := s.newAction(core.ActionMove, src, dst)
	err := s.game.Move(src, dst)
	s.journalAction(ev, err)
	return err
}

// Attack resolves an attack from src on dst and returns the casualties.
func (s *Session) Attack(src, dst core.GridPoint) ([]unit.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accepting(); err != nil {
		return nil, err
	}

	ev := s.newAction(core.ActionAttack, src, dst)
	casualties, err := s.game.Attack(src, dst)
	if err != nil {
		s.journalAction(ev, err)
		return nil, err
	}

	ev.Details = map[string]any{"eliminated": len(casualties)}
	s.journalAction(ev, nil)

	for _, c := range casualties {
		s.journalElimination(ev, c)
	}
	// the match ends on the attack that removes a team's last unit
	if winner, over := s.game.IsOver(); over && len(casualties) > 0 && !s.ended {
		s.log.Info("match over", "winner", winner.String(), "loser", winner.Opponent().String())
		if err := s.endMatch(); err != nil {
			s.log.Warn("failed to journal result", "error", err)
		}
	}
	return casualties, nil
}

// Reload refills the magazine of the unit at p.
func (s *Session) Reload(p core.GridPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accepting(); err != nil {
		return err
	}

	ev := s.newAction(core.ActionReload, p, p)
	err := s.game.Reload(p)
	s.journalAction(ev, err)
	return err
}

// Board renders the current board.
func (s *Session) Board() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.String()
}

// Units returns the live roster.
func (s *Session) Units() []unit.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Units()
}

// Status reports team sizes, the action count and whether the game is over.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) status() Status {
	st := Status{UUID: s.match.UUID, Tag: s.match.Tag, Actions: s.seq.Value()}
	for _, u := range s.game.Units() {
		switch u.Team() {
		case core.TeamWest:
			st.West++
		case core.TeamEast:
			st.East++
		}
	}
	st.Winner, st.Over = s.game.IsOver()
	st.Ended = s.ended
	return st
}

// Close writes the match result if the game never ended and stops accepting
// actions. The backend is left open for its owner to close.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ended {
		return nil
	}
	return s.endMatch()
}

// accepting rejects actions after Close or once an elimination has decided
// the match; the journal is final at that point.
func (s *Session) accepting() error {
	if s.closed {
		return errClosed
	}
	if s.ended {
		return errDecided
	}
	return nil
}

func (s *Session) newAction(action string, src, dst core.GridPoint) core.ActionEvent {
	return core.ActionEvent{
		Seq:     s.seq.Next(),
		Time:    s.now(),
		Action:  action,
		ActorID: s.units.IDRef(s.game.UnitAt(src)),
		Source:  src,
		Target:  dst,
	}
}

func (s *Session) journalAction(ev core.ActionEvent, err error) {
	outcome := "ok"
	ev.OK = err == nil
	if err != nil {
		outcome = "failed"
		ev.Error = err.Error()
		s.log.Debug("action rejected", "action", ev.Action, "seq", ev.Seq, "source", ev.Source, "target", ev.Target, "error", err)
	}
	s.actions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("action", ev.Action),
		attribute.String("outcome", outcome),
	))
	if jerr := s.backend.RecordAction(&ev); jerr != nil {
		s.log.Warn("failed to journal action", "action", ev.Action, "seq", ev.Seq, "error", jerr)
	}
}

func (s *Session) journalElimination(ev core.ActionEvent, victim unit.Unit) {
	e := core.EliminationEvent{
		Seq:      ev.Seq,
		Time:     ev.Time,
		KillerID: ev.ActorID,
		Team:     victim.Team(),
		Position: victim.Position(),
		Health:   victim.Health(),
	}
	if id, ok := s.units.ID(victim); ok {
		e.VictimID = id
	}
	s.units.Remove(victim)

	s.eliminations.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("team", victim.Team().String()),
	))
	if err := s.backend.RecordElimination(&e); err != nil {
		s.log.Warn("failed to journal elimination", "seq", ev.Seq, "error", err)
	}
}

func (s *Session) endMatch() error {
	st := s.status()
	s.ended = true
	result := core.MatchResult{
		Time:     s.now(),
		Over:     st.Over,
		Winner:   st.Winner,
		Actions:  st.Actions,
		Survivor: st.West + st.East,
	}
	if err := s.backend.EndMatch(&result); err != nil {
		return fmt.Errorf("ending match journal: %w", err)
	}
	if exp, ok := s.backend.(storage.Exportable); ok && exp.ExportedFilePath() != "" {
		s.log.Info("match journal written", "path", exp.ExportedFilePath())
	}
	return nil
}
