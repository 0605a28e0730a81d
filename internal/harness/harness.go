package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/plotstore/internal/render"
	"github.com/roach88/plotstore/internal/store"
)

// Session is a played scenario: a fresh store holding its pages, the
// recorder that drew them and the renderer registry used to inspect them.
type Session struct {
	Scenario  *Scenario
	Store     *store.Store
	Recorder  *Recorder
	Renderers *render.Manager
	logger    *slog.Logger
}

// Play executes the scenario's page programs against a fresh store.
// Portable SVG clip ids use the fixed token "t" so output is
// reproducible.
func Play(scenario *Scenario) (*Session, error) {
	st := store.New()
	sess := &Session{
		Scenario:  scenario,
		Store:     st,
		Recorder:  NewRecorder(st),
		Renderers: render.Default(render.Options{Tokens: render.NewSequenceGenerator("t")}),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ids, err := sess.Recorder.Play(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to play scenario %q: %w", scenario.Name, err)
	}
	sess.logger.Info("scenario played", "scenario", scenario.Name, "pages", len(ids))

	return sess, nil
}

// Render renders the page at index with the given renderer at the
// scenario scale.
func (s *Session) Render(index int, rendererID string) ([]byte, error) {
	info, ok := s.Renderers.Find(rendererID)
	if !ok {
		return nil, fmt.Errorf("unknown renderer %q", rendererID)
	}
	return s.Store.Render(index, info, s.Scenario.Scale)
}

// Summary describes every page currently in the store.
func (s *Session) Summary() []PageSummary {
	out := []PageSummary{}
	for index, id := range s.Store.QueryAll().IDs {
		page, ok := s.Store.SnapshotID(id)
		if !ok {
			continue
		}
		out = append(out, PageSummary{
			Index:     index,
			ID:        id,
			DrawCalls: len(page.DrawCalls),
			Clips:     len(page.Clips),
		})
	}
	return out
}

// Evaluate checks the scenario's assertions against the session.
func (s *Session) Evaluate() *Result {
	result := NewResult()
	result.Pages = s.Summary()
	for _, msg := range EvaluateAssertions(s, s.Scenario.Assertions) {
		result.AddError(msg)
	}

	s.logger.Info("scenario evaluated",
		"scenario", s.Scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result
}

// Run plays a scenario and evaluates its assertions.
func Run(scenario *Scenario) (*Result, error) {
	sess, err := Play(scenario)
	if err != nil {
		return nil, err
	}
	return sess.Evaluate(), nil
}
