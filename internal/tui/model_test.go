package tui

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/chordrill/internal/engine"
	"github.com/verte-zerg/chordrill/internal/model"
)

type mapSource map[string][]model.Item

func (m mapSource) Items() map[string][]model.Item { return m }

type fakeStore struct {
	inserted []model.SessionStats
	existing []model.SessionAggregate
	anki     []bool
	always   []bool
}

func (f *fakeStore) InsertSession(_ context.Context, stats model.SessionStats) (string, error) {
	f.inserted = append(f.inserted, stats)
	return stats.ID, nil
}

func (f *fakeStore) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.existing, nil
}

func (f *fakeStore) SaveAnkiMode(_ context.Context, on bool) error {
	f.anki = append(f.anki, on)
	return nil
}

func (f *fakeStore) SaveAlwaysReveal(_ context.Context, on bool) error {
	f.always = append(f.always, on)
	return nil
}

func newTestModel(t *testing.T, st *fakeStore, cfg model.Config) *Model {
	t.Helper()
	if cfg.Categories == nil {
		cfg.Categories = []string{"w"}
	}
	m, err := NewModel(Options{
		Config:  cfg,
		Display: model.DefaultSettings().Display,
		Source:  mapSource{"w": {model.NewWord("the", "-T")}},
		Store:   st,
		Rand:    rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func typeText(m *Model, text string) {
	m.handle(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// fireDeferred runs every callback the engine scheduled.
func fireDeferred(m *Model) {
	calls := m.sched.queued
	m.sched.queued = nil
	for _, c := range calls {
		m.handle(deferredMsg{call: c})
	}
}

func TestNewModelEmptySelection(t *testing.T) {
	_, err := NewModel(Options{
		Config: model.Config{Categories: []string{"missing"}},
		Source: mapSource{},
	})
	if err == nil {
		t.Fatalf("expected error for empty selection")
	}
}

func TestTypingCompletesWord(t *testing.T) {
	m := newTestModel(t, &fakeStore{}, model.Config{})

	typeText(m, "th")
	if m.input.Value() != "th" {
		t.Fatalf("expected partial input to stay, got %q", m.input.Value())
	}
	typeText(m, "e ")
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared after match, got %q", m.input.Value())
	}
	if !m.flash {
		t.Fatalf("expected success flash")
	}
	if len(m.sched.queued) != 1 {
		t.Fatalf("expected one deferred call, got %d", len(m.sched.queued))
	}
	fireDeferred(m)
	if m.flash {
		t.Fatalf("expected flash cleared")
	}
	if got := m.engine.Stats().WordsCompleted; got != 1 {
		t.Fatalf("expected 1 word, got %d", got)
	}
}

func TestRevealAndHint(t *testing.T) {
	m := newTestModel(t, &fakeStore{}, model.Config{})
	m.handle(tea.KeyMsg{Type: tea.KeyTab})
	if m.reveal == nil || m.reveal.Chord != "-T" {
		t.Fatalf("expected revealed chord, got %+v", m.reveal)
	}
	if !strings.Contains(m.View(), "-T") {
		t.Fatalf("expected chord in view")
	}
}

func TestTogglesPersist(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st, model.Config{})

	m.handle(tea.KeyMsg{Type: tea.KeyCtrlA})
	m.handle(tea.KeyMsg{Type: tea.KeyCtrlT})
	if len(st.anki) != 1 || !st.anki[0] {
		t.Fatalf("expected anki mode saved, got %v", st.anki)
	}
	if len(st.always) != 1 || !st.always[0] {
		t.Fatalf("expected always-reveal saved, got %v", st.always)
	}
	if m.current.Hint != "-T" {
		t.Fatalf("expected hint after enabling always-reveal, got %q", m.current.Hint)
	}
	if !strings.Contains(m.renderFooter(), "Mode shuffle (next: anki)") {
		t.Fatalf("unexpected footer: %s", m.renderFooter())
	}

	m.handle(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.engine.Adaptive() {
		t.Fatalf("expected restart in anki mode")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	m := newTestModel(t, &fakeStore{}, model.Config{})
	m.handle(tea.KeyMsg{Type: tea.KeyEsc})
	if m.engine.State() != engine.Paused {
		t.Fatalf("expected paused state")
	}
	typeText(m, "the")
	if m.engine.Stats().WordsCompleted != 0 {
		t.Fatalf("expected input ignored while paused")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Fatalf("expected paused notice in view")
	}
	m.handle(tea.KeyMsg{Type: tea.KeyEsc})
	typeText(m, " ")
	if m.engine.Stats().WordsCompleted != 1 {
		t.Fatalf("expected pending input to match after resume")
	}
}

func TestQuitStoresSession(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st, model.Config{})
	typeText(m, "the")

	cmd := m.handle(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if len(st.inserted) != 1 || st.inserted[0].WordsCompleted != 1 {
		t.Fatalf("expected stored session, got %+v", st.inserted)
	}
	if m.engine.State() != engine.Stopped {
		t.Fatalf("expected stopped engine")
	}
}

func TestQuitWithoutWordsStoresNothing(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st, model.Config{})
	m.handle(tea.KeyMsg{Type: tea.KeyCtrlC})
	if len(st.inserted) != 0 {
		t.Fatalf("expected no stored session, got %+v", st.inserted)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	st := &fakeStore{existing: []model.SessionAggregate{
		{SessionID: "a", WordsCompleted: 20, DurationMs: 60000},
		{SessionID: "b", WordsCompleted: 40, DurationMs: 60000},
	}}
	m := newTestModel(t, st, model.Config{})
	out := m.renderFooter()
	if !containsAll(out, []string{"Words 0", "WPM 0", "Mode shuffle", "Tier easiest", "Last 40 WPM", "All-time 30 WPM"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestTeaSchedulerCancel(t *testing.T) {
	s := &teaScheduler{}
	ran := 0
	cancel := s.After(0, func() { ran++ })
	s.After(0, func() { ran++ })
	calls := s.queued
	cancel()

	if cmd := s.drain(); cmd == nil {
		t.Fatalf("expected drain command")
	}
	if s.drain() != nil {
		t.Fatalf("expected nil command for empty queue")
	}
	for _, c := range calls {
		deferredMsg{call: c}.run()
	}
	if ran != 1 {
		t.Fatalf("expected only the live call to run, got %d", ran)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
