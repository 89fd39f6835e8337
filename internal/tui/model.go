// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chordrill/internal/difficulty"
	"github.com/verte-zerg/chordrill/internal/engine"
	"github.com/verte-zerg/chordrill/internal/model"
	"github.com/verte-zerg/chordrill/internal/queue"
	statsPkg "github.com/verte-zerg/chordrill/internal/stats"
)

// Store is the persistence the practice UI needs.
type Store interface {
	InsertSession(ctx context.Context, stats model.SessionStats) (string, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	SaveAnkiMode(ctx context.Context, on bool) error
	SaveAlwaysReveal(ctx context.Context, on bool) error
}

// Options configures the practice UI.
type Options struct {
	Config  model.Config
	Display model.DisplaySettings
	Source  engine.Source
	Scorer  *difficulty.Scorer
	Store   Store
	Rand    queue.RandomSource
}

// Model implements the Bubble Tea practice UI and the engine's Presenter.
type Model struct {
	display model.DisplaySettings
	store   Store
	engine  *engine.Engine
	sched   *teaScheduler
	input   textinput.Model

	width  int
	height int

	current engine.Presentation
	flash   bool
	reveal  *engine.Reveal
	anki    bool
	always  bool

	currentStyle lipgloss.Style

	hasLast      bool
	lastWPM      int
	allWPM       int
	allWords     int
	allDuration  int64
	sessionCount int
}

var (
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	flashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8FF9"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel builds the UI and starts the first session.
func NewModel(opts Options) (*Model, error) {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "type the word"
	input.CharLimit = 256
	input.Focus()

	accent := opts.Display.Accent
	if accent == "" {
		accent = model.DefaultSettings().Display.Accent
	}
	m := &Model{
		display:      opts.Display,
		store:        opts.Store,
		sched:        &teaScheduler{},
		input:        input,
		anki:         opts.Config.Anki,
		always:       opts.Config.AlwaysReveal,
		currentStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
	}
	m.engine = engine.New(engine.Options{
		Source:       opts.Source,
		Scorer:       opts.Scorer,
		Rand:         opts.Rand,
		Scheduler:    m.sched,
		Presenter:    m,
		AdvanceDelay: opts.Config.AdvanceDelay,
		SpeakWhole:   opts.Config.SpeakWhole || opts.Display.SpeakWhole,
		AlwaysReveal: opts.Config.AlwaysReveal,
	})
	if err := m.engine.Start(opts.Config.Categories, m.anki); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Show implements engine.Presenter.
func (m *Model) Show(p engine.Presentation) {
	m.current = p
	m.reveal = nil
}

// Flash implements engine.Presenter.
func (m *Model) Flash(on bool) {
	m.flash = on
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width/3)
	case deferredMsg:
		msg.run()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.finishSession()
			return tea.Quit
		case tea.KeyEsc:
			m.engine.TogglePause()
		case tea.KeyTab:
			if r, ok := m.engine.RevealCurrentChord(); ok {
				m.reveal = &r
			}
		case tea.KeyCtrlR:
			m.restart()
		case tea.KeyCtrlA:
			m.anki = !m.anki
			m.persist("anki mode", func(ctx context.Context) error { return m.store.SaveAnkiMode(ctx, m.anki) })
		case tea.KeyCtrlT:
			m.always = !m.always
			m.engine.SetAlwaysReveal(m.always)
			m.persist("always-reveal", func(ctx context.Context) error { return m.store.SaveAlwaysReveal(ctx, m.always) })
		default:
			m.input, cmd = m.input.Update(msg)
			m.checkInput()
		}
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderContent() string {
	if m.current.DisplayText == "" {
		return ""
	}
	base := itemStyle
	current := m.currentStyle
	if m.flash {
		base, current = flashStyle, flashStyle
	}
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(1, int(float64(m.width)*0.70))
	}
	runes := buildStyledText(m.current.DisplayText, m.current.UnderlineSubWord, base, current)
	lines := []string{wrapStyledRunes(runes, contentWidth), ""}

	switch {
	case m.engine.State() == engine.Paused:
		lines = append(lines, pausedStyle.Render("paused · esc to resume"))
	case m.reveal != nil && m.reveal.Sentence:
		lines = append(lines, hintStyle.Render(fmt.Sprintf("%s → %s", m.reveal.Word, m.reveal.Chord)))
	case m.reveal != nil:
		lines = append(lines, hintStyle.Render(m.reveal.Chord))
	case m.current.Hint != "":
		lines = append(lines, hintStyle.Render(m.current.Hint))
	default:
		lines = append(lines, pendingStyle.Render("tab reveals the chord"))
	}
	lines = append(lines, "", m.input.View())
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFooter() string {
	st := m.engine.Stats()
	mode := "shuffle"
	if m.engine.Adaptive() {
		mode = "anki"
	}
	if m.anki != m.engine.Adaptive() {
		mode += fmt.Sprintf(" (next: %s)", modeName(m.anki))
	}
	segments := []string{
		fmt.Sprintf("Words %d", st.WordsCompleted),
		fmt.Sprintf("WPM %d", st.WPM),
		fmt.Sprintf("Mode %s", mode),
	}
	if m.display.ShowTier {
		if tier, ok := m.engine.CurrentTier(); ok {
			segments = append(segments, fmt.Sprintf("Tier %s", tier))
		}
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM", m.lastWPM))
	}
	if m.sessionCount > 0 {
		segments = append(segments, fmt.Sprintf("All-time %d WPM", m.allWPM))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func modeName(anki bool) string {
	if anki {
		return "anki"
	}
	return "shuffle"
}

func (m *Model) checkInput() {
	if m.engine.Submit(m.input.Value()) {
		m.input.SetValue("")
		m.reveal = nil
	}
}

func (m *Model) restart() {
	m.finishSession()
	if err := m.engine.Restart(m.anki); err != nil {
		logErrf("failed to restart session: %v\n", err)
	}
	m.flash = false
	m.input.SetValue("")
}

// finishSession stops the engine and stores the session when words were typed.
func (m *Model) finishSession() {
	summary, ok := m.engine.Stop()
	if !ok || m.store == nil {
		return
	}
	if _, err := m.store.InsertSession(context.Background(), summary); err != nil {
		logErrf("failed to save session: %v\n", err)
		return
	}
	m.addSession(summary.WordsCompleted, summary.DurationMs)
}

func (m *Model) addSession(words int, durationMs int64) {
	m.lastWPM = statsPkg.SessionWPM(model.SessionAggregate{WordsCompleted: words, DurationMs: durationMs})
	m.hasLast = true
	m.allWords += words
	m.allDuration += durationMs
	m.sessionCount++
	m.allWPM = statsPkg.SessionWPM(model.SessionAggregate{WordsCompleted: m.allWords, DurationMs: m.allDuration})
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	for _, s := range sessions {
		m.addSession(s.WordsCompleted, s.DurationMs)
	}
}

func (m *Model) persist(what string, save func(ctx context.Context) error) {
	if m.store == nil {
		return
	}
	if err := save(context.Background()); err != nil {
		logErrf("failed to save %s: %v\n", what, err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
