// Package engine runs a practice session: queue traversal, answer checking,
// adaptive scoring and WPM accounting.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/verte-zerg/chordrill/internal/difficulty"
	"github.com/verte-zerg/chordrill/internal/model"
	"github.com/verte-zerg/chordrill/internal/queue"
	"github.com/verte-zerg/chordrill/internal/stats"
)

// DefaultAdvanceDelay is the pause between a correct answer and the next item.
const DefaultAdvanceDelay = 300 * time.Millisecond

// ErrEmptySelection is returned by Start when the selection yields no items.
var ErrEmptySelection = errors.New("empty selection")

// State is the playback state.
type State int

// Playback states.
const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Source supplies practice items by category name.
type Source interface {
	Items() map[string][]model.Item
}

// Clock returns the current time.
type Clock func() time.Time

// Stats are the live counters of the running session.
type Stats struct {
	WordsCompleted int
	Revealed       int
	StartedAt      time.Time
	WPM            int
}

// Reveal is the answer for the current position.
type Reveal struct {
	Word     string
	Chord    string
	Sentence bool
}

// Options configures an Engine. Zero values get defaults.
type Options struct {
	Source       Source
	Scorer       *difficulty.Scorer
	Rand         queue.RandomSource
	Clock        Clock
	Scheduler    Scheduler
	Presenter    Presenter
	// AdvanceDelay of zero or less means DefaultAdvanceDelay.
	AdvanceDelay time.Duration
	SpeakWhole   bool
	AlwaysReveal bool
}

// Engine owns all mutable session state.
type Engine struct {
	mu sync.Mutex

	source    Source
	scorer    *difficulty.Scorer
	rand      queue.RandomSource
	now       Clock
	scheduler Scheduler
	presenter Presenter
	delay     time.Duration

	speakWhole   bool
	alwaysReveal bool

	state      State
	adaptive   bool
	selected   []string
	queue      *queue.Queue
	stats      Stats
	generation uint64
	itemStart  time.Time
	revealed   bool
	pausedAt   time.Time
	paused     time.Duration
	pending    func()
}

// New returns a stopped engine.
func New(opts Options) *Engine {
	e := &Engine{
		source:       opts.Source,
		scorer:       opts.Scorer,
		rand:         opts.Rand,
		now:          opts.Clock,
		scheduler:    opts.Scheduler,
		presenter:    opts.Presenter,
		delay:        opts.AdvanceDelay,
		speakWhole:   opts.SpeakWhole,
		alwaysReveal: opts.AlwaysReveal,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.rand == nil {
		e.rand = rand.New(rand.NewSource(e.now().UnixNano()))
	}
	if e.scorer == nil {
		e.scorer = difficulty.NewScorer(context.Background(), nil, difficulty.Clock(e.now))
	}
	if e.scheduler == nil {
		e.scheduler = TimerScheduler{}
	}
	if e.presenter == nil {
		e.presenter = nopPresenter{}
	}
	if e.delay <= 0 {
		e.delay = DefaultAdvanceDelay
	}
	return e
}

// Start builds and orders the queue for selected categories and begins a new
// session. On error the engine state is unchanged.
func (e *Engine) Start(selected []string, adaptive bool) error {
	var source map[string][]model.Item
	if e.source != nil {
		source = e.source.Items()
	}
	items, err := queue.Build(source, selected)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmptySelection, err)
	}

	e.mu.Lock()
	cancel := e.invalidateLocked()
	var order queue.Orderer = queue.Shuffler{Rand: e.rand}
	if adaptive {
		order = e.scorer
	}
	now := e.now()
	e.adaptive = adaptive
	e.selected = append([]string(nil), selected...)
	e.queue = queue.New(items, order)
	e.queue.Reorder()
	e.stats = Stats{StartedAt: now}
	e.paused = 0
	e.pausedAt = time.Time{}
	e.revealed = false
	e.state = Playing
	e.armLocked(now)
	p := e.presentationLocked()
	e.mu.Unlock()

	runCancel(cancel)
	e.presenter.Show(p)
	return nil
}

// Restart starts a new session with the previous selection and the given mode.
func (e *Engine) Restart(adaptive bool) error {
	e.mu.Lock()
	selected := e.selected
	e.mu.Unlock()
	return e.Start(selected, adaptive)
}

// Pause stops accepting input and suspends response timing.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Playing {
		return false
	}
	e.state = Paused
	e.itemStart = time.Time{}
	e.pausedAt = e.now()
	return true
}

// Resume continues a paused session. Response timing restarts from now.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused {
		return false
	}
	now := e.now()
	e.paused += now.Sub(e.pausedAt)
	e.pausedAt = time.Time{}
	e.state = Playing
	e.armLocked(now)
	return true
}

// TogglePause switches between Playing and Paused.
func (e *Engine) TogglePause() State {
	if !e.Pause() {
		e.Resume()
	}
	return e.State()
}

// Submit checks typed against the current word. A mismatch changes nothing.
func (e *Engine) Submit(typed string) bool {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return false
	}
	it, cur := e.queue.Current()
	if normalize(typed) != normalize(it.WordAt(cur.SubWord)) {
		e.mu.Unlock()
		return false
	}

	now := e.now()
	e.stats.WordsCompleted++
	if e.revealed || e.alwaysReveal {
		e.stats.Revealed++
	}
	e.stats.WPM = stats.WordsPerMinute(e.stats.WordsCompleted, now.Sub(e.stats.StartedAt))
	if e.adaptive && !e.itemStart.IsZero() {
		key := difficulty.IdentityOf(it, cur.SubWord)
		e.scorer.RecordResponse(context.Background(), key, now.Sub(e.itemStart).Milliseconds())
	}
	e.queue.Advance()
	e.revealed = false
	e.armLocked(now)
	gen := e.generation
	e.pending = e.scheduler.After(e.delay, func() { e.advanceShown(gen) })
	e.mu.Unlock()

	e.presenter.Flash(true)
	return true
}

func (e *Engine) advanceShown(gen uint64) {
	e.mu.Lock()
	if e.generation != gen || e.state == Stopped {
		e.mu.Unlock()
		return
	}
	p := e.presentationLocked()
	e.mu.Unlock()

	e.presenter.Flash(false)
	e.presenter.Show(p)
}

// RevealCurrentChord returns the answer for the current position.
func (e *Engine) RevealCurrentChord() (Reveal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queue == nil || e.state == Stopped {
		return Reveal{}, false
	}
	it, cur := e.queue.Current()
	_, sentence := it.(*model.Sentence)
	e.revealed = true
	return Reveal{
		Word:     it.WordAt(cur.SubWord),
		Chord:    it.ChordAt(cur.SubWord),
		Sentence: sentence,
	}, true
}

// Stop ends the session. The summary is returned only when a word was completed.
func (e *Engine) Stop() (model.SessionStats, bool) {
	e.mu.Lock()
	if e.state == Stopped {
		e.mu.Unlock()
		return model.SessionStats{}, false
	}
	now := e.now()
	active := now.Sub(e.stats.StartedAt) - e.paused
	if e.state == Paused {
		active -= now.Sub(e.pausedAt)
	}
	summary := model.SessionStats{
		ID:             uuid.NewString(),
		StartedAt:      e.stats.StartedAt,
		EndedAt:        now,
		Categories:     append([]string(nil), e.selected...),
		Anki:           e.adaptive,
		WordsCompleted: e.stats.WordsCompleted,
		Revealed:       e.stats.Revealed,
		DurationMs:     active.Milliseconds(),
	}
	e.state = Stopped
	e.itemStart = time.Time{}
	cancel := e.invalidateLocked()
	e.mu.Unlock()

	runCancel(cancel)
	return summary, summary.WordsCompleted > 0
}

// SetAlwaysReveal switches chord hints and re-shows the current item.
func (e *Engine) SetAlwaysReveal(on bool) {
	e.mu.Lock()
	e.alwaysReveal = on
	if e.state == Stopped {
		e.mu.Unlock()
		return
	}
	p := e.presentationLocked()
	e.mu.Unlock()
	e.presenter.Show(p)
}

// Current returns the item and cursor being typed.
func (e *Engine) Current() (model.Item, queue.Cursor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queue == nil {
		return nil, queue.Cursor{}, false
	}
	it, cur := e.queue.Current()
	return it, cur, true
}

// State returns the playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Adaptive reports whether the running session orders by difficulty.
func (e *Engine) Adaptive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adaptive
}

// Stats returns a copy of the live counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// CurrentTier returns the display tier of the current item.
func (e *Engine) CurrentTier() (difficulty.Tier, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queue == nil {
		return difficulty.TierEasiest, false
	}
	it, _ := e.queue.Current()
	return difficulty.TierOf(int(math.Round(e.scorer.MeanScore(it)))), true
}

func (e *Engine) armLocked(now time.Time) {
	if e.adaptive {
		e.itemStart = now
		return
	}
	e.itemStart = time.Time{}
}

// invalidateLocked bumps the generation and hands back the pending cancel.
func (e *Engine) invalidateLocked() func() {
	e.generation++
	cancel := e.pending
	e.pending = nil
	return cancel
}

func (e *Engine) presentationLocked() Presentation {
	it, cur := e.queue.Current()
	p := Presentation{
		DisplayText:      it.Text(),
		UnderlineSubWord: -1,
		SpeakWhole:       e.speakWhole,
	}
	switch v := it.(type) {
	case *model.Sentence:
		p.IsSentence = true
		p.UnderlineSubWord = cur.SubWord
		p.SpeakText = v.Words[cur.SubWord]
		if e.speakWhole {
			p.SpeakText = v.Phrase
		}
	case *model.SingleWord:
		p.SpeakText = v.Word
	}
	if e.alwaysReveal {
		p.Hint = it.ChordAt(cur.SubWord)
	}
	return p
}

// normalize lowercases s and trims whitespace and edge punctuation, so
// "fox." on screen is answered by the "fox" a chord writes. Apostrophes stay.
func normalize(s string) string {
	return strings.TrimFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'')
	})
}

func runCancel(cancel func()) {
	if cancel != nil {
		cancel()
	}
}
