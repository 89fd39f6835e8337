// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Config defines practice settings.
type Config struct {
	Categories   []string
	Anki         bool
	AlwaysReveal bool
	SpeakWhole   bool
	AdvanceDelay time.Duration
	Custom       bool
	Seed         int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Top         int
}

// Item is a practice item: either a *SingleWord or a *Sentence.
type Item interface {
	// Text is the full text shown to the user.
	Text() string
	// Len is the number of sub-words the user types for the item.
	Len() int
	// WordAt returns the expected word at sub-word index i.
	WordAt(i int) string
	// ChordAt returns the chord for sub-word index i.
	ChordAt(i int) string

	item()
}

// SingleWord is a word with its chord.
type SingleWord struct {
	Word  string
	Chord string
}

// NewWord returns a single-word item.
func NewWord(word, chord string) *SingleWord {
	return &SingleWord{Word: word, Chord: chord}
}

func (w *SingleWord) Text() string { return w.Word }
func (w *SingleWord) Len() int { return 1 }
func (w *SingleWord) WordAt(int) string { return w.Word }
func (w *SingleWord) ChordAt(int) string { return w.Chord }
func (w *SingleWord) item() {}

// Sentence is a multi-word item typed word by word.
type Sentence struct {
	Phrase string
	Words  []string
	Chords []string
}

// NewSentence splits text on whitespace and pairs each word with a chord.
func NewSentence(text string, chords []string) (*Sentence, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("sentence is empty")
	}
	if len(words) != len(chords) {
		return nil, fmt.Errorf("sentence %q has %d words but %d chords", text, len(words), len(chords))
	}
	return &Sentence{
		Phrase: strings.Join(words, " "),
		Words:  words,
		Chords: append([]string(nil), chords...),
	}, nil
}

func (s *Sentence) Text() string { return s.Phrase }
func (s *Sentence) Len() int { return len(s.Words) }
func (s *Sentence) WordAt(i int) string { return s.Words[i] }
func (s *Sentence) ChordAt(i int) string { return s.Chords[i] }
func (s *Sentence) item() {}

// Key identifies a difficulty record by item content.
type Key string

// DifficultyRecord tracks how hard a word or sentence sub-word is to recall.
type DifficultyRecord struct {
	Score         int
	LastSeen      time.Time
	ResponseTimes []int64
}

// DisplaySettings holds presentation preferences.
type DisplaySettings struct {
	SpeakWhole bool   `json:"speakWhole"`
	ShowTier   bool   `json:"showTier"`
	Accent     string `json:"accent"`
}

// Settings are the persisted user toggles and custom lists.
type Settings struct {
	CustomWords  []string
	CustomPhrase string
	Anki         bool
	AlwaysReveal bool
	Display      DisplaySettings

	// AnkiStored and AlwaysRevealStored report whether the toggle was ever saved.
	AnkiStored         bool
	AlwaysRevealStored bool
}

// DefaultSettings returns settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		Display: DisplaySettings{ShowTier: true, Accent: "#C89A3A"},
	}
}

// SessionStats captures a completed practice session.
type SessionStats struct {
	ID             string
	StartedAt      time.Time
	EndedAt        time.Time
	Categories     []string
	Anki           bool
	WordsCompleted int
	Revealed       int
	DurationMs     int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID      string
	EndedAt        time.Time
	WordsCompleted int
	Revealed       int
	DurationMs     int64
}
