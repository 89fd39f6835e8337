// Package dictionary resolves words to steno chords from a Plover JSON dictionary.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ErrNotFound is returned when a word has no chord.
var ErrNotFound = errors.New("word not found in dictionary")

// UnavailableError indicates the dictionary could not be loaded.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dictionary unavailable: %v", e.Err)
	}
	return "dictionary unavailable"
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Lookup resolves a normalized word to a chord.
type Lookup interface {
	LookupChord(ctx context.Context, word string) (string, error)
}

var annotationRe = regexp.MustCompile(`\{[^}]*\}`)

// StripAnnotations removes bracketed tokens such as {^} and {,} and
// normalizes case and spacing for comparison.
func StripAnnotations(translation string) string {
	cleaned := annotationRe.ReplaceAllString(translation, "")
	return strings.ToLower(strings.Join(strings.Fields(cleaned), " "))
}

// Dictionary is a reverse index from translation to chord.
type Dictionary struct {
	byWord map[string]string
}

// Parse reads a Plover JSON dictionary ({"CHORD": "translation", ...}).
func Parse(r io.Reader) (*Dictionary, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode dictionary: %w", err)
	}
	return FromEntries(raw), nil
}

// LoadFile parses a dictionary file.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

// FromEntries builds the reverse index. When several chords produce the same
// word, the one with the fewest strokes wins, then the shortest, then the
// lexically smallest.
func FromEntries(entries map[string]string) *Dictionary {
	d := &Dictionary{byWord: make(map[string]string, len(entries))}
	for chord, translation := range entries {
		word := StripAnnotations(translation)
		if word == "" {
			continue
		}
		if cur, ok := d.byWord[word]; ok && !betterChord(chord, cur) {
			continue
		}
		d.byWord[word] = chord
	}
	return d
}

func betterChord(candidate, current string) bool {
	cs, ks := strokeCount(candidate), strokeCount(current)
	if cs != ks {
		return cs < ks
	}
	if len(candidate) != len(current) {
		return len(candidate) < len(current)
	}
	return candidate < current
}

func strokeCount(chord string) int {
	return strings.Count(chord, "/") + 1
}

// Len returns the number of distinct translations.
func (d *Dictionary) Len() int {
	return len(d.byWord)
}

// LookupChord implements Lookup.
func (d *Dictionary) LookupChord(_ context.Context, word string) (string, error) {
	chord, ok := d.byWord[StripAnnotations(word)]
	if !ok {
		return "", ErrNotFound
	}
	return chord, nil
}
