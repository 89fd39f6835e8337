package dictionary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chordrill/internal/model"
)

// flakyLookup fails with UnavailableError after the first n lookups.
type flakyLookup struct {
	dict *Dictionary
	n    int
}

func (f *flakyLookup) LookupChord(ctx context.Context, word string) (string, error) {
	if f.n <= 0 {
		return "", &UnavailableError{Err: errors.New("timeout")}
	}
	f.n--
	return f.dict.LookupChord(ctx, word)
}

func testDict(t *testing.T) *Dictionary {
	t.Helper()
	d, err := Parse(strings.NewReader(sampleDict))
	require.NoError(t, err)
	return d
}

func TestResolveWords(t *testing.T) {
	items, res := ResolveWords(context.Background(), testDict(t), []string{"Cat", "dog", "fox."})
	require.Len(t, items, 2)
	assert.Equal(t, "Cat", items[0].(*model.SingleWord).Word)
	assert.Equal(t, "KAT", items[0].(*model.SingleWord).Chord)
	assert.Equal(t, "fox.", items[1].Text())
	assert.Equal(t, Resolution{Resolved: 2, Excluded: 1, Missing: []string{"dog"}}, res)
}

func TestResolveWordsUnavailableKeepsResolved(t *testing.T) {
	lookup := &flakyLookup{dict: testDict(t), n: 1}
	items, res := ResolveWords(context.Background(), lookup, []string{"cat", "fox", "quick"})
	require.Len(t, items, 1)
	assert.True(t, res.Unavailable)
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, 2, res.Excluded)
}

func TestResolvePhrase(t *testing.T) {
	s, res := ResolvePhrase(context.Background(), testDict(t), "The quick fox")
	require.NotNil(t, s)
	assert.Equal(t, []string{"-T", "KWEUBG", "TPOBGS"}, s.Chords)
	assert.Equal(t, "The quick fox", s.Text())
	assert.Equal(t, 1, res.Resolved)
}

func TestResolvePhraseMissingWord(t *testing.T) {
	s, res := ResolvePhrase(context.Background(), testDict(t), "the lazy fox")
	assert.Nil(t, s)
	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, []string{"lazy"}, res.Missing)
}

func TestResolvePhraseUnavailable(t *testing.T) {
	s, res := ResolvePhrase(context.Background(), &flakyLookup{dict: testDict(t)}, "the fox")
	assert.Nil(t, s)
	assert.True(t, res.Unavailable)
	assert.Equal(t, 1, res.Excluded)
}
