package queue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chordrill/internal/model"
)

type countingOrderer struct {
	calls int
}

func (c *countingOrderer) Order([]model.Item) { c.calls++ }

func mustSentence(t *testing.T, text string, chords ...string) *model.Sentence {
	t.Helper()
	s, err := model.NewSentence(text, chords)
	require.NoError(t, err)
	return s
}

func words(names ...string) []model.Item {
	out := make([]model.Item, 0, len(names))
	for _, n := range names {
		out = append(out, model.NewWord(n, "-"+n))
	}
	return out
}

func TestShufflePermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for size := 0; size <= 12; size++ {
		items := words()
		for i := 0; i < size; i++ {
			items = append(items, model.NewWord(string(rune('a'+i)), "X"))
		}
		before := map[model.Item]int{}
		for _, it := range items {
			before[it]++
		}
		Shuffle(items, rnd)
		require.Len(t, items, size)
		after := map[model.Item]int{}
		for _, it := range items {
			after[it]++
		}
		assert.Equal(t, before, after, "size %d", size)
	}
}

func TestShuffleReproducible(t *testing.T) {
	a := words("a", "b", "c", "d", "e", "f")
	b := append([]model.Item(nil), a...)
	Shuffle(a, rand.New(rand.NewSource(42)))
	Shuffle(b, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestShuffleUniform(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	base := words("a", "b", "c")
	counts := map[string]int{}
	const rounds = 60000
	for i := 0; i < rounds; i++ {
		items := append([]model.Item(nil), base...)
		Shuffle(items, rnd)
		key := items[0].Text() + items[1].Text() + items[2].Text()
		counts[key]++
	}
	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, rounds/6, n, rounds/60, "permutation %s", perm)
	}
}

func TestBuildSentencesFirst(t *testing.T) {
	s1 := mustSentence(t, "the cat", "-T", "KAT")
	s2 := mustSentence(t, "a dog", "AEU", "TKOG")
	w := words("one", "two")
	source := map[string][]model.Item{
		"mixed":   {w[0], s1},
		"phrases": {s2},
		"more":    {w[1]},
	}
	items, err := Build(source, []string{"mixed", "unknown", "more", "phrases"})
	require.NoError(t, err)
	assert.Equal(t, []model.Item{s1, s2, w[0], w[1]}, items)
	assert.Same(t, s1, items[0].(*model.Sentence))
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(map[string][]model.Item{"a": words("x")}, nil)
	assert.ErrorIs(t, err, ErrNoCategorySelected)
	_, err = Build(map[string][]model.Item{"a": nil}, []string{"a"})
	assert.ErrorIs(t, err, ErrNoCategorySelected)
}

func TestAdvanceCyclesSingleWords(t *testing.T) {
	order := &countingOrderer{}
	q := New(words("a", "b", "c", "d"), order)
	var seen []int
	for i := 0; i < 8; i++ {
		_, cur := q.Current()
		seen = append(seen, cur.Item)
		assert.Zero(t, cur.SubWord)
		q.Advance()
	}
	assert.Equal(t, []int{0, 1, 2, 3, 0, 1, 2, 3}, seen)
	assert.Equal(t, 2, order.calls)
}

func TestAdvanceWrapReportsOnce(t *testing.T) {
	order := &countingOrderer{}
	q := New(words("a", "b"), order)
	_, wrapped := q.Advance()
	assert.False(t, wrapped)
	next, wrapped := q.Advance()
	assert.True(t, wrapped)
	assert.Equal(t, Cursor{}, next)
	assert.Equal(t, 1, order.calls)
}

func TestAdvanceSentenceSubWords(t *testing.T) {
	s := mustSentence(t, "I am here", "EU", "AM", "HAOER")
	w := model.NewWord("next", "TPHEGT")
	q := New([]model.Item{s, w}, nil)

	var cursors []Cursor
	for i := 0; i < 5; i++ {
		_, cur := q.Current()
		cursors = append(cursors, cur)
		q.Advance()
	}
	assert.Equal(t, []Cursor{
		{Item: 0, SubWord: 0},
		{Item: 0, SubWord: 1},
		{Item: 0, SubWord: 2},
		{Item: 1, SubWord: 0},
		{Item: 0, SubWord: 0},
	}, cursors)
}

func TestReorderRewinds(t *testing.T) {
	order := &countingOrderer{}
	q := New(words("a", "b", "c"), order)
	q.Advance()
	q.Reorder()
	assert.Equal(t, Cursor{}, q.Cursor())
	assert.Equal(t, 1, order.calls)
}
