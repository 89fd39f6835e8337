// Package queue builds and walks the active practice sequence.
package queue

import (
	"errors"

	"github.com/verte-zerg/chordrill/internal/model"
)

// ErrNoCategorySelected is returned when the selected categories yield no items.
var ErrNoCategorySelected = errors.New("no category selected")

// RandomSource supplies uniform integers in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Orderer reorders a queue in place when a full pass completes.
type Orderer interface {
	Order(items []model.Item)
}

// Shuffler orders items with a uniform random permutation.
type Shuffler struct {
	Rand RandomSource
}

// Order implements Orderer.
func (s Shuffler) Order(items []model.Item) {
	Shuffle(items, s.Rand)
}

// Shuffle permutes items in place using Fisher-Yates.
func Shuffle(items []model.Item, rnd RandomSource) {
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Build concatenates the items of the selected categories. Sentences from all
// selected categories come first, then single words; order within each group
// follows category order. Unknown category names are ignored.
func Build(source map[string][]model.Item, selected []string) ([]model.Item, error) {
	var sentences, words []model.Item
	for _, name := range selected {
		for _, it := range source[name] {
			switch it.(type) {
			case *model.Sentence:
				sentences = append(sentences, it)
			case *model.SingleWord:
				words = append(words, it)
			}
		}
	}
	items := append(sentences, words...)
	if len(items) == 0 {
		return nil, ErrNoCategorySelected
	}
	return items, nil
}

// Cursor addresses an item and, for sentences, the word being typed.
type Cursor struct {
	Item    int
	SubWord int
}

// Queue is the active practice sequence with its cursor.
type Queue struct {
	items  []model.Item
	cursor Cursor
	order  Orderer
}

// New returns a queue positioned at the first item.
func New(items []model.Item, order Orderer) *Queue {
	return &Queue{items: items, order: order}
}

// Len returns the number of items in the queue.
func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns the queue contents in current order.
func (q *Queue) Items() []model.Item {
	return q.items
}

// Cursor returns the current position.
func (q *Queue) Cursor() Cursor {
	return q.cursor
}

// Current returns the item under the cursor.
func (q *Queue) Current() (model.Item, Cursor) {
	return q.items[q.cursor.Item], q.cursor
}

// Reorder applies the orderer to the whole queue and rewinds the cursor.
func (q *Queue) Reorder() {
	if q.order != nil {
		q.order.Order(q.items)
	}
	q.cursor = Cursor{}
}

// Advance moves to the next sub-word or item. When the end of the queue is
// reached it wraps to the start, reorders, and reports wrapped=true.
func (q *Queue) Advance() (next Cursor, wrapped bool) {
	it := q.items[q.cursor.Item]
	if s, ok := it.(*model.Sentence); ok && q.cursor.SubWord+1 < len(s.Words) {
		q.cursor.SubWord++
		return q.cursor, false
	}
	q.cursor.SubWord = 0
	q.cursor.Item++
	if q.cursor.Item >= len(q.items) {
		q.cursor.Item = 0
		if q.order != nil {
			q.order.Order(q.items)
		}
		wrapped = true
	}
	return q.cursor, wrapped
}
