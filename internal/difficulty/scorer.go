// Package difficulty scores practice items by recall latency.
package difficulty

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/verte-zerg/chordrill/internal/model"
)

// MaxResponseTimes bounds the per-key response time history.
const MaxResponseTimes = 10

// ScoreStore persists difficulty records. SaveScores upserts the given
// records and leaves every other key alone.
type ScoreStore interface {
	LoadScores(ctx context.Context) (map[model.Key]model.DifficultyRecord, error)
	SaveScores(ctx context.Context, records map[model.Key]model.DifficultyRecord) error
}

// Clock returns the current time.
type Clock func() time.Time

// IdentityOf derives the record key for an item position.
func IdentityOf(it model.Item, subWord int) model.Key {
	switch v := it.(type) {
	case *model.SingleWord:
		return model.Key("word_" + v.Word)
	case *model.Sentence:
		return model.Key("sentence_" + v.Phrase + "_word_" + strconv.Itoa(subWord))
	default:
		panic(fmt.Sprintf("difficulty: unknown item type %T", it))
	}
}

// Keys returns every key an item spans.
func Keys(it model.Item) []model.Key {
	keys := make([]model.Key, it.Len())
	for i := range keys {
		keys[i] = IdentityOf(it, i)
	}
	return keys
}

// Scorer tracks difficulty records and orders items by them.
type Scorer struct {
	records map[model.Key]*model.DifficultyRecord
	store   ScoreStore
	now     Clock
}

// NewScorer loads records from st. A load failure is logged and the scorer
// starts from an empty table. A nil store keeps records in memory only.
func NewScorer(ctx context.Context, st ScoreStore, now Clock) *Scorer {
	if now == nil {
		now = time.Now
	}
	s := &Scorer{
		records: map[model.Key]*model.DifficultyRecord{},
		store:   st,
		now:     now,
	}
	if st == nil {
		return s
	}
	loaded, err := st.LoadScores(ctx)
	if err != nil {
		logErrf("failed to load difficulty scores: %v\n", err)
		return s
	}
	for k, rec := range loaded {
		rec := rec
		s.records[k] = &rec
	}
	return s
}

// Record returns a copy of the record for key, and whether it exists.
func (s *Scorer) Record(key model.Key) (model.DifficultyRecord, bool) {
	rec, ok := s.records[key]
	if !ok {
		return model.DifficultyRecord{}, false
	}
	out := *rec
	out.ResponseTimes = append([]int64(nil), rec.ResponseTimes...)
	return out, true
}

// Records returns a snapshot of all records.
func (s *Scorer) Records() map[model.Key]model.DifficultyRecord {
	out := make(map[model.Key]model.DifficultyRecord, len(s.records))
	for k := range s.records {
		out[k], _ = s.Record(k)
	}
	return out
}

func (s *Scorer) ensure(key model.Key) *model.DifficultyRecord {
	rec, ok := s.records[key]
	if !ok {
		rec = &model.DifficultyRecord{}
		s.records[key] = rec
	}
	return rec
}

// Touch creates the records for an item without changing scores.
func (s *Scorer) Touch(it model.Item) {
	for _, k := range Keys(it) {
		s.ensure(k)
	}
}

// RecordResponse applies a latency-tiered score change for key and persists
// that record. Only the current response drives the change; the bounded history
// feeds AverageResponse for display.
func (s *Scorer) RecordResponse(ctx context.Context, key model.Key, responseMs int64) {
	rec := s.ensure(key)
	rec.LastSeen = s.now()
	rec.ResponseTimes = append(rec.ResponseTimes, responseMs)
	if len(rec.ResponseTimes) > MaxResponseTimes {
		rec.ResponseTimes = rec.ResponseTimes[len(rec.ResponseTimes)-MaxResponseTimes:]
	}

	rec.Score += Delta(responseMs)
	if rec.Score < 0 {
		rec.Score = 0
	}
	s.save(ctx, key)
}

func (s *Scorer) save(ctx context.Context, key model.Key) {
	if s.store == nil {
		return
	}
	rec, _ := s.Record(key)
	if err := s.store.SaveScores(ctx, map[model.Key]model.DifficultyRecord{key: rec}); err != nil {
		logErrf("failed to save difficulty scores: %v\n", err)
	}
}

// Delta returns the score change for a single response time.
func Delta(responseMs int64) int {
	switch {
	case responseMs < 2000:
		return -2
	case responseMs < 4000:
		return -1
	case responseMs < 6000:
		return 1
	default:
		return 3
	}
}

// AverageResponse returns the mean of the recorded response times.
func AverageResponse(times []int64) float64 {
	if len(times) == 0 {
		return 0
	}
	var sum int64
	for _, t := range times {
		sum += t
	}
	return float64(sum) / float64(len(times))
}

// SortKey returns the mean score across an item's keys. Unseen keys are
// created with score 0.
func (s *Scorer) SortKey(it model.Item) float64 {
	s.Touch(it)
	return s.MeanScore(it)
}

// MeanScore is SortKey without creating records. Unseen keys count as 0.
func (s *Scorer) MeanScore(it model.Item) float64 {
	keys := Keys(it)
	if len(keys) == 0 {
		return 0
	}
	total := 0
	for _, k := range keys {
		if rec, ok := s.records[k]; ok {
			total += rec.Score
		}
	}
	return float64(total) / float64(len(keys))
}

// SortDescending orders items so the highest scores come first.
func (s *Scorer) SortDescending(items []model.Item) {
	scores := make(map[model.Item]float64, len(items))
	for _, it := range items {
		scores[it] = s.SortKey(it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return scores[items[i]] > scores[items[j]]
	})
}

// Order implements queue.Orderer.
func (s *Scorer) Order(items []model.Item) {
	s.SortDescending(items)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
