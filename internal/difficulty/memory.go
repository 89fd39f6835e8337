package difficulty

import (
	"context"

	"github.com/verte-zerg/chordrill/internal/model"
)

// MemoryStore keeps scores in process memory.
type MemoryStore struct {
	Saved map[model.Key]model.DifficultyRecord
	Saves int
}

// LoadScores implements ScoreStore.
func (m *MemoryStore) LoadScores(context.Context) (map[model.Key]model.DifficultyRecord, error) {
	out := make(map[model.Key]model.DifficultyRecord, len(m.Saved))
	for k, v := range m.Saved {
		out[k] = v
	}
	return out, nil
}

// SaveScores implements ScoreStore.
func (m *MemoryStore) SaveScores(_ context.Context, records map[model.Key]model.DifficultyRecord) error {
	if m.Saved == nil {
		m.Saved = make(map[model.Key]model.DifficultyRecord, len(records))
	}
	for k, v := range records {
		m.Saved[k] = v
	}
	m.Saves++
	return nil
}
