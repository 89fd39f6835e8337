package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/chordrill/internal/difficulty"
	"github.com/verte-zerg/chordrill/internal/model"
)

// DifficultyRow is a display row for one difficulty record.
type DifficultyRow struct {
	Key      model.Key
	Label    string
	Score    int
	Tier     difficulty.Tier
	AvgMs    float64
	Seen     int
	LastSeen time.Time
}

// HardestItems returns up to top records ordered by score, highest first.
// Ties put the slower average first, then sort by label. top <= 0 keeps all.
func HardestItems(records map[model.Key]model.DifficultyRecord, top int) []DifficultyRow {
	rows := make([]DifficultyRow, 0, len(records))
	for key, rec := range records {
		rows = append(rows, DifficultyRow{
			Key:      key,
			Label:    difficulty.Label(key),
			Score:    rec.Score,
			Tier:     difficulty.TierOf(rec.Score),
			AvgMs:    difficulty.AverageResponse(rec.ResponseTimes),
			Seen:     len(rec.ResponseTimes),
			LastSeen: rec.LastSeen,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].AvgMs != rows[j].AvgMs {
			return rows[i].AvgMs > rows[j].AvgMs
		}
		return rows[i].Label < rows[j].Label
	})
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}
	return rows
}
