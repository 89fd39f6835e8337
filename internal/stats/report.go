package stats

import (
	"context"

	"github.com/verte-zerg/chordrill/internal/model"
)

// ReportSource loads the data a report is built from. *store.Store satisfies it.
type ReportSource interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	LoadScores(ctx context.Context) (map[model.Key]model.DifficultyRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions       []model.SessionAggregate
	WindowSessions []model.SessionAggregate
	Hardest        []DifficultyRow
	CurveWindow    int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src ReportSource, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	records, err := src.LoadScores(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions:       sessions,
		WindowSessions: lastSessions(sessions, cfg.CurveWindow),
		Hardest:        HardestItems(records, cfg.Top),
		CurveWindow:    cfg.CurveWindow,
	}, nil
}

func lastSessions(sessions []model.SessionAggregate, window int) []model.SessionAggregate {
	if window <= 0 || len(sessions) <= window {
		return sessions
	}
	return sessions[len(sessions)-window:]
}
