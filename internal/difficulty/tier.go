package difficulty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/chordrill/internal/model"
)

// Tier is a coarse difficulty bucket used for display.
type Tier int

// Display tiers, easiest first.
const (
	TierEasiest Tier = iota
	TierEasy
	TierMedium
	TierHard
	TierHardest
)

// TierOf maps a score to its display tier.
func TierOf(score int) Tier {
	switch {
	case score <= 0:
		return TierEasiest
	case score <= 3:
		return TierEasy
	case score <= 6:
		return TierMedium
	case score <= 10:
		return TierHard
	default:
		return TierHardest
	}
}

func (t Tier) String() string {
	switch t {
	case TierEasiest:
		return "easiest"
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	case TierHardest:
		return "hardest"
	default:
		return "unknown"
	}
}

// Label renders a record key for display: the word, or the sentence with the
// 1-based word position.
func Label(key model.Key) string {
	s := string(key)
	if rest, ok := strings.CutPrefix(s, "word_"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(s, "sentence_"); ok {
		if i := strings.LastIndex(rest, "_word_"); i >= 0 {
			if n, err := strconv.Atoi(rest[i+len("_word_"):]); err == nil {
				return fmt.Sprintf("%s [%d]", rest[:i], n+1)
			}
		}
		return rest
	}
	return s
}
