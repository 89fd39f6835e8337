package dictionary

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/verte-zerg/chordrill/internal/model"
	"github.com/verte-zerg/chordrill/internal/wordlist"
)

// Resolution reports how many custom entries could be turned into items.
type Resolution struct {
	Resolved    int
	Excluded    int
	Missing     []string
	Unavailable bool
}

// lookupKey strips edge punctuation so "fox." resolves like "fox".
func lookupKey(word string) string {
	return strings.TrimFunc(wordlist.Normalize(word), func(r rune) bool {
		return unicode.IsPunct(r) && r != '\''
	})
}

// ResolveWords turns custom words into single-word items. Words that are not
// found, or that could not be checked because the dictionary is unavailable,
// are excluded and counted.
func ResolveWords(ctx context.Context, lookup Lookup, words []string) ([]model.Item, Resolution) {
	var res Resolution
	items := make([]model.Item, 0, len(words))
	for _, word := range words {
		if res.Unavailable {
			res.Excluded++
			continue
		}
		chord, err := lookup.LookupChord(ctx, lookupKey(word))
		if err != nil {
			var unavailable *UnavailableError
			if errors.As(err, &unavailable) {
				res.Unavailable = true
			} else {
				res.Missing = append(res.Missing, word)
			}
			res.Excluded++
			continue
		}
		items = append(items, model.NewWord(word, chord))
		res.Resolved++
	}
	return items, res
}

// ResolvePhrase turns a custom phrase into a sentence item. The phrase is
// excluded when any of its words cannot be resolved.
func ResolvePhrase(ctx context.Context, lookup Lookup, phrase string) (*model.Sentence, Resolution) {
	var res Resolution
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil, res
	}
	chords := make([]string, 0, len(words))
	for _, word := range words {
		chord, err := lookup.LookupChord(ctx, lookupKey(word))
		if err != nil {
			var unavailable *UnavailableError
			if errors.As(err, &unavailable) {
				res.Unavailable = true
				break
			}
			res.Missing = append(res.Missing, word)
			continue
		}
		chords = append(chords, chord)
	}
	if res.Unavailable || len(res.Missing) > 0 {
		res.Excluded = 1
		return nil, res
	}
	sentence, err := model.NewSentence(phrase, chords)
	if err != nil {
		res.Excluded = 1
		return nil, res
	}
	res.Resolved = 1
	return sentence, res
}
