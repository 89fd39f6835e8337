// Package categories provides the practice category source.
package categories

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/chordrill/internal/model"
)

// Names of runtime categories built from persisted custom lists.
const (
	CustomWords  = "custom-words"
	CustomPhrase = "custom-phrase"
)

//go:embed builtin.toml
var builtinTOML string

type fileSchema struct {
	Category []categorySchema `toml:"category"`
}

type categorySchema struct {
	Name      string           `toml:"name"`
	Title     string           `toml:"title"`
	Words     []wordSchema     `toml:"words"`
	Sentences []sentenceSchema `toml:"sentences"`
}

type wordSchema struct {
	Word  string `toml:"word"`
	Chord string `toml:"chord"`
}

type sentenceSchema struct {
	Text   string   `toml:"text"`
	Chords []string `toml:"chords"`
}

// Category is a named, ordered group of practice items.
type Category struct {
	Name  string
	Title string
	Items []model.Item
}

// Source holds categories in registration order.
type Source struct {
	order  []string
	byName map[string]*Category
}

// NewSource returns an empty source.
func NewSource() *Source {
	return &Source{byName: map[string]*Category{}}
}

// Builtin returns the embedded categories.
func Builtin() (*Source, error) {
	s := NewSource()
	if err := s.decode(builtinTOML); err != nil {
		return nil, fmt.Errorf("failed to load builtin categories: %w", err)
	}
	return s, nil
}

// LoadFile merges categories from a TOML file. Missing file is not an error.
// A category with an existing name replaces it.
func (s *Source) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read categories: %w", err)
	}
	if err := s.decode(string(data)); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (s *Source) decode(data string) error {
	var file fileSchema
	if _, err := toml.Decode(data, &file); err != nil {
		return err
	}
	for _, c := range file.Category {
		if c.Name == "" {
			return fmt.Errorf("category without a name")
		}
		items := make([]model.Item, 0, len(c.Words)+len(c.Sentences))
		for _, w := range c.Words {
			if w.Word == "" || w.Chord == "" {
				return fmt.Errorf("category %s: word entries need word and chord", c.Name)
			}
			items = append(items, model.NewWord(w.Word, w.Chord))
		}
		for _, st := range c.Sentences {
			sentence, err := model.NewSentence(st.Text, st.Chords)
			if err != nil {
				return fmt.Errorf("category %s: %w", c.Name, err)
			}
			items = append(items, sentence)
		}
		title := c.Title
		if title == "" {
			title = c.Name
		}
		s.Add(c.Name, title, items)
	}
	return nil
}

// Add registers or replaces a category.
func (s *Source) Add(name, title string, items []model.Item) {
	if _, ok := s.byName[name]; !ok {
		s.order = append(s.order, name)
	}
	s.byName[name] = &Category{Name: name, Title: title, Items: items}
}

// Get returns a category by name.
func (s *Source) Get(name string) (Category, bool) {
	c, ok := s.byName[name]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// Categories returns all categories in registration order.
func (s *Source) Categories() []Category {
	out := make([]Category, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.byName[name])
	}
	return out
}

// Items returns the item lists keyed by category name.
func (s *Source) Items() map[string][]model.Item {
	out := make(map[string][]model.Item, len(s.byName))
	for name, c := range s.byName {
		out[name] = c.Items
	}
	return out
}

// Unknown returns the selected names that are not registered, sorted.
func (s *Source) Unknown(selected []string) []string {
	var unknown []string
	for _, name := range selected {
		if _, ok := s.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
