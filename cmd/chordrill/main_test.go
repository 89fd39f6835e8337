package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/chordrill/internal/categories"
	"github.com/verte-zerg/chordrill/internal/config"
	"github.com/verte-zerg/chordrill/internal/dictionary"
	"github.com/verte-zerg/chordrill/internal/difficulty"
	"github.com/verte-zerg/chordrill/internal/model"
)

func boolPtr(v bool) *bool { return &v }

func TestResolveTogglePrecedence(t *testing.T) {
	cases := []struct {
		name        string
		flag        string
		file        *bool
		stored      bool
		storedValue bool
		want        bool
	}{
		{name: "default", want: false},
		{name: "file", file: boolPtr(true), want: true},
		{name: "stored beats file", file: boolPtr(true), stored: true, storedValue: false, want: false},
		{name: "flag beats stored", flag: "true", stored: true, storedValue: false, want: true},
		{name: "explicit false flag", flag: "false", file: boolPtr(true), stored: true, storedValue: true, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			if tc.flag != "" {
				if err := cmd.Flags().Set("anki", tc.flag); err != nil {
					t.Fatalf("set flag: %v", err)
				}
			}
			got := resolveToggle(cmd, "anki", practiceAnki, tc.file, tc.stored, tc.storedValue)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResolvePracticeConfigFromFile(t *testing.T) {
	cmd := newRootCmd()
	cats := []string{"briefs", " phrases "}
	delay := 150
	fileCfg := config.FileConfig{Practice: config.PracticeConfig{
		Categories:     &cats,
		SpeakWhole:     boolPtr(true),
		AdvanceDelayMs: &delay,
	}}
	cfg := resolvePracticeConfig(cmd, fileCfg, model.DefaultSettings())
	if strings.Join(cfg.Categories, ",") != "briefs,phrases" {
		t.Fatalf("unexpected categories: %v", cfg.Categories)
	}
	if !cfg.SpeakWhole || cfg.AdvanceDelay.Milliseconds() != 150 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResolvePracticeConfigFlagsWin(t *testing.T) {
	cmd := newRootCmd()
	for name, value := range map[string]string{"category": "american-cities", "seed": "42"} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	cats := []string{"briefs"}
	cfg := resolvePracticeConfig(cmd, config.FileConfig{Practice: config.PracticeConfig{Categories: &cats}}, model.DefaultSettings())
	if len(cfg.Categories) != 1 || cfg.Categories[0] != "american-cities" {
		t.Fatalf("unexpected categories: %v", cfg.Categories)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.AdvanceDelay.Milliseconds() != defaultAdvanceDelayMs {
		t.Fatalf("unexpected delay: %v", cfg.AdvanceDelay)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{}); err == nil {
		t.Fatalf("expected error for empty categories")
	}
	if err := validateConfig(model.Config{Custom: true, AdvanceDelay: time.Millisecond}); err != nil {
		t.Fatalf("custom only should be valid: %v", err)
	}
	if err := validateConfig(model.Config{Categories: []string{"briefs"}, AdvanceDelay: -1}); err == nil {
		t.Fatalf("expected error for negative delay")
	}
	if err := validateConfig(model.Config{Categories: []string{"briefs"}}); err == nil {
		t.Fatalf("expected error for zero delay")
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Practice.Categories != nil || cfg.Dictionary.URL != nil {
		t.Fatalf("template should leave everything commented: %+v", cfg)
	}
}

func TestAddCustomCategories(t *testing.T) {
	source := categories.NewSource()
	lookup := dictionary.FromEntries(map[string]string{"KAT": "cat", "TKOG": "dog", "-T": "the"})
	settings := model.Settings{
		CustomWords:  []string{"cat", "zebra", "dog"},
		CustomPhrase: "the cat",
	}
	addCustomCategories(context.Background(), source, lookup, settings)

	words, ok := source.Get(categories.CustomWords)
	if !ok || len(words.Items) != 2 {
		t.Fatalf("expected two custom words, got %+v", words)
	}
	phrase, ok := source.Get(categories.CustomPhrase)
	if !ok || len(phrase.Items) != 1 || phrase.Items[0].ChordAt(1) != "KAT" {
		t.Fatalf("unexpected custom phrase: %+v", phrase)
	}
}

func TestAddCustomCategoriesExcludesUnresolvedPhrase(t *testing.T) {
	source := categories.NewSource()
	lookup := dictionary.FromEntries(map[string]string{"KAT": "cat"})
	addCustomCategories(context.Background(), source, lookup, model.Settings{CustomPhrase: "the cat"})
	if _, ok := source.Get(categories.CustomPhrase); ok {
		t.Fatalf("phrase with a missing word should be excluded")
	}
	if _, ok := source.Get(categories.CustomWords); ok {
		t.Fatalf("no custom words were configured")
	}
}

func TestWriteCategories(t *testing.T) {
	source, err := categories.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	var buf bytes.Buffer
	if err := writeCategories(&buf, source.Categories()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(source.Categories()) {
		t.Fatalf("expected one line per category, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "common-words") || !strings.HasSuffix(lines[0], "(25)") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestWriteCustom(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCustom(&buf, model.Settings{CustomWords: []string{"cat", "dog"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Phrase: (none)\nWords (2):\n  cat\n  dog\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

type emptySource struct{}

func (emptySource) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return nil, nil
}

func (emptySource) LoadScores(context.Context) (map[model.Key]model.DifficultyRecord, error) {
	return nil, nil
}

func TestWritePlainStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlainStats(context.Background(), &buf, emptySource{}, model.StatsConfig{CurveWindow: 1}, 80); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "No sessions found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestMemoryScoresCopiesRecords(t *testing.T) {
	src := &difficulty.MemoryStore{Saved: map[model.Key]model.DifficultyRecord{"word_cat": {Score: 4}}}
	mem := memoryScores(context.Background(), src)
	scorer := difficulty.NewScorer(context.Background(), mem, nil)
	scorer.RecordResponse(context.Background(), "word_cat", 7000)

	if src.Saves != 0 {
		t.Fatalf("source store should not be written, got %d saves", src.Saves)
	}
	if got := mem.Saved["word_cat"].Score; got != 7 {
		t.Fatalf("expected in-memory score 7, got %d", got)
	}
}
