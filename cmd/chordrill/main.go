// Package main provides the CLI entrypoint for chordrill.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/chordrill/internal/categories"
	"github.com/verte-zerg/chordrill/internal/config"
	"github.com/verte-zerg/chordrill/internal/dictionary"
	"github.com/verte-zerg/chordrill/internal/difficulty"
	"github.com/verte-zerg/chordrill/internal/engine"
	"github.com/verte-zerg/chordrill/internal/model"
	"github.com/verte-zerg/chordrill/internal/store"
	"github.com/verte-zerg/chordrill/internal/tui"
)

const (
	defaultCategory       = "common-words"
	defaultAdvanceDelayMs = 300
	defaultDictTimeoutSec = 30
)

var (
	practiceCategories   []string
	practiceAnki         bool
	practiceAlwaysReveal bool
	practiceSpeakWhole   bool
	practiceCustom       bool
	practiceSeed         int64
	practiceNoPersist    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chordrill",
		Short:         "Steno chord typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringSliceVarP(&practiceCategories, "category", "c", []string{defaultCategory}, "category to practice (repeatable)")
	rootCmd.Flags().BoolVar(&practiceAnki, "anki", false, "order items by difficulty, hardest first")
	rootCmd.Flags().BoolVar(&practiceAlwaysReveal, "always-reveal", false, "always show the chord for the current word")
	rootCmd.Flags().BoolVar(&practiceSpeakWhole, "speak-whole", false, "announce whole phrases instead of single words")
	rootCmd.Flags().BoolVar(&practiceCustom, "custom", false, "include custom words and phrase")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "shuffle seed (default: time based)")
	rootCmd.Flags().BoolVar(&practiceNoPersist, "no-persist", false, "do not save scores, sessions or toggles")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newDictionaryCmd())
	rootCmd.AddCommand(newCustomCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := resolvePracticeConfig(cmd, fileCfg, settings)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	var (
		scores  difficulty.ScoreStore = st
		uiStore tui.Store             = st
	)
	if practiceNoPersist {
		scores, uiStore = memoryScores(ctx, st), nil
	} else {
		persistToggles(ctx, cmd, st, cfg)
	}

	source, err := loadCategories()
	if err != nil {
		return err
	}
	if cfg.Custom {
		addCustomCategories(ctx, source, newDictionaryLoader(fileCfg, ""), settings)
		for _, name := range []string{categories.CustomWords, categories.CustomPhrase} {
			if _, ok := source.Get(name); ok {
				cfg.Categories = append(cfg.Categories, name)
			}
		}
	}
	if unknown := source.Unknown(cfg.Categories); len(unknown) > 0 {
		logErrf("Ignoring unknown categories: %s\n", strings.Join(unknown, ", "))
	}

	m, err := tui.NewModel(tui.Options{
		Config:  cfg,
		Display: settings.Display,
		Source:  source,
		Scorer:  difficulty.NewScorer(ctx, scores, nil),
		Store:   uiStore,
		Rand:    rand.New(rand.NewSource(cfg.Seed)),
	})
	if err != nil {
		if errors.Is(err, engine.ErrEmptySelection) {
			return fmt.Errorf("no practice items in %s (list categories with: chordrill categories)", strings.Join(cfg.Categories, ", "))
		}
		return fmt.Errorf("failed to start practice: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig layers defaults, the config file, persisted toggles and
// explicit flags, in that order.
func resolvePracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig, settings model.Settings) model.Config {
	applyStringSliceConfig(cmd, "category", &practiceCategories, fileCfg.Practice.Categories)
	applyBoolConfig(cmd, "speak-whole", &practiceSpeakWhole, fileCfg.Practice.SpeakWhole)

	delayMs := defaultAdvanceDelayMs
	if fileCfg.Practice.AdvanceDelayMs != nil {
		delayMs = *fileCfg.Practice.AdvanceDelayMs
	}
	seed := practiceSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	return model.Config{
		Categories:   cleanCategories(practiceCategories),
		Anki:         resolveToggle(cmd, "anki", practiceAnki, fileCfg.Practice.Anki, settings.AnkiStored, settings.Anki),
		AlwaysReveal: resolveToggle(cmd, "always-reveal", practiceAlwaysReveal, fileCfg.Practice.AlwaysReveal, settings.AlwaysRevealStored, settings.AlwaysReveal),
		SpeakWhole:   practiceSpeakWhole,
		AdvanceDelay: time.Duration(delayMs) * time.Millisecond,
		Custom:       practiceCustom,
		Seed:         seed,
	}
}

func resolveToggle(cmd *cobra.Command, name string, flagValue bool, fileValue *bool, stored, storedValue bool) bool {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	if stored {
		return storedValue
	}
	if fileValue != nil {
		return *fileValue
	}
	return flagValue
}

// persistToggles saves toggles that were set explicitly on the command line.
func persistToggles(ctx context.Context, cmd *cobra.Command, st *store.Store, cfg model.Config) {
	if cmd.Flags().Changed("anki") {
		if err := st.SaveAnkiMode(ctx, cfg.Anki); err != nil {
			logErrf("failed to save anki mode: %v\n", err)
		}
	}
	if cmd.Flags().Changed("always-reveal") {
		if err := st.SaveAlwaysReveal(ctx, cfg.AlwaysReveal); err != nil {
			logErrf("failed to save always-reveal: %v\n", err)
		}
	}
}

// memoryScores copies stored scores into memory so anki ordering still uses them.
func memoryScores(ctx context.Context, st difficulty.ScoreStore) *difficulty.MemoryStore {
	records, err := st.LoadScores(ctx)
	if err != nil {
		logErrf("failed to load difficulty scores: %v\n", err)
	}
	return &difficulty.MemoryStore{Saved: records}
}

func cleanCategories(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func validateConfig(cfg model.Config) error {
	if len(cfg.Categories) == 0 && !cfg.Custom {
		return fmt.Errorf("--category must not be empty")
	}
	if cfg.AdvanceDelay <= 0 {
		return fmt.Errorf("advance-delay-ms must be > 0")
	}
	return nil
}

func loadCategories() (*categories.Source, error) {
	source, err := categories.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load builtin categories: %w", err)
	}
	path := config.DefaultCategoriesPath()
	if err := source.LoadFile(path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return source, nil
}

func addCustomCategories(ctx context.Context, source *categories.Source, lookup dictionary.Lookup, settings model.Settings) {
	if len(settings.CustomWords) > 0 {
		items, res := dictionary.ResolveWords(ctx, lookup, settings.CustomWords)
		reportResolution("custom words", res)
		source.Add(categories.CustomWords, "Custom words", items)
	}
	if strings.TrimSpace(settings.CustomPhrase) != "" {
		sentence, res := dictionary.ResolvePhrase(ctx, lookup, settings.CustomPhrase)
		reportResolution("custom phrase", res)
		if sentence != nil {
			source.Add(categories.CustomPhrase, "Custom phrase", []model.Item{sentence})
		}
	}
}

func reportResolution(what string, res dictionary.Resolution) {
	switch {
	case res.Unavailable:
		logErrf("Steno dictionary unavailable, %d %s excluded (download with: chordrill dictionary download)\n", res.Excluded, what)
	case res.Excluded > 0:
		logErrf("%d %s excluded, no chord found for: %s\n", res.Excluded, what, strings.Join(res.Missing, ", "))
	}
}

func newDictionaryLoader(fileCfg config.FileConfig, urlOverride string) *dictionary.Loader {
	path := config.DefaultDictionaryPath()
	url := dictionary.DefaultURL
	timeoutSec := defaultDictTimeoutSec
	applyString(&path, fileCfg.Dictionary.Path)
	applyString(&url, fileCfg.Dictionary.URL)
	if fileCfg.Dictionary.TimeoutSec != nil {
		timeoutSec = *fileCfg.Dictionary.TimeoutSec
	}
	if urlOverride != "" {
		url = urlOverride
	}
	return &dictionary.Loader{
		Path:    path,
		URL:     url,
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyString(target, value *string) {
	if value != nil && *value != "" {
		*target = *value
	}
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# chordrill configuration
# Uncomment a value to enable it. CLI flags override config values.
# Toggles changed in the app (anki, always-reveal) override this file.

[practice]
# categories = [%q]   # Categories to practice
# anki = false                    # Order items by difficulty, hardest first
# always-reveal = false           # Always show the chord for the current word
# speak-whole = false             # Announce whole phrases instead of single words
# advance-delay-ms = %d          # Pause after a correct answer

[dictionary]
# path = %q
# url = %q
# timeout-sec = %d
`,
		defaultCategory,
		defaultAdvanceDelayMs,
		config.DefaultDictionaryPath(),
		dictionary.DefaultURL,
		defaultDictTimeoutSec,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
