package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/chordrill/internal/categories"
	"github.com/verte-zerg/chordrill/internal/config"
	"github.com/verte-zerg/chordrill/internal/dictionary"
	"github.com/verte-zerg/chordrill/internal/model"
	"github.com/verte-zerg/chordrill/internal/stats"
	"github.com/verte-zerg/chordrill/internal/statsui"
	"github.com/verte-zerg/chordrill/internal/wordlist"
)

const (
	defaultCurveWindow = 10
	defaultScoresTop   = 20
)

var (
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	scoresTop int

	dictURL   string
	dictForce bool
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List practice categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := loadCategories()
			if err != nil {
				return err
			}
			return writeCategories(cmd.OutOrStdout(), source.Categories())
		},
	}
}

func writeCategories(w io.Writer, cats []categories.Category) error {
	nameWidth := 0
	for _, c := range cats {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}
	for _, c := range cats {
		line := fmt.Sprintf("%s  %s (%d)", runewidth.FillRight(c.Name, nameWidth), c.Title, len(c.Items))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func parseStatsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Top:         defaultScoresTop,
	}, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := parseStatsConfig()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain {
		return writePlainStats(cmd.Context(), cmd.OutOrStdout(), st, cfg, stats.TerminalWidth())
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainStats(ctx context.Context, w io.Writer, src stats.ReportSource, cfg model.StatsConfig, width int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return stats.RenderCurves(w, report.Sessions, report.CurveWindow, width, 0)
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the hardest words and sentence parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if scoresTop < 0 {
				return fmt.Errorf("--top must be >= 0")
			}
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := st.LoadScores(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load scores: %w", err)
			}
			rows := stats.HardestItems(records, scoresTop)
			if len(rows) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No difficulty records yet. Practice with --anki to build them.")
				return err
			}
			return stats.RenderDifficultyTable(cmd.OutOrStdout(), rows, stats.TerminalWidth())
		},
	}
	cmd.Flags().IntVar(&scoresTop, "top", defaultScoresTop, "number of items to show (0 for all)")
	return cmd
}

func newDictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage the steno dictionary",
	}
	download := &cobra.Command{
		Use:   "download",
		Short: "Download the steno dictionary used for custom words",
		Args:  cobra.NoArgs,
		RunE:  runDictionaryDownloadCmd,
	}
	download.Flags().StringVar(&dictURL, "url", "", "dictionary URL (default from config or Plover main.json)")
	download.Flags().BoolVar(&dictForce, "force", false, "overwrite an existing dictionary")
	cmd.AddCommand(download)
	return cmd
}

func runDictionaryDownloadCmd(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	loader := newDictionaryLoader(fileCfg, dictURL)
	if !dictForce {
		if _, err := os.Stat(loader.Path); err == nil {
			return fmt.Errorf("dictionary already exists: %s (use --force to overwrite)", loader.Path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat dictionary: %w", err)
		}
	}
	logErrf("Downloading %s...\n", loader.URL)
	n, err := dictionary.Download(context.Background(), loader.URL, loader.Path, loader.Timeout)
	if err != nil {
		return fmt.Errorf("failed to download dictionary: %w", err)
	}
	logErrf("Wrote %d entries to %s\n", n, loader.Path)
	return nil
}

func newCustomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Manage custom words and phrase",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "words <file|->",
		Short: "Replace the custom word list",
		Args:  cobra.ExactArgs(1),
		RunE:  runCustomWordsCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "phrase <text>",
		Short: "Replace the custom phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCustomPhraseCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the custom word list and phrase",
		Args:  cobra.NoArgs,
		RunE:  runCustomShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the custom word list and phrase",
		Args:  cobra.NoArgs,
		RunE:  runCustomClearCmd,
	})
	return cmd
}

func runCustomWordsCmd(_ *cobra.Command, args []string) error {
	words, err := wordlist.LoadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read words: %w", err)
	}
	words = wordlist.Clean(words)
	if len(words) == 0 {
		return fmt.Errorf("no words found in %s", args[0])
	}
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
	_, res := dictionary.ResolveWords(ctx, newDictionaryLoader(fileCfg, ""), words)
	reportResolution("custom words", res)
	if err := st.SaveCustomWords(ctx, words); err != nil {
		return fmt.Errorf("failed to save custom words: %w", err)
	}
	logErrf("Saved %d custom words (%d with chords)\n", len(words), res.Resolved)
	return nil
}

func runCustomPhraseCmd(_ *cobra.Command, args []string) error {
	phrase := strings.Join(strings.Fields(strings.Join(args, " ")), " ")
	if phrase == "" {
		return fmt.Errorf("phrase must not be empty")
	}
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
	_, res := dictionary.ResolvePhrase(ctx, newDictionaryLoader(fileCfg, ""), phrase)
	reportResolution("custom phrase", res)
	if err := st.SaveCustomPhrase(ctx, phrase); err != nil {
		return fmt.Errorf("failed to save custom phrase: %w", err)
	}
	logErrln("Saved custom phrase")
	return nil
}

func runCustomShowCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	settings, err := st.LoadSettings(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return writeCustom(cmd.OutOrStdout(), settings)
}

func writeCustom(w io.Writer, settings model.Settings) error {
	phrase := settings.CustomPhrase
	if phrase == "" {
		phrase = "(none)"
	}
	lines := []string{
		fmt.Sprintf("Phrase: %s", phrase),
		fmt.Sprintf("Words (%d):", len(settings.CustomWords)),
	}
	for _, word := range settings.CustomWords {
		lines = append(lines, "  "+word)
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runCustomClearCmd(_ *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	if err := st.SaveCustomWords(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear custom words: %w", err)
	}
	if err := st.SaveCustomPhrase(ctx, ""); err != nil {
		return fmt.Errorf("failed to clear custom phrase: %w", err)
	}
	logErrln("Cleared custom words and phrase")
	return nil
}
