package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/verte-zerg/chordrill/internal/model"
)

// Settings keys.
const (
	KeyCustomWords  = "custom_words"
	KeyCustomPhrase = "custom_phrase"
	KeyAnkiMode     = "anki_mode"
	KeyAlwaysReveal = "always_reveal"
	KeyDisplay      = "display"
)

func (s *Store) getSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// LoadSettings reads every persisted setting. Missing or corrupt entries fall
// back to defaults and are logged; only query failures are returned.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()

	if raw, ok, err := s.getSetting(ctx, KeyCustomWords); err != nil {
		return settings, err
	} else if ok {
		var words []string
		if err := json.Unmarshal([]byte(raw), &words); err != nil {
			logErrf("corrupt %s setting, using default: %v\n", KeyCustomWords, err)
		} else {
			settings.CustomWords = words
		}
	}

	if raw, ok, err := s.getSetting(ctx, KeyCustomPhrase); err != nil {
		return settings, err
	} else if ok {
		settings.CustomPhrase = raw
	}

	for _, b := range []struct {
		key    string
		target *bool
		stored *bool
	}{
		{KeyAnkiMode, &settings.Anki, &settings.AnkiStored},
		{KeyAlwaysReveal, &settings.AlwaysReveal, &settings.AlwaysRevealStored},
	} {
		raw, ok, err := s.getSetting(ctx, b.key)
		if err != nil {
			return settings, err
		}
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			logErrf("corrupt %s setting, using default: %v\n", b.key, err)
			continue
		}
		*b.target = v
		*b.stored = true
	}

	if raw, ok, err := s.getSetting(ctx, KeyDisplay); err != nil {
		return settings, err
	} else if ok {
		display := settings.Display
		if err := json.Unmarshal([]byte(raw), &display); err != nil {
			logErrf("corrupt %s setting, using default: %v\n", KeyDisplay, err)
		} else {
			settings.Display = display
		}
	}
	return settings, nil
}

// SaveCustomWords persists the custom word list.
func (s *Store) SaveCustomWords(ctx context.Context, words []string) error {
	if words == nil {
		words = []string{}
	}
	encoded, err := json.Marshal(words)
	if err != nil {
		return err
	}
	return s.setSetting(ctx, KeyCustomWords, string(encoded))
}

// SaveCustomPhrase persists the custom phrase.
func (s *Store) SaveCustomPhrase(ctx context.Context, phrase string) error {
	return s.setSetting(ctx, KeyCustomPhrase, phrase)
}

// SaveAnkiMode persists the adaptive mode flag.
func (s *Store) SaveAnkiMode(ctx context.Context, on bool) error {
	return s.setSetting(ctx, KeyAnkiMode, strconv.FormatBool(on))
}

// SaveAlwaysReveal persists the always-reveal flag.
func (s *Store) SaveAlwaysReveal(ctx context.Context, on bool) error {
	return s.setSetting(ctx, KeyAlwaysReveal, strconv.FormatBool(on))
}

// SaveDisplay persists display settings.
func (s *Store) SaveDisplay(ctx context.Context, display model.DisplaySettings) error {
	encoded, err := json.Marshal(display)
	if err != nil {
		return err
	}
	return s.setSetting(ctx, KeyDisplay, string(encoded))
}
