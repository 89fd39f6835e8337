package categories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chordrill/internal/model"
)

func TestBuiltin(t *testing.T) {
	s, err := Builtin()
	require.NoError(t, err)

	names := []string{}
	for _, c := range s.Categories() {
		names = append(names, c.Name)
		assert.NotEmpty(t, c.Items, c.Name)
	}
	assert.Equal(t, []string{"common-words", "briefs", "american-cities", "phrases"}, names)

	phrases, ok := s.Get("phrases")
	require.True(t, ok)
	for _, it := range phrases.Items {
		sentence, ok := it.(*model.Sentence)
		require.True(t, ok)
		assert.Len(t, sentence.Chords, len(sentence.Words))
	}
}

func TestLoadFileMergesAndReplaces(t *testing.T) {
	s, err := Builtin()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "categories.toml")
	content := `[[category]]
name = "briefs"
words = [{ word = "okay", chord = "OBG" }]

[[category]]
name = "numbers"
title = "Numbers"
words = [{ word = "one", chord = "WUPB" }]
sentences = [{ text = "one two", chords = ["WUPB", "TWO"] }]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, s.LoadFile(path))

	briefs, _ := s.Get("briefs")
	require.Len(t, briefs.Items, 1)
	assert.Equal(t, "okay", briefs.Items[0].Text())
	assert.Equal(t, "briefs", briefs.Title)

	numbers, ok := s.Get("numbers")
	require.True(t, ok)
	assert.Len(t, numbers.Items, 2)
	assert.Equal(t, "numbers", s.Categories()[len(s.Categories())-1].Name)
}

func TestLoadFileMissingAndInvalid(t *testing.T) {
	s := NewSource()
	require.NoError(t, s.LoadFile(filepath.Join(t.TempDir(), "none.toml")))

	path := filepath.Join(t.TempDir(), "bad.toml")
	content := `[[category]]
name = "bad"
sentences = [{ text = "a b c", chords = ["A"] }]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	assert.Error(t, s.LoadFile(path))
}

func TestUnknown(t *testing.T) {
	s := NewSource()
	s.Add("a", "A", nil)
	assert.Equal(t, []string{"x", "y"}, s.Unknown([]string{"y", "a", "x"}))
}
