package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var (
	testBase    = lipgloss.NewStyle()
	testCurrent = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

func TestBuildStyledTextUnderlinesCurrentWord(t *testing.T) {
	runes := buildStyledText("one two", 1, testBase, testCurrent)
	if len(runes) != 7 {
		t.Fatalf("expected 7 runes, got %d", len(runes))
	}
	if runes[0].s != testBase.Render("o") {
		t.Fatalf("expected base style for first word")
	}
	if !runes[3].isSpace {
		t.Fatalf("expected space marker at index 3")
	}
	underlined := testCurrent.Underline(true)
	for i := 4; i < 7; i++ {
		if runes[i].s != underlined.Render(string("two"[i-4])) {
			t.Fatalf("expected underline on rune %d", i)
		}
	}
}

func TestBuildStyledTextNoUnderline(t *testing.T) {
	runes := buildStyledText("the", -1, testBase, testCurrent)
	for i, r := range runes {
		if r.s != testBase.Render(string("the"[i])) {
			t.Fatalf("expected base style on rune %d", i)
		}
	}
}

func TestBuildStyledTextWideRunes(t *testing.T) {
	runes := buildStyledText("日本 go", -1, testBase, testCurrent)
	if runes[0].width != 2 || runes[1].width != 2 || runes[3].width != 1 {
		t.Fatalf("unexpected widths: %+v", runes)
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := buildStyledText("this is the way", -1, testBase, testCurrent)
	out := wrapStyledRunes(runes, 8)
	lines := strings.Split(out, "\n")
	want := []string{"this is", "the way"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapStyledRunesSplitsLongWord(t *testing.T) {
	runes := buildStyledText("abcdef", -1, testBase, testCurrent)
	if out := wrapStyledRunes(runes, 4); out != "abcd\nef" {
		t.Fatalf("unexpected wrap: %q", out)
	}
	if out := wrapStyledRunes(runes, 0); out != "abcdef" {
		t.Fatalf("unexpected unwrapped output: %q", out)
	}
}
