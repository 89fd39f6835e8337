package wordlist

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("  Hello\t"); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

func TestCleanDropsDuplicatesAndEmpties(t *testing.T) {
	got := Clean([]string{"The", "", "the", " cat ", "CAT", "dog"})
	want := []string{"The", "cat", "dog"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q at %d, got %q", want[i], i, got[i])
		}
	}
}

func TestReadWordsCommasAndLines(t *testing.T) {
	words, err := ReadWords(strings.NewReader("alpha, beta\n\ngamma\r\nalpha\n"))
	if err != nil {
		t.Fatalf("ReadWords failed: %v", err)
	}
	if strings.Join(words, "|") != "alpha|beta|gamma" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestReadWordsEmpty(t *testing.T) {
	if _, err := ReadWords(strings.NewReader(" \n , \n")); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
