package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Anki != nil || cfg.Dictionary.Path != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[practice]
categories = ["common", "briefs"]
anki = true
advance-delay-ms = 150

[dictionary]
url = "https://example.com/main.json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Practice.Categories == nil || len(*cfg.Practice.Categories) != 2 {
		t.Fatalf("unexpected categories: %+v", cfg.Practice.Categories)
	}
	if cfg.Practice.Anki == nil || !*cfg.Practice.Anki {
		t.Fatalf("expected anki=true")
	}
	if cfg.Practice.AlwaysReveal != nil {
		t.Fatalf("expected always-reveal to stay unset")
	}
	if cfg.Practice.AdvanceDelayMs == nil || *cfg.Practice.AdvanceDelayMs != 150 {
		t.Fatalf("unexpected advance delay: %v", cfg.Practice.AdvanceDelayMs)
	}
	if cfg.Dictionary.URL == nil || *cfg.Dictionary.URL != "https://example.com/main.json" {
		t.Fatalf("unexpected dictionary url: %v", cfg.Dictionary.URL)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice\nanki = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
