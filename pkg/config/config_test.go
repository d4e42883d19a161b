package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/poemtyper/pkg/keys"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BlinkInterval() != 530*time.Millisecond {
		t.Errorf("expected 530ms blink, got %v", cfg.BlinkInterval())
	}
	if cfg.UI.Cursor != "▌" {
		t.Errorf("expected block cursor, got %q", cfg.UI.Cursor)
	}
	if !cfg.MouseEnabled() {
		t.Error("expected mouse enabled by default")
	}
	if cfg.Keys == nil {
		t.Error("expected keys map to be initialized")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.BlinkIntervalMs != 530 {
		t.Errorf("expected default config, got blink %d", cfg.BlinkIntervalMs)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
datasets:
  - ~/poemes/verlaine.json
  - /srv/poemes.db
blink_interval_ms: 400
seed: 7
watch: true
ui:
  cursor: "_"
  mouse: false
keys:
  new_poem: "f5, ctrl+r"
panels:
  about: "# Moi"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(cfg.Datasets))
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "poemes/verlaine.json"); cfg.Datasets[0] != want {
		t.Errorf("expected expanded path %q, got %q", want, cfg.Datasets[0])
	}
	if cfg.Datasets[1] != "/srv/poemes.db" {
		t.Errorf("expected absolute path preserved, got %q", cfg.Datasets[1])
	}
	if cfg.BlinkInterval() != 400*time.Millisecond {
		t.Errorf("expected 400ms, got %v", cfg.BlinkInterval())
	}
	if cfg.Seed != 7 || !cfg.Watch {
		t.Errorf("seed/watch not loaded: %d %v", cfg.Seed, cfg.Watch)
	}
	if cfg.UI.Cursor != "_" {
		t.Errorf("expected cursor '_', got %q", cfg.UI.Cursor)
	}
	if cfg.UI.MaxWidth != 80 {
		t.Errorf("unset max_width should keep the default, got %d", cfg.UI.MaxWidth)
	}
	if cfg.MouseEnabled() {
		t.Error("expected mouse disabled")
	}
	if cfg.Panels.About != "# Moi" {
		t.Errorf("expected about override, got %q", cfg.Panels.About)
	}

	km := cfg.KeyMap()
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyF5}, {Type: tea.KeyCtrlR}} {
		if a, ok := km.Lookup(msg); !ok || a != keys.ActionNewPoem {
			t.Errorf("%s should pick a new poem", msg.String())
		}
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg.BlinkIntervalMs != 530 {
		t.Error("expected defaults alongside the error")
	}
}

func TestLoadFrom_RejectsUnknownAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("keys:\n  explode: ctrl+x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "explode") {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlinkIntervalMs = -1
	if cfg.Validate() == nil {
		t.Error("negative blink interval should fail")
	}
	cfg = DefaultConfig()
	cfg.UI.MaxWidth = -5
	if cfg.Validate() == nil {
		t.Error("negative max width should fail")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	mouse := false
	cfg := Config{
		Datasets:        []string{"/a.json", "/b.yaml"},
		BlinkIntervalMs: 250,
		Seed:            99,
		UI:              UIConfig{Cursor: "|", MaxWidth: 60, Mouse: &mouse},
		Keys:            map[string]string{"copy": "ctrl+k"},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if len(loaded.Datasets) != 2 || loaded.Datasets[1] != "/b.yaml" {
		t.Errorf("datasets not round-tripped: %v", loaded.Datasets)
	}
	if loaded.BlinkIntervalMs != 250 || loaded.Seed != 99 {
		t.Errorf("numbers not round-tripped: %+v", loaded)
	}
	if loaded.MouseEnabled() {
		t.Error("mouse flag lost")
	}
	if loaded.Keys["copy"] != "ctrl+k" {
		t.Errorf("keys not round-tripped: %v", loaded.Keys)
	}
}

func TestKeyMap_EmptyChordUnbinds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keys["quit"] = " "
	if _, ok := cfg.KeyMap().Lookup(tea.KeyMsg{Type: tea.KeyCtrlC}); ok {
		t.Error("blank chord list should unbind quit")
	}
}

func TestKeyMap_ChordsAreOptIn(t *testing.T) {
	cfg := DefaultConfig()
	if _, ok := cfg.KeyMap().Lookup(tea.KeyMsg{Type: tea.KeyF1}); ok {
		t.Fatal("f1 should advance unless the config binds it")
	}
	cfg.Keys["help"] = "f1"
	if a, ok := cfg.KeyMap().Lookup(tea.KeyMsg{Type: tea.KeyF1}); !ok || a != keys.ActionHelp {
		t.Errorf("configured f1 = %v, %v; want help", a, ok)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, want := ConfigDir(), filepath.Join(dir, "pt"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, want := ConfigPath(), filepath.Join(dir, "pt", "config.yaml"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	if got, want := StateDir(), filepath.Join(dir, "pt"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSaveAndLoad_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Seed = 3
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Seed != 3 {
		t.Errorf("expected seed 3, got %d", loaded.Seed)
	}
}
