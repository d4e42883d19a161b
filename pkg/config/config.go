// Package config handles loading and saving pt configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/pt/config.yaml
//   - State:   ~/.local/state/pt/ (debug log)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/poemtyper/pkg/keys"
)

const appName = "pt"

// UIConfig holds presentation settings.
type UIConfig struct {
	Cursor   string `yaml:"cursor,omitempty"`    // Cursor glyph appended to the text being typed
	MaxWidth int    `yaml:"max_width,omitempty"` // Card width cap in cells
	Mouse    *bool  `yaml:"mouse,omitempty"`     // Clickable header buttons and wheel scrolling
}

// PanelsConfig overrides the markdown shown in the informational overlays.
// Empty fields keep the built-in text.
type PanelsConfig struct {
	Help     string `yaml:"help,omitempty"`
	Settings string `yaml:"settings,omitempty"`
	About    string `yaml:"about,omitempty"`
	Blog     string `yaml:"blog,omitempty"`
}

// Config is the top-level configuration for pt.
type Config struct {
	Datasets        []string          `yaml:"datasets,omitempty"`          // Poem files, merged in order
	BlinkIntervalMs int               `yaml:"blink_interval_ms,omitempty"` // Cursor half-period
	Seed            uint64            `yaml:"seed,omitempty"`              // 0 picks poems at random
	Watch           bool              `yaml:"watch,omitempty"`             // Reload datasets when they change
	UI              UIConfig          `yaml:"ui,omitempty"`
	Keys            map[string]string `yaml:"keys,omitempty"` // Action name -> comma separated chords
	Panels          PanelsConfig      `yaml:"panels,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BlinkIntervalMs: 530,
		UI: UIConfig{
			Cursor:   "▌",
			MaxWidth: 80,
		},
		Keys: make(map[string]string),
	}
}

// ConfigDir returns the XDG config directory for pt.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for pt.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Keys == nil {
		cfg.Keys = make(map[string]string)
	}
	for i := range cfg.Datasets {
		cfg.Datasets[i] = expandHome(cfg.Datasets[i])
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate rejects values the program cannot run with.
func (c Config) Validate() error {
	if c.BlinkIntervalMs < 0 {
		return fmt.Errorf("blink_interval_ms must not be negative, got %d", c.BlinkIntervalMs)
	}
	if c.UI.MaxWidth < 0 {
		return fmt.Errorf("ui.max_width must not be negative, got %d", c.UI.MaxWidth)
	}
	for name := range c.Keys {
		if _, ok := keys.ParseAction(name); !ok {
			return fmt.Errorf("keys: unknown action %q", name)
		}
	}
	return nil
}

// BlinkInterval returns the cursor half-period. Zero means the default.
func (c Config) BlinkInterval() time.Duration {
	return time.Duration(c.BlinkIntervalMs) * time.Millisecond
}

// MouseEnabled reports whether mouse support is on (default true).
func (c Config) MouseEnabled() bool {
	return c.UI.Mouse == nil || *c.UI.Mouse
}

// KeyMap applies the configured chords to the default key map.
// Invalid action names are skipped; Validate reports them.
func (c Config) KeyMap() keys.KeyMap {
	km := keys.DefaultKeyMap()
	for name, chords := range c.Keys {
		a, ok := keys.ParseAction(name)
		if !ok {
			continue
		}
		km = km.Rebind(a, splitChords(chords)...)
	}
	return km
}

func splitChords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
