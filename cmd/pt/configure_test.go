package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/poemtyper/internal/datasource"
	"github.com/vanderheijden86/poemtyper/pkg/config"
	"github.com/vanderheijden86/poemtyper/pkg/testutil"
)

func TestConfigureValues_RoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Datasets = []string{"a.json", "b.yaml"}
	cfg.Seed = 5
	cfg.Keys["copy"] = "ctrl+k"

	got, err := newConfigureValues(cfg).apply(cfg)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertJSONEqual(t, cfg.Datasets, got.Datasets)
	if got.Seed != 5 || got.BlinkIntervalMs != cfg.BlinkIntervalMs || got.UI.MaxWidth != cfg.UI.MaxWidth {
		t.Errorf("values changed: %+v", got)
	}
	if got.Keys["copy"] != "ctrl+k" {
		t.Error("key bindings should survive the form")
	}
	if got.UI.Mouse == nil || !*got.UI.Mouse {
		t.Error("mouse should be explicitly enabled")
	}
}

func TestConfigureValues_Apply(t *testing.T) {
	v := configureValues{
		Datasets: " one.json , ,two.db ",
		Blink:    "",
		Seed:     "",
		Cursor:   "_",
		MaxWidth: "60",
		Mouse:    false,
		Watch:    true,
	}
	cfg, err := v.apply(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Datasets) != 2 || cfg.Datasets[1] != "two.db" {
		t.Errorf("Datasets = %v", cfg.Datasets)
	}
	if cfg.BlinkIntervalMs != 0 || cfg.Seed != 0 || cfg.UI.MaxWidth != 60 || cfg.UI.Cursor != "_" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MouseEnabled() || !cfg.Watch {
		t.Errorf("mouse=%v watch=%v", cfg.MouseEnabled(), cfg.Watch)
	}
}

func TestConfigureValues_ApplyErrors(t *testing.T) {
	base := newConfigureValues(config.DefaultConfig())
	tests := []struct {
		name   string
		mutate func(*configureValues)
	}{
		{"negative blink", func(v *configureValues) { v.Blink = "-1" }},
		{"text width", func(v *configureValues) { v.MaxWidth = "wide" }},
		{"bad seed", func(v *configureValues) { v.Seed = "-3" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			tt.mutate(&v)
			if _, err := v.apply(config.DefaultConfig()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateDatasets(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteJSONDataset(t, filepath.Join(dir, "p.json"), testutil.Ciel())

	if err := validateDatasets(""); err != nil {
		t.Errorf("empty list: %v", err)
	}
	if err := validateDatasets(good); err != nil {
		t.Errorf("valid dataset: %v", err)
	}
	testutil.WriteJSONDataset(t, filepath.Join(dir, "notes.txt"), testutil.Ciel())
	if err := validateDatasets(good + ", " + filepath.Join(dir, "notes.txt")); !errors.Is(err, datasource.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
	if err := validateDatasets(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
