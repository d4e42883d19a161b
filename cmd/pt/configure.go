package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/poemtyper/internal/datasource"
	"github.com/vanderheijden86/poemtyper/pkg/config"
)

// configureValues holds the form fields as text so huh inputs can bind them.
type configureValues struct {
	Datasets string
	Blink    string
	Seed     string
	Cursor   string
	MaxWidth string
	Mouse    bool
	Watch    bool
}

func newConfigureValues(cfg config.Config) configureValues {
	return configureValues{
		Datasets: strings.Join(cfg.Datasets, ", "),
		Blink:    strconv.Itoa(cfg.BlinkIntervalMs),
		Seed:     strconv.FormatUint(cfg.Seed, 10),
		Cursor:   cfg.UI.Cursor,
		MaxWidth: strconv.Itoa(cfg.UI.MaxWidth),
		Mouse:    cfg.MouseEnabled(),
		Watch:    cfg.Watch,
	}
}

// apply copies the form values onto cfg. Fields the form does not cover,
// such as key bindings and panel text, are left as they were.
func (v configureValues) apply(cfg config.Config) (config.Config, error) {
	cfg.Datasets = splitList(v.Datasets)

	blink, err := validateNonNegative(v.Blink)
	if err != nil {
		return cfg, fmt.Errorf("blink interval: %w", err)
	}
	cfg.BlinkIntervalMs = blink

	width, err := validateNonNegative(v.MaxWidth)
	if err != nil {
		return cfg, fmt.Errorf("max width: %w", err)
	}
	cfg.UI.MaxWidth = width

	seed := strings.TrimSpace(v.Seed)
	if seed == "" {
		cfg.Seed = 0
	} else if cfg.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return cfg, fmt.Errorf("seed: %w", err)
	}

	cfg.UI.Cursor = v.Cursor
	mouse := v.Mouse
	cfg.UI.Mouse = &mouse
	cfg.Watch = v.Watch
	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateNonNegative(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

// validateDatasets checks that every listed file exists in a known format.
func validateDatasets(s string) error {
	for _, path := range splitList(s) {
		if _, err := datasource.Detect(path); err != nil {
			return err
		}
	}
	return nil
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func configureForm(v *configureValues) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Poem datasets").
				Description("Comma separated .json, .yaml or .db files. Empty uses the bundled poems.").
				Value(&v.Datasets).
				Validate(validateDatasets),
			huh.NewConfirm().
				Title("Reload datasets when they change?").
				Value(&v.Watch),
			huh.NewInput().
				Title("Seed").
				Description("0 picks poems at random").
				Value(&v.Seed).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Cursor blink (ms)").
				Value(&v.Blink).
				Validate(func(s string) error {
					_, err := validateNonNegative(s)
					return err
				}),
			huh.NewInput().
				Title("Cursor glyph").
				Value(&v.Cursor).
				Placeholder("▌"),
			huh.NewInput().
				Title("Maximum card width").
				Value(&v.MaxWidth).
				Validate(func(s string) error {
					_, err := validateNonNegative(s)
					return err
				}),
			huh.NewConfirm().
				Title("Enable mouse?").
				Description("Clickable header buttons and wheel scrolling").
				Value(&v.Mouse).
				Affirmative("Yes").
				Negative("No"),
		),
	)
}

func runConfigure(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pt configure", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Config file to edit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, path := loadConfig(*configPath, stderr)
	if path == "" {
		fmt.Fprintln(stderr, "Error: cannot determine config directory; pass --config")
		return 1
	}

	values := newConfigureValues(cfg)
	if err := configureForm(&values).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(stdout, "Configuration unchanged")
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	updated, err := values.apply(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := config.SaveTo(updated, path); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Saved configuration to %s\n", path)
	return 0
}
