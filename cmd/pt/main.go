package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/poemtyper/internal/datasource"
	"github.com/vanderheijden86/poemtyper/pkg/config"
	"github.com/vanderheijden86/poemtyper/pkg/debug"
	"github.com/vanderheijden86/poemtyper/pkg/poem"
	"github.com/vanderheijden86/poemtyper/pkg/reveal"
	"github.com/vanderheijden86/poemtyper/pkg/ui"
	"github.com/vanderheijden86/poemtyper/pkg/version"
	"github.com/vanderheijden86/poemtyper/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches subcommands and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "configure":
			return runConfigure(args[1:], stdout, stderr)
		case "snapshot":
			return runSnapshot(args[1:], stdout, stderr)
		}
	}
	return runViewer(args, stdout, stderr)
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type viewerFlags struct {
	configPath string
	datasets   stringList
	seed       uint64
	blinkMs    int
	watch      bool
	noMouse    bool
	version    bool
	help       bool

	set map[string]bool // flags given on the command line
}

func parseViewerFlags(args []string, stderr io.Writer) (*viewerFlags, *flag.FlagSet, error) {
	f := &viewerFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("pt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/pt/config.yaml)")
	fs.Var(&f.datasets, "dataset", "Poem dataset (.json, .yaml, .db); repeat to merge several")
	fs.Uint64Var(&f.seed, "seed", 0, "Seed for reproducible poem picks (0 = random)")
	fs.IntVar(&f.blinkMs, "blink", 0, "Cursor blink half-period in milliseconds")
	fs.BoolVar(&f.watch, "watch", false, "Reload datasets when they change on disk")
	fs.BoolVar(&f.noMouse, "no-mouse", false, "Disable clickable buttons and wheel scrolling")
	fs.BoolVar(&f.version, "version", false, "Show version")
	fs.BoolVar(&f.help, "help", false, "Show help")
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, fs, nil
}

// apply overlays command-line flags on the file config.
func (f *viewerFlags) apply(cfg config.Config) config.Config {
	if len(f.datasets) > 0 {
		cfg.Datasets = append([]string(nil), f.datasets...)
	}
	if f.set["seed"] {
		cfg.Seed = f.seed
	}
	if f.set["blink"] {
		cfg.BlinkIntervalMs = f.blinkMs
	}
	if f.set["watch"] {
		cfg.Watch = f.watch
	}
	if f.noMouse {
		off := false
		cfg.UI.Mouse = &off
	}
	return cfg
}

// loadConfig reads the config file. A broken file is reported and replaced
// by defaults so the viewer still starts.
func loadConfig(path string, stderr io.Writer) (config.Config, string) {
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		return config.DefaultConfig(), ""
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg, path
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: pt [options]")
	fmt.Fprintln(w, "       pt configure [--config path]")
	fmt.Fprintln(w, "       pt snapshot --out card.svg [--id N] [--dataset path]")
	fmt.Fprintln(w, "\nReveal poems one keystroke at a time.")
	fmt.Fprintln(w)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func runViewer(args []string, stdout, stderr io.Writer) int {
	flags, fs, err := parseViewerFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.help {
		printUsage(fs, stdout)
		return 0
	}
	if flags.version {
		fmt.Fprintf(stdout, "pt %s\n", version.String())
		return 0
	}

	cfg, cfgPath := loadConfig(flags.configPath, stderr)
	cfg = flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	closeLog, err := debug.Setup(debug.Options{File: debug.DefaultFile(config.StateDir())})
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	} else {
		defer closeLog()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, w, err := buildModel(ctx, cfg, cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading poems: %v\n", err)
		return 1
	}
	if w != nil {
		defer w.Stop()
	}

	if err := runTUIProgram(ctx, m, cfg.MouseEnabled()); err != nil {
		fmt.Fprintf(stderr, "Error running poem viewer: %v\n", err)
		return 1
	}
	return 0
}

// newEngine loads every configured dataset and builds the reveal engine.
func newEngine(ctx context.Context, cfg config.Config) (*reveal.Engine, error) {
	defer debug.LogEnterExit("newEngine")()

	coll, err := datasource.Load(ctx, cfg.Datasets)
	if err != nil {
		return nil, err
	}

	if cfg.Seed != 0 {
		return reveal.NewSeeded(coll, cfg.Seed)
	}
	return reveal.New(coll, nil)
}

// buildModel wires config, datasets and the optional watcher into a model.
// The caller stops the returned watcher, if any.
func buildModel(ctx context.Context, cfg config.Config, cfgPath string) (ui.Model, *watcher.Watcher, error) {
	engine, err := newEngine(ctx, cfg)
	if err != nil {
		return ui.Model{}, nil, err
	}

	km := cfg.KeyMap()
	opts := []ui.Option{
		ui.WithKeyMap(km),
		ui.WithBlinkInterval(cfg.BlinkInterval()),
		ui.WithCursor(cfg.UI.Cursor),
		ui.WithMaxWidth(cfg.UI.MaxWidth),
		ui.WithMouse(cfg.MouseEnabled()),
		ui.WithPanels(ui.BuildPanels(km, cfg, cfgPath)),
	}

	var w *watcher.Watcher
	if cfg.Watch {
		if len(cfg.Datasets) == 0 {
			debug.Log("watch requested but only the embedded dataset is loaded")
		} else {
			w, err = watcher.NewWatcher(cfg.Datasets,
				watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
			)
			if err == nil {
				err = w.Start()
			}
			if err != nil {
				return ui.Model{}, nil, fmt.Errorf("watching datasets: %w", err)
			}
			paths := append([]string(nil), cfg.Datasets...)
			opts = append(opts, ui.WithWatcher(w, func(ctx context.Context) (*poem.Collection, error) {
				return datasource.Load(ctx, paths)
			}))
		}
	}

	return ui.NewModel(engine, opts...), w, nil
}

func runTUIProgram(ctx context.Context, m ui.Model, mouse bool) error {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set PT_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("PT_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
