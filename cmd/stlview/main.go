// stlview - STL Mesh Viewer
// Load an STL file, look at it, and move it along X or Y.
//
// Window controls:
//
//	Load STL File    - Pick a .stl file
//	Unload STL File  - Remove the mesh
//	Translate X / Y  - Place the mesh one step along X or Y from where it loaded
//	Mouse drag       - Orbit the camera
//	R                - Reset view
//	W                - Toggle wireframe
//
// Terminal controls (-tui):
//
//	O       - Load the file named on the command line
//	U       - Unload
//	X / Y   - Translate
//	Arrows  - Orbit (mouse drag works too)
//	R / W   - Reset view / toggle wireframe
//	S / A   - Toggle smooth shading / axes
//	Esc     - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/taigrr/stlview/internal/config"
	"github.com/taigrr/stlview/internal/gui"
	"github.com/taigrr/stlview/internal/logging"
	"github.com/taigrr/stlview/internal/tui"
)

const appID = "io.github.taigrr.stlview"

var (
	configPath = flag.String("config", "stlview.yaml", "Path to YAML config (missing file uses defaults)")
	useTUI     = flag.Bool("tui", false, "Run in the terminal instead of a window")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	snapshot   = flag.String("snapshot", "", "Render the mesh to this PNG file and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stlview - STL Mesh Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stlview [options] [model.stl]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nTerminal controls:\n")
		fmt.Fprintf(os.Stderr, "  O           - Load the file given above\n")
		fmt.Fprintf(os.Stderr, "  U           - Unload\n")
		fmt.Fprintf(os.Stderr, "  X/Y         - Translate along X/Y\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  W           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *useTUI {
		cfg.Frontend = config.FrontendTUI
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sinks []string
	switch {
	case cfg.LogFile != "":
		sinks = []string{cfg.LogFile}
	case cfg.Frontend == config.FrontendTUI:
		// The terminal frontend owns stdout.
		sinks = []string{filepath.Join(os.TempDir(), "stlview.log")}
	}
	logger, err := logging.New(cfg.LogLevel, sinks...)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.String("frontend", cfg.Frontend),
		zap.String("config", *configPath),
		zap.String("model", modelPath),
	)

	switch {
	case *snapshot != "":
		return renderSnapshot(cfg, modelPath, *snapshot, logger)

	case cfg.Frontend == config.FrontendTUI:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return tui.New(cfg, modelPath, logger).Run(ctx)

	default:
		w := gui.New(app.NewWithID(appID), cfg, logger)
		if modelPath != "" {
			w.LoadFile(modelPath)
		}
		w.ShowAndRun()
		return nil
	}
}
