package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sadopc/reqspy/internal/core/collection"
	"github.com/sadopc/reqspy/internal/core/journal"
	"github.com/sadopc/reqspy/internal/mock"
	"github.com/sadopc/reqspy/internal/render"
	"github.com/sadopc/reqspy/internal/spy"
	"github.com/sadopc/reqspy/internal/ui/tail"
	"github.com/sadopc/reqspy/internal/ui/theme"
)

func serveCmd() {
	cfg := loadConfig()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	portFlag := fs.Int("port", cfg.Port, "Port to listen on")
	latencyFlag := fs.Duration("latency", cfg.Latency, "Artificial response latency (e.g., 200ms, 1s)")
	errorRateFlag := fs.Float64("error-rate", cfg.ErrorRate, "Random error rate (0.0-1.0)")
	corsOriginFlag := fs.String("cors-origin", cfg.CORSOrigin, "Access-Control-Allow-Origin header value")
	journalFlag := fs.String("journal", cfg.Journal, "Record matched requests to this SQLite file")
	outputFlag := fs.String("output", cfg.Output, "Output format: text, json")
	tuiFlag := fs.Bool("tui", false, "Show a live call log instead of printing lines")
	noColorFlag := fs.Bool("no-color", false, "Disable colored output")
	verboseFlag := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqspy serve <collection.reqspy.yaml|dir> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Serve a collection as a mock HTTP server and record every matched request\n")
		fmt.Fprintf(os.Stderr, "as {searchParams, pathname, method}. Query values are coerced: true/false\n")
		fmt.Fprintf(os.Stderr, "become booleans, numeric strings become numbers, everything else stays text.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nDynamic variables in response bodies:\n")
		fmt.Fprintf(os.Stderr, "  {{$timestamp}}   Current Unix timestamp\n")
		fmt.Fprintf(os.Stderr, "  {{$uuid}}        Random UUID v4\n")
		fmt.Fprintf(os.Stderr, "  {{$randomInt}}   Random integer (0-9999)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  reqspy serve api.reqspy.yaml\n")
		fmt.Fprintf(os.Stderr, "  reqspy serve api.reqspy.yaml --port 3000 --output json\n")
		fmt.Fprintf(os.Stderr, "  reqspy serve api.reqspy.yaml --journal calls.db --latency 200ms\n")
		fmt.Fprintf(os.Stderr, "  reqspy serve ./mocks --tui\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: collection path is required\n\n")
		fs.Usage()
		os.Exit(2)
	}
	validateOutput(*outputFlag)

	if *errorRateFlag < 0 || *errorRateFlag > 1 {
		fmt.Fprintf(os.Stderr, "Error: error-rate must be between 0.0 and 1.0\n")
		os.Exit(2)
	}
	if *portFlag < 0 || *portFlag > 65535 {
		fmt.Fprintf(os.Stderr, "Error: port must be between 0 and 65535\n")
		os.Exit(2)
	}

	col, err := loadCollection(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading collection: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	if *tuiFlag {
		// The TUI owns the terminal.
		logger = zap.NewNop()
	}

	srv := mock.New(col,
		mock.WithPort(*portFlag),
		mock.WithLatency(*latencyFlag),
		mock.WithErrorRate(*errorRateFlag),
		mock.WithCORSOrigin(*corsOriginFlag),
		mock.WithLogger(logger),
	)
	if len(srv.Routes()) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no HTTP routes found in collection %q\n", col.Name)
		fmt.Fprintf(os.Stderr, "The mock server will return 404 for all requests.\n\n")
	}

	rec := spy.Observe(srv.Events())
	defer rec.Stop()

	if *journalFlag != "" {
		store, err := journal.NewStore(*journalFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
			os.Exit(2)
		}
		defer store.Close()
		off := journal.Attach(srv.Events(), store, logger)
		defer off()
		logger.Info("journaling requests", zap.String("path", *journalFlag))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	printer := newPrinter(cfg, *noColorFlag)

	if *tuiFlag {
		if err := runTUI(ctx, cancel, srv, rec, theme.Resolve(cfg.Theme), printer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	rec.OnCall(func(info spy.RequestInfo) {
		if *outputFlag == "json" {
			_ = printer.PrintJSON(info)
			return
		}
		_ = printer.PrintCall(info)
	})

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("session finished", zap.Int("calls", rec.Len()))
}

func runTUI(ctx context.Context, cancel context.CancelFunc, srv *mock.Server, rec *spy.Recorder, th theme.Theme, p *render.Printer) error {
	title := fmt.Sprintf("http://localhost:%d", srv.Port())
	prog := tea.NewProgram(tail.New(title, th, p), tea.WithAltScreen(), tea.WithContext(ctx))
	tail.Subscribe(rec, prog)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	_, runErr := prog.Run()
	cancel()
	if err := <-errCh; err != nil {
		return err
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}

// loadCollection loads a single collection file, or merges every
// *.reqspy.yaml in a directory into one collection.
func loadCollection(path string) (*collection.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return collection.LoadFromFile(path)
	}
	cols, err := collection.LoadFromDir(path)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no %s files in %s", collection.FileSuffix, path)
	}
	merged := &collection.Collection{Name: filepath.Base(path), Variables: map[string]string{}}
	for _, c := range cols {
		for k, v := range c.Variables {
			merged.Variables[k] = v
		}
		merged.Items = append(merged.Items, c.Items...)
	}
	return merged, nil
}
