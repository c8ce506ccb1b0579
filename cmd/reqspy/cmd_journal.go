package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sadopc/reqspy/internal/core/journal"
)

func journalCmd() {
	cfg := loadConfig()
	dbDefault := cfg.Journal
	if dbDefault == "" {
		dbDefault = defaultJournalPath()
	}

	fs := flag.NewFlagSet("journal", flag.ExitOnError)
	dbFlag := fs.String("db", dbDefault, "Journal SQLite file")
	methodFlag := fs.String("method", "", "Only show this HTTP method")
	pathFlag := fs.String("path", "", "Only show pathnames containing this text")
	routeFlag := fs.String("route", "", "Only show requests matched by this route name")
	sinceFlag := fs.Duration("since", 0, "Only show requests newer than this (e.g., 10m, 2h)")
	limitFlag := fs.Int("limit", 50, "Maximum number of entries")
	outputFlag := fs.String("output", cfg.Output, "Output format: text, json")
	clearFlag := fs.Bool("clear", false, "Delete all journal entries")
	noColorFlag := fs.Bool("no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqspy journal [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Inspect requests recorded by 'reqspy serve --journal', newest first.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  reqspy journal --db calls.db\n")
		fmt.Fprintf(os.Stderr, "  reqspy journal --db calls.db --method get --path /items --since 10m\n")
		fmt.Fprintf(os.Stderr, "  reqspy journal --db calls.db --clear\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	validateOutput(*outputFlag)

	if _, err := os.Stat(*dbFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: journal %s: %v\n", *dbFlag, err)
		os.Exit(2)
	}
	store, err := journal.NewStore(*dbFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer store.Close()

	if *clearFlag {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Journal cleared\n")
		return
	}

	f := buildFilter(*methodFlag, *pathFlag, *routeFlag, *sinceFlag, *limitFlag, time.Now())
	entries, err := store.ListFiltered(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := newPrinter(cfg, *noColorFlag)
	if *outputFlag == "json" {
		err = p.PrintJSON(journalJSON(entries))
	} else {
		err = p.PrintEntries(entries)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildFilter(method, path, route string, since time.Duration, limit int, now time.Time) journal.Filter {
	f := journal.Filter{
		Method:      strings.ToUpper(method),
		PathPattern: path,
		Route:       route,
		Limit:       limit,
	}
	if since > 0 {
		f.Since = now.Add(-since)
	}
	return f
}

type journalEntryJSON struct {
	RequestID    string `json:"requestId"`
	Method       string `json:"method"`
	Pathname     string `json:"pathname"`
	SearchParams any    `json:"searchParams"`
	Route        string `json:"route,omitempty"`
	Status       int    `json:"status"`
	DurationMS   int64  `json:"durationMs"`
	Timestamp    string `json:"timestamp"`
}

func journalJSON(entries []journal.Entry) []journalEntryJSON {
	out := make([]journalEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, journalEntryJSON{
			RequestID:    e.RequestID,
			Method:       e.Method,
			Pathname:     e.Pathname,
			SearchParams: e.SearchParams(),
			Route:        e.RouteName,
			Status:       e.StatusCode,
			DurationMS:   e.Duration.Milliseconds(),
			Timestamp:    e.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}
