package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sadopc/reqspy/internal/query"
)

func parseCmd() {
	cfg := loadConfig()

	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	outputFlag := fs.String("output", cfg.Output, "Output format: text, json")
	copyFlag := fs.Bool("copy", false, "Copy the JSON mapping to the clipboard")
	noColorFlag := fs.Bool("no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqspy parse <query|url> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Show how a query string is coerced into searchParams.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  reqspy parse 'active=true&limit=10&name=alice'\n")
		fmt.Fprintf(os.Stderr, "  reqspy parse 'http://localhost:8080/items?page=2' --output json\n")
		fmt.Fprintf(os.Stderr, "  reqspy parse '?ids=0x1f' --copy\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: query string is required\n\n")
		fs.Usage()
		os.Exit(2)
	}
	validateOutput(*outputFlag)

	m, err := parseInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *copyFlag {
		data, err := json.Marshal(m)
		if err == nil {
			err = clipboard.WriteAll(string(data))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error copying to clipboard: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Copied to clipboard\n")
	}

	p := newPrinter(cfg, *noColorFlag)
	if *outputFlag == "json" {
		err = p.PrintJSON(m)
	} else {
		err = p.PrintMapping(m)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseInput accepts a bare query ("a=1&b=2", "?a=1") or an absolute URL.
func parseInput(arg string) (query.Mapping, error) {
	if strings.Contains(arg, "://") {
		u, err := url.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("parsing url: %w", err)
		}
		return query.FromURL(u), nil
	}
	return query.Parse(arg), nil
}
