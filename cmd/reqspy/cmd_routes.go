package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sadopc/reqspy/internal/mock"
)

func routesCmd() {
	cfg := loadConfig()

	fs := flag.NewFlagSet("routes", flag.ExitOnError)
	outputFlag := fs.String("output", cfg.Output, "Output format: text, json")
	noColorFlag := fs.Bool("no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqspy routes <collection.reqspy.yaml|dir> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "List the routes 'reqspy serve' would match, in match order.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
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

	col, err := loadCollection(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading collection: %v\n", err)
		os.Exit(2)
	}

	routes := mock.New(col).Routes()
	p := newPrinter(cfg, *noColorFlag)
	if *outputFlag == "json" {
		err = p.PrintJSON(routes)
	} else {
		err = p.PrintRoutes(routes)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
