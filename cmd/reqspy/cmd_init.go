package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/reqspy/internal/core/collection"
)

func initCmd() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	nameFlag := fs.String("name", "My API", "Collection name")
	outputFlag := fs.String("output", "", "Output file path (default: <name>.reqspy.yaml)")
	baseURLFlag := fs.String("base-url", "http://localhost:8080", "Value of the base_url collection variable")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqspy init [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Create a starter .reqspy.yaml collection.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  reqspy init\n")
		fmt.Fprintf(os.Stderr, "  reqspy init --name \"Orders API\" --output orders.reqspy.yaml\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(*nameFlag), " ", "-")) + collection.FileSuffix
	}
	if _, err := os.Stat(outputPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: file %q already exists\n", outputPath)
		os.Exit(1)
	}

	if err := collection.SaveToFile(starterCollection(*nameFlag, *baseURLFlag), outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", outputPath)
}

// starterCollection has one route per common case: plain, param-constrained
// and a write.
func starterCollection(name, baseURL string) *collection.Collection {
	list := collection.NewRoute("List items", "GET", "{{base_url}}/items")
	list.Response = &collection.Response{
		Status: 200,
		Body:   &collection.Body{Type: "json", Content: `[{"id": 1, "name": "first"}]`},
	}

	active := collection.NewRoute("List active items", "GET", "{{base_url}}/items")
	active.Params = []collection.KVPair{{Key: "active", Value: "true", Enabled: true}}
	active.Response = &collection.Response{
		Status: 200,
		Body:   &collection.Body{Type: "json", Content: `[]`},
	}

	create := collection.NewRoute("Create item", "POST", "{{base_url}}/items")
	create.Response = &collection.Response{
		Status:  201,
		Headers: []collection.KVPair{{Key: "Location", Value: "/items/{{$randomInt}}", Enabled: true}},
		Body:    &collection.Body{Type: "json", Content: `{"id": "{{$uuid}}", "created": {{$timestamp}}}`},
	}

	return &collection.Collection{
		Name:      name,
		Version:   "1",
		Variables: map[string]string{"base_url": baseURL},
		Items: []collection.Item{
			{Folder: &collection.Folder{
				Name: "Items",
				// Constrained routes first so they win over the plain one.
				Items: []collection.Item{{Route: active}, {Route: list}, {Route: create}},
			}},
		},
	}
}
