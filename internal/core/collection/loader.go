package collection

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileSuffix is the extension LoadFromDir looks for.
const FileSuffix = ".reqspy.yaml"

// LoadFromFile loads a collection from a YAML file.
func LoadFromFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a collection from YAML bytes. Routes without an ID
// get one; a collection with unservable routes is rejected.
func LoadFromBytes(data []byte) (*Collection, error) {
	var col Collection
	if err := yaml.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("parsing collection: %w", err)
	}
	if col.Version == "" {
		col.Version = "1"
	}
	if err := col.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collection %q: %w", col.Name, err)
	}
	assignIDs(col.Items)
	return &col, nil
}

// LoadFromDir loads every *.reqspy.yaml in dir, in name order. Two files
// may not declare the same collection name.
func LoadFromDir(dir string) ([]*Collection, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
	if err != nil {
		return nil, fmt.Errorf("globbing collection files: %w", err)
	}
	var collections []*Collection
	names := map[string]string{}
	for _, path := range matches {
		col, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		if prev, dup := names[col.Name]; dup && col.Name != "" {
			return nil, fmt.Errorf("collection %q defined in both %s and %s", col.Name, prev, path)
		}
		names[col.Name] = path
		collections = append(collections, col)
	}
	return collections, nil
}

func assignIDs(items []Item) {
	for i := range items {
		if items[i].Route != nil && items[i].Route.ID == "" {
			items[i].Route.ID = uuid.New().String()
		}
		if items[i].Folder != nil {
			assignIDs(items[i].Folder.Items)
		}
	}
}
