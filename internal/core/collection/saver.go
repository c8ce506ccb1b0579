package collection

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveToFile writes a collection as YAML. The file is replaced atomically so
// a server watching the path never reads a half-written collection.
func SaveToFile(col *Collection, path string) error {
	data, err := yaml.Marshal(col)
	if err != nil {
		return fmt.Errorf("marshaling collection: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".collection-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing collection file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing collection file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing collection file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing collection file: %w", err)
	}
	return nil
}
