package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

type yamlTheme struct {
	Name     string `yaml:"name"`
	Base     string `yaml:"base"` // built-in theme to start from
	Text     string `yaml:"text"`
	Muted    string `yaml:"muted"`
	Red      string `yaml:"red"`
	Peach    string `yaml:"peach"`
	Yellow   string `yaml:"yellow"`
	Green    string `yaml:"green"`
	Teal     string `yaml:"teal"`
	Blue     string `yaml:"blue"`
	Lavender string `yaml:"lavender"`
	Mauve    string `yaml:"mauve"`
	Chroma   string `yaml:"chroma"`
}

// LoadCustomTheme loads a theme from a YAML file. Colors left out keep the
// value of the base theme (the default when base is not set).
func LoadCustomTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("reading theme file: %w", err)
	}

	var yt yamlTheme
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return Theme{}, fmt.Errorf("parsing theme YAML: %w", err)
	}

	t := Default()
	if b, ok := Get(yt.Base); ok {
		t = b
	}
	t.Name = yt.Name
	if t.Name == "" {
		base := filepath.Base(path)
		t.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&t.Text, yt.Text)
	set(&t.Muted, yt.Muted)
	set(&t.Red, yt.Red)
	set(&t.Peach, yt.Peach)
	set(&t.Yellow, yt.Yellow)
	set(&t.Green, yt.Green)
	set(&t.Teal, yt.Teal)
	set(&t.Blue, yt.Blue)
	set(&t.Lavender, yt.Lavender)
	set(&t.Mauve, yt.Mauve)
	if yt.Chroma != "" {
		t.Chroma = yt.Chroma
	}
	return t, nil
}

// LoadCustomThemes loads all YAML themes from a directory. Unreadable files
// are skipped.
func LoadCustomThemes(dir string) map[string]Theme {
	themes := make(map[string]Theme)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return themes
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		t, err := LoadCustomTheme(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		themes[normalizeKey(t.Name)] = t
	}
	return themes
}
