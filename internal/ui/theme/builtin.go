package theme

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CatppuccinMocha is the default dark theme.
var CatppuccinMocha = Theme{
	Name:     "Catppuccin Mocha",
	Text:     lipgloss.Color("#cdd6f4"),
	Muted:    lipgloss.Color("#585b70"),
	Red:      lipgloss.Color("#f38ba8"),
	Peach:    lipgloss.Color("#fab387"),
	Yellow:   lipgloss.Color("#f9e2af"),
	Green:    lipgloss.Color("#a6e3a1"),
	Teal:     lipgloss.Color("#94e2d5"),
	Blue:     lipgloss.Color("#89b4fa"),
	Lavender: lipgloss.Color("#b4befe"),
	Mauve:    lipgloss.Color("#cba6f7"),
	Chroma:   "catppuccin-mocha",
}

var CatppuccinLatte = Theme{
	Name:     "Catppuccin Latte",
	Text:     lipgloss.Color("#4c4f69"),
	Muted:    lipgloss.Color("#8c8fa1"),
	Red:      lipgloss.Color("#d20f39"),
	Peach:    lipgloss.Color("#fe640b"),
	Yellow:   lipgloss.Color("#df8e1d"),
	Green:    lipgloss.Color("#40a02b"),
	Teal:     lipgloss.Color("#179299"),
	Blue:     lipgloss.Color("#1e66f5"),
	Lavender: lipgloss.Color("#7287fd"),
	Mauve:    lipgloss.Color("#8839ef"),
	Chroma:   "catppuccin-latte",
}

var Nord = Theme{
	Name:     "Nord",
	Text:     lipgloss.Color("#eceff4"),
	Muted:    lipgloss.Color("#4c566a"),
	Red:      lipgloss.Color("#bf616a"),
	Peach:    lipgloss.Color("#d08770"),
	Yellow:   lipgloss.Color("#ebcb8b"),
	Green:    lipgloss.Color("#a3be8c"),
	Teal:     lipgloss.Color("#8fbcbb"),
	Blue:     lipgloss.Color("#5e81ac"),
	Lavender: lipgloss.Color("#b48ead"),
	Mauve:    lipgloss.Color("#b48ead"),
	Chroma:   "nord",
}

var Dracula = Theme{
	Name:     "Dracula",
	Text:     lipgloss.Color("#f8f8f2"),
	Muted:    lipgloss.Color("#6272a4"),
	Red:      lipgloss.Color("#ff5555"),
	Peach:    lipgloss.Color("#ffb86c"),
	Yellow:   lipgloss.Color("#f1fa8c"),
	Green:    lipgloss.Color("#50fa7b"),
	Teal:     lipgloss.Color("#8be9fd"),
	Blue:     lipgloss.Color("#6272a4"),
	Lavender: lipgloss.Color("#bd93f9"),
	Mauve:    lipgloss.Color("#bd93f9"),
	Chroma:   "dracula",
}

// Catalog maps normalized theme names to themes.
var Catalog = map[string]Theme{}

func init() {
	for _, t := range []Theme{CatppuccinMocha, CatppuccinLatte, Nord, Dracula} {
		Catalog[normalizeKey(t.Name)] = t
	}
}

// Default returns the default theme.
func Default() Theme {
	return CatppuccinMocha
}

// Get returns a built-in theme by name.
func Get(name string) (Theme, bool) {
	t, ok := Catalog[normalizeKey(name)]
	return t, ok
}

// Names returns the built-in theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for _, t := range Catalog {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a theme by name: catalog, then ~/.config/reqspy/themes,
// then the default.
func Resolve(name string) Theme {
	if t, ok := Get(name); ok {
		return t
	}
	if home, err := os.UserHomeDir(); err == nil {
		customs := LoadCustomThemes(filepath.Join(home, ".config", "reqspy", "themes"))
		if t, ok := customs[normalizeKey(name)]; ok {
			return t
		}
	}
	return Default()
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
