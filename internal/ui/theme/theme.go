package theme

import "github.com/charmbracelet/lipgloss"

// Theme is the palette used for terminal output.
type Theme struct {
	Name string

	Text  lipgloss.Color
	Muted lipgloss.Color

	Red      lipgloss.Color
	Peach    lipgloss.Color
	Yellow   lipgloss.Color
	Green    lipgloss.Color
	Teal     lipgloss.Color
	Blue     lipgloss.Color
	Lavender lipgloss.Color
	Mauve    lipgloss.Color

	// Chroma is the chroma style name used to highlight JSON.
	Chroma string
}

// MethodColor returns the color for an HTTP method.
func (t Theme) MethodColor(method string) lipgloss.Color {
	switch method {
	case "GET":
		return t.Green
	case "POST":
		return t.Yellow
	case "PUT":
		return t.Blue
	case "PATCH":
		return t.Peach
	case "DELETE":
		return t.Red
	case "HEAD":
		return t.Teal
	case "OPTIONS":
		return t.Lavender
	default:
		return t.Text
	}
}

// StatusColor returns the color for an HTTP status code.
func (t Theme) StatusColor(code int) lipgloss.Color {
	switch {
	case code >= 200 && code < 300:
		return t.Green
	case code >= 300 && code < 400:
		return t.Blue
	case code >= 400 && code < 500:
		return t.Yellow
	case code >= 500:
		return t.Red
	default:
		return t.Muted
	}
}

// Method returns a bold style for an HTTP method.
func (t Theme) Method(method string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.MethodColor(method))
}

// Status returns the style for a status code.
func (t Theme) Status(code int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.StatusColor(code))
}

// Dim returns the style for secondary text.
func (t Theme) Dim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

// Key returns the style for query keys.
func (t Theme) Key() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Mauve)
}
