// Package render formats observed requests, query mappings and journal
// entries for the terminal.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/pretty"

	"github.com/sadopc/reqspy/internal/core/journal"
	"github.com/sadopc/reqspy/internal/mock"
	"github.com/sadopc/reqspy/internal/query"
	"github.com/sadopc/reqspy/internal/spy"
	"github.com/sadopc/reqspy/internal/ui/theme"
)

// Printer writes human or JSON output to w.
type Printer struct {
	w     io.Writer
	theme theme.Theme
	color bool
	now   func() time.Time
}

// New returns a Printer. With color off, output is plain text with no ANSI
// sequences.
func New(w io.Writer, th theme.Theme, color bool) *Printer {
	return &Printer{w: w, theme: th, color: color, now: time.Now}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// PrintJSON writes v as indented JSON, highlighted when color is on.
func (p *Printer) PrintJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	out := pretty.Pretty(data)
	if p.color {
		out = []byte(highlight(string(out), p.theme.Chroma))
	}
	_, err = p.w.Write(out)
	return err
}

// highlight applies chroma JSON highlighting, returning src unchanged when
// tokenising fails.
func highlight(src, styleName string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(styleName)
	if style == nil {
		style = chromastyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}

// FormatValue renders a coerced value so its variant is visible: strings
// are quoted, numbers and booleans are bare.
func FormatValue(v query.Value) string {
	if v.Kind() == query.KindString {
		return strconv.Quote(v.Str())
	}
	return v.String()
}

// FormatMapping renders m as space-separated key=value pairs in key order.
func (p *Printer) FormatMapping(m query.Mapping) string {
	parts := make([]string, 0, len(m))
	for _, k := range m.Keys() {
		parts = append(parts, p.style(p.theme.Key(), k)+"="+FormatValue(m[k]))
	}
	return strings.Join(parts, " ")
}

// FormatCall renders one call-log record on a single line.
func (p *Printer) FormatCall(info spy.RequestInfo) string {
	line := fmt.Sprintf("%-7s %s", string(info.Method), info.Pathname)
	if p.color {
		line = p.theme.Method(string(info.Method)).Render(fmt.Sprintf("%-7s", string(info.Method))) + " " + info.Pathname
	}
	if len(info.SearchParams) > 0 {
		line += "  " + p.FormatMapping(info.SearchParams)
	}
	return line
}

// PrintCall writes one call-log record.
func (p *Printer) PrintCall(info spy.RequestInfo) error {
	_, err := fmt.Fprintln(p.w, p.FormatCall(info))
	return err
}

// PrintMapping writes one line per key with the coerced kind and value.
func (p *Printer) PrintMapping(m query.Mapping) error {
	if len(m) == 0 {
		_, err := fmt.Fprintln(p.w, p.style(p.theme.Dim(), "(no parameters)"))
		return err
	}
	width := 0
	for _, k := range m.Keys() {
		width = max(width, len(k))
	}
	for _, k := range m.Keys() {
		v := m[k]
		key := p.style(p.theme.Key(), fmt.Sprintf("%-*s", width, k))
		kind := p.style(p.theme.Dim(), fmt.Sprintf("%-6s", v.Kind()))
		if _, err := fmt.Fprintf(p.w, "%s  %s  %s\n", key, kind, FormatValue(v)); err != nil {
			return err
		}
	}
	return nil
}

// PrintRoutes writes the servable routes of a mock server.
func (p *Printer) PrintRoutes(routes []mock.Route) error {
	for _, r := range routes {
		method := fmt.Sprintf("%-7s", r.Method)
		if p.color {
			method = p.theme.Method(r.Method).Render(method)
		}
		line := method + " " + r.Path
		if len(r.Params) > 0 {
			line += "?" + p.FormatMapping(r.Params)
		}
		if r.Name != "" {
			line += "  " + p.style(p.theme.Dim(), r.Name)
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

// PrintEntries writes journal entries, newest first as given, with times
// relative to now.
func (p *Printer) PrintEntries(entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(p.w, p.style(p.theme.Dim(), "journal is empty"))
		return err
	}
	now := p.now()
	for _, e := range entries {
		method := fmt.Sprintf("%-7s", e.Method)
		status := strconv.Itoa(e.StatusCode)
		if p.color {
			method = p.theme.Method(e.Method).Render(method)
			status = p.theme.Status(e.StatusCode).Render(status)
		}
		line := fmt.Sprintf("%s %s %s", status, method, e.Pathname)
		if params := e.SearchParams(); len(params) > 0 {
			line += "  " + p.FormatMapping(params)
		}
		meta := fmt.Sprintf("%s, %s", humanize.RelTime(e.Timestamp, now, "ago", "from now"), FormatDuration(e.Duration))
		if _, err := fmt.Fprintf(p.w, "%s  %s\n", line, p.style(p.theme.Dim(), "("+meta+")")); err != nil {
			return err
		}
	}
	return nil
}

// FormatDuration renders d with a unit suited to mock latencies.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return humanize.FtoaWithDigits(d.Seconds(), 2) + "s"
	}
}
