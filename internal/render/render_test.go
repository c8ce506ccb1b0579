package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/reqspy/internal/core/journal"
	"github.com/sadopc/reqspy/internal/mock"
	"github.com/sadopc/reqspy/internal/query"
	"github.com/sadopc/reqspy/internal/spy"
	"github.com/sadopc/reqspy/internal/ui/theme"
)

func plain(buf *bytes.Buffer) *Printer {
	return New(buf, theme.Default(), false)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   query.Value
		want string
	}{
		{query.Bool(true), "true"},
		{query.Num(10), "10"},
		{query.Num(0.5), "0.5"},
		{query.Str("10abc"), `"10abc"`},
		{query.Str("true"), `"true"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestFormatCall(t *testing.T) {
	var buf bytes.Buffer
	p := plain(&buf)

	info := spy.RequestInfo{
		Method:       spy.MethodGet,
		Pathname:     "/items",
		SearchParams: query.Parse("limit=10&active=true&q=x"),
	}
	assert.Equal(t, `GET     /items  active=true limit=10 q="x"`, p.FormatCall(info))

	bare := spy.RequestInfo{Method: spy.MethodPost, Pathname: "/items", SearchParams: query.Mapping{}}
	assert.Equal(t, "POST    /items", p.FormatCall(bare))
}

func TestPrintMapping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).PrintMapping(query.Parse("page=2&name=alice&ok=false")))

	want := "name  string  \"alice\"\n" +
		"ok    bool    false\n" +
		"page  number  2\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintMappingEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).PrintMapping(query.Mapping{}))
	assert.Equal(t, "(no parameters)\n", buf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	info := spy.RequestInfo{
		Method:       spy.MethodGet,
		Pathname:     "/items",
		SearchParams: query.Mapping{"limit": query.Num(10)},
	}
	require.NoError(t, plain(&buf).PrintJSON(info))

	out := buf.String()
	assert.Contains(t, out, `"limit": 10`)
	assert.Contains(t, out, `"method": "GET"`)
	assert.Contains(t, out, "\n  ")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintJSONColor(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, theme.Default(), true)
	require.NoError(t, p.PrintJSON(map[string]int{"a": 1}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	routes := []mock.Route{
		{Method: "GET", Path: "/items", Name: "List items", Params: query.Mapping{"active": query.Bool(true)}},
		{Method: "DELETE", Path: "/items/1"},
	}
	require.NoError(t, plain(&buf).PrintRoutes(routes))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "GET     /items?active=true  List items", lines[0])
	assert.Equal(t, "DELETE  /items/1", lines[1])
}

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	p := plain(&buf)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	entries := []journal.Entry{{
		Method:     "GET",
		Pathname:   "/items",
		RawQuery:   "limit=10",
		StatusCode: 200,
		Duration:   42 * time.Millisecond,
		Timestamp:  now.Add(-3 * time.Minute),
	}}
	require.NoError(t, p.PrintEntries(entries))
	assert.Equal(t, "200 GET     /items  limit=10  (3 minutes ago, 42ms)\n", buf.String())
}

func TestPrintEntriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).PrintEntries(nil))
	assert.Equal(t, "journal is empty\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250µs", FormatDuration(250*time.Microsecond))
	assert.Equal(t, "42ms", FormatDuration(42*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
}
