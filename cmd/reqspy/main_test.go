package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/reqspy/internal/core/collection"
	"github.com/sadopc/reqspy/internal/core/journal"
	"github.com/sadopc/reqspy/internal/mock"
	"github.com/sadopc/reqspy/internal/query"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want query.Mapping
	}{
		{"bare", "active=true&limit=10", query.Mapping{"active": query.Bool(true), "limit": query.Num(10)}},
		{"leading question mark", "?q=abc", query.Mapping{"q": query.Str("abc")}},
		{"url", "http://localhost:8080/items?page=2&draft=", query.Mapping{"page": query.Num(2), "draft": query.Num(0)}},
		{"url without query", "http://localhost:8080/items", query.Mapping{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInput(tt.in)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseInput(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseInputBadURL(t *testing.T) {
	_, err := parseInput("http://[::1/items")
	assert.Error(t, err)
}

func TestBuildFilter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := buildFilter("get", "/items", "List", 10*time.Minute, 20, now)
	want := journal.Filter{
		Method:      "GET",
		PathPattern: "/items",
		Route:       "List",
		Since:       now.Add(-10 * time.Minute),
		Limit:       20,
	}
	assert.Equal(t, want, got)

	assert.True(t, buildFilter("", "", "", 0, 0, now).Since.IsZero())
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	logger, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestLoadCollectionDir(t *testing.T) {
	dir := t.TempDir()
	a := "name: A\nvariables:\n  base: http://localhost\nitems:\n  - route:\n      name: List\n      method: GET\n      url: \"{{base}}/items\"\n"
	b := "name: B\nitems:\n  - route:\n      name: Create\n      method: POST\n      url: http://localhost/items\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.reqspy.yaml"), []byte(a), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.reqspy.yaml"), []byte(b), 0644))

	col, err := loadCollection(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), col.Name)
	assert.Len(t, col.Routes(), 2)
	assert.Equal(t, "http://localhost", col.Variables["base"])
}

func TestLoadCollectionEmptyDir(t *testing.T) {
	_, err := loadCollection(t.TempDir())
	assert.Error(t, err)
}

func TestJournalJSON(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := journalJSON([]journal.Entry{{
		RequestID:  "r1",
		Method:     "GET",
		Pathname:   "/items",
		RawQuery:   "limit=10",
		StatusCode: 200,
		Duration:   5 * time.Millisecond,
		Timestamp:  ts,
	}})
	require.Len(t, out, 1)
	assert.Equal(t, query.Mapping{"limit": query.Num(10)}, out[0].SearchParams)
	assert.Equal(t, int64(5), out[0].DurationMS)
	assert.Equal(t, "2026-03-01T12:00:00Z", out[0].Timestamp)
}

func TestStarterCollectionServes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starter.reqspy.yaml")
	require.NoError(t, collection.SaveToFile(starterCollection("Starter", "http://localhost:9999"), path))

	col, err := collection.LoadFromFile(path)
	require.NoError(t, err)

	routes := mock.New(col).Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "List active items", routes[0].Name)
	assert.Equal(t, "/items", routes[0].Path)
	assert.Equal(t, query.Mapping{"active": query.Bool(true)}, routes[0].Params)
	assert.Equal(t, "POST", routes[2].Method)
}
