package journal

import (
	"time"

	"github.com/sadopc/reqspy/internal/query"
)

// Entry is one observed request as persisted in the journal.
type Entry struct {
	ID         int64
	RequestID  string
	Method     string
	Host       string
	Pathname   string
	RawQuery   string
	RouteName  string
	StatusCode int
	Duration   time.Duration
	Timestamp  time.Time
}

// SearchParams coerces the stored query string. Only the raw form is kept
// on disk; coercion is pure, so the result matches what was observed live.
func (e Entry) SearchParams() query.Mapping {
	return query.Parse(e.RawQuery)
}

// Filter narrows ListFiltered. Zero fields are ignored.
type Filter struct {
	Method      string
	PathPattern string // substring of the pathname
	Route       string
	Since       time.Time
	Limit       int
	Offset      int
}
