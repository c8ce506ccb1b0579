package spytest

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadopc/reqspy/internal/events"
	"github.com/sadopc/reqspy/internal/query"
	"github.com/sadopc/reqspy/internal/spy"
)

// captureT records failures instead of failing the real test.
type captureT struct {
	messages []string
}

func (c *captureT) Errorf(format string, args ...interface{}) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func recorderWith(paths ...string) *spy.Recorder {
	e := events.NewEmitter()
	rec := spy.Observe(e)
	for _, p := range paths {
		u, _ := url.Parse(p)
		e.Emit(events.Event{Name: events.RequestStart, Method: "get", URL: u})
	}
	return rec
}

func TestAssertionsPass(t *testing.T) {
	rec := recorderWith("/a?x=1", "/b")

	AssertCalled(t, rec)
	AssertCallCount(t, rec, 2)
	AssertCalledWith(t, rec, spy.Partial{Pathname: "/a", SearchParams: query.Mapping{"x": query.Num(1)}})
	AssertNthCalledWith(t, rec, 1, spy.Partial{Pathname: "/a"})
	AssertLastCalledWith(t, rec, spy.Partial{Pathname: "/b", Method: spy.MethodGet})
	AssertNotCalled(t, recorderWith())
}

func TestAssertionsFail(t *testing.T) {
	rec := recorderWith("/a")

	tests := []struct {
		name    string
		run     func(ct *captureT) bool
		message string
	}{
		{"called", func(ct *captureT) bool { return AssertCalled(ct, recorderWith()) }, "got none"},
		{"not called", func(ct *captureT) bool { return AssertNotCalled(ct, rec) }, "#1"},
		{"count", func(ct *captureT) bool { return AssertCallCount(ct, rec, 3) }, "expected 3"},
		{"called with", func(ct *captureT) bool { return AssertCalledWith(ct, rec, spy.Partial{Pathname: "/z"}) }, "/z"},
		{"nth out of range", func(ct *captureT) bool { return AssertNthCalledWith(ct, rec, 2, spy.Partial{}) }, "#2"},
		{"last mismatch", func(ct *captureT) bool {
			return AssertLastCalledWith(ct, rec, spy.Partial{Method: spy.MethodPost})
		}, "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := &captureT{}
			ok := tt.run(ct)
			assert.False(t, ok)
			if assert.Len(t, ct.messages, 1) {
				assert.True(t, strings.Contains(ct.messages[0], tt.message), "message %q lacks %q", ct.messages[0], tt.message)
			}
		})
	}
}
