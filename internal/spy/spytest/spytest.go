// Package spytest provides testify-style assertions over a spy.Recorder.
package spytest

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/sadopc/reqspy/internal/spy"
)

type tHelper interface {
	Helper()
}

// AssertCalled asserts that at least one request was recorded.
func AssertCalled(t assert.TestingT, rec *spy.Recorder, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if rec.Len() > 0 {
		return true
	}
	return assert.Fail(t, "expected at least one recorded request, got none", msgAndArgs...)
}

// AssertNotCalled asserts that no request was recorded.
func AssertNotCalled(t assert.TestingT, rec *spy.Recorder, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if rec.Len() == 0 {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("expected no recorded requests, got %d:\n%s", rec.Len(), listCalls(rec)), msgAndArgs...)
}

// AssertCallCount asserts the exact number of recorded requests.
func AssertCallCount(t assert.TestingT, rec *spy.Recorder, want int, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if rec.Len() == want {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("expected %d recorded requests, got %d:\n%s", want, rec.Len(), listCalls(rec)), msgAndArgs...)
}

// AssertCalledWith asserts that some recorded request matches want.
func AssertCalledWith(t assert.TestingT, rec *spy.Recorder, want spy.Partial, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if rec.CalledWith(want) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("no recorded request matches %s\nclosest (-want +got):\n%s", want, rec.Diff(want)), msgAndArgs...)
}

// AssertNthCalledWith asserts that the n-th recorded request (1-based)
// matches want.
func AssertNthCalledWith(t assert.TestingT, rec *spy.Recorder, n int, want spy.Partial, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if n < 1 || n > rec.Len() {
		return assert.Fail(t, fmt.Sprintf("request #%d was not recorded, only %d requests", n, rec.Len()), msgAndArgs...)
	}
	got := rec.Call(n - 1)
	if want.Matches(got) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("request #%d does not match\nexpected: %s\nactual:   %s", n, want, got), msgAndArgs...)
}

// AssertLastCalledWith asserts that the most recent request matches want.
func AssertLastCalledWith(t assert.TestingT, rec *spy.Recorder, want spy.Partial, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return AssertNthCalledWith(t, rec, rec.Len(), want, msgAndArgs...)
}

func listCalls(rec *spy.Recorder) string {
	var s string
	for i, c := range rec.Calls() {
		s += fmt.Sprintf("  #%d %s\n", i+1, c)
	}
	return s
}
