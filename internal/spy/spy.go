// Package spy records the requests a mock server intercepts so tests can
// assert on them.
//
//	srv := mock.New(col)
//	calls := spy.Observe(srv.Events())
//	// ... exercise code that talks to srv ...
//	if !calls.CalledWith(spy.Expect(spy.Partial{Pathname: "/items"})) { ... }
package spy

import (
	"encoding/json"
	"strings"

	"github.com/sadopc/reqspy/internal/events"
	"github.com/sadopc/reqspy/internal/query"
)

// Method is an upper-case HTTP method.
type Method string

// Common methods. Observe does not restrict recorded methods to this set.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Known reports whether m is one of the declared constants.
func (m Method) Known() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead, MethodOptions:
		return true
	}
	return false
}

// RequestInfo is what gets recorded for one intercepted request.
type RequestInfo struct {
	SearchParams query.Mapping `json:"searchParams"`
	Pathname     string        `json:"pathname"`
	Method       Method        `json:"method"`
}

// Partial is an expected RequestInfo where zero fields are unconstrained.
// A non-nil empty SearchParams requires the request to have no params.
type Partial struct {
	SearchParams query.Mapping `json:"searchParams,omitempty"`
	Pathname     string        `json:"pathname,omitempty"`
	Method       Method        `json:"method,omitempty"`
}

// Expect returns p unchanged. It exists so expectations read as such at
// the call site.
func Expect(p Partial) Partial { return p }

// Matches reports whether info satisfies every field set in p. Set fields
// must be equal, SearchParams included: extra params on the request fail the
// match.
func (p Partial) Matches(info RequestInfo) bool {
	if p.Pathname != "" && p.Pathname != info.Pathname {
		return false
	}
	if p.Method != "" && p.Method != info.Method {
		return false
	}
	if p.SearchParams != nil && !p.SearchParams.Equal(info.SearchParams) {
		return false
	}
	return true
}

func (p Partial) String() string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (i RequestInfo) String() string {
	data, err := json.Marshal(i)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Observe subscribes to request:start on src and returns a Recorder that
// receives one RequestInfo per event, in event order.
func Observe(src events.Source) *Recorder {
	r := &Recorder{}
	r.off = src.On(events.RequestStart, func(ev events.Event) {
		r.record(fromEvent(ev))
	})
	return r
}

func fromEvent(ev events.Event) RequestInfo {
	info := RequestInfo{
		SearchParams: query.FromURL(ev.URL),
		Method:       Method(strings.ToUpper(ev.Method)),
	}
	if ev.URL != nil {
		info.Pathname = ev.URL.EscapedPath()
	}
	return info
}
