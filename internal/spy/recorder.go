package spy

import (
	"maps"
	"sync"

	"github.com/google/go-cmp/cmp"
)

// Recorder is an append-only log of observed requests. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.RWMutex
	calls []RequestInfo
	hooks []func(RequestInfo)
	off   func()
}

func (r *Recorder) record(info RequestInfo) {
	r.mu.Lock()
	r.calls = append(r.calls, info)
	hooks := r.hooks
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(info.clone())
	}
}

// clone gives the caller its own SearchParams so recorded history cannot be
// changed from outside.
func (i RequestInfo) clone() RequestInfo {
	i.SearchParams = maps.Clone(i.SearchParams)
	return i
}

// OnCall registers fn to run after each recorded call.
func (r *Recorder) OnCall(fn func(RequestInfo)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks[:len(r.hooks):len(r.hooks)], fn)
}

// Calls returns a copy of every recorded call, oldest first.
func (r *Recorder) Calls() []RequestInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RequestInfo, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.clone()
	}
	return out
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}

// Call returns the i-th recorded call. It panics if i is out of range,
// like indexing a slice.
func (r *Recorder) Call(i int) RequestInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls[i].clone()
}

// Last returns the most recent call.
func (r *Recorder) Last() (RequestInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.calls) == 0 {
		return RequestInfo{}, false
	}
	return r.calls[len(r.calls)-1].clone(), true
}

// CalledWith reports whether any recorded call matches want.
func (r *Recorder) CalledWith(want Partial) bool {
	return r.CountMatching(want) > 0
}

// CountMatching returns how many recorded calls match want.
func (r *Recorder) CountMatching(want Partial) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.calls {
		if want.Matches(c) {
			n++
		}
	}
	return n
}

// Diff describes how want differs from the closest recorded call, in
// go-cmp's (-want +got) format. It returns "" when some call matches.
func (r *Recorder) Diff(want Partial) string {
	calls := r.Calls()
	if len(calls) == 0 {
		return "no calls recorded"
	}
	expected := RequestInfo{SearchParams: want.SearchParams, Pathname: want.Pathname, Method: want.Method}
	best := ""
	for _, c := range calls {
		if want.Matches(c) {
			return ""
		}
		d := cmp.Diff(expected, project(c, want))
		if best == "" || len(d) < len(best) {
			best = d
		}
	}
	return best
}

// project keeps only the fields of c that want constrains.
func project(c RequestInfo, want Partial) RequestInfo {
	var p RequestInfo
	if want.SearchParams != nil {
		p.SearchParams = c.SearchParams
	}
	if want.Pathname != "" {
		p.Pathname = c.Pathname
	}
	if want.Method != "" {
		p.Method = c.Method
	}
	return p
}

// Reset clears the recorded calls but keeps the subscription.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Stop unsubscribes from the event source. Recorded calls stay available.
func (r *Recorder) Stop() {
	if r.off != nil {
		r.off()
	}
}
