// Package events carries request-lifecycle notifications from the mock
// server to whoever is watching it.
package events

import (
	"net/url"
	"sync"
	"time"
)

// Lifecycle event names, fired in this order for a handled request:
// request:start, request:match, response:mocked, request:end.
// An unhandled request fires request:unhandled then request:end.
const (
	RequestStart     = "request:start"
	RequestMatch     = "request:match"
	RequestUnhandled = "request:unhandled"
	RequestEnd       = "request:end"
	ResponseMocked   = "response:mocked"
)

// Event describes one intercepted request at one point of its lifecycle.
type Event struct {
	Name      string
	RequestID string
	Method    string
	URL       *url.URL
	Time      time.Time

	// Set once a route matched.
	RouteID   string
	RouteName string

	// Set on response:mocked and request:end.
	StatusCode int
	Duration   time.Duration
}

// Matched reports whether a route handled the request.
func (e Event) Matched() bool { return e.RouteID != "" }

// Listener receives events.
type Listener func(Event)

// Source is anything that lets callers subscribe to lifecycle events.
// The returned func removes the subscription.
type Source interface {
	On(name string, fn Listener) (off func())
}

type subscription struct {
	id   uint64
	fn   Listener
	once bool
}

// Emitter is a synchronous Source. Listeners run on the emitting goroutine in
// registration order, and emissions are serialised so that listeners see
// events one at a time in the order they were emitted. Listeners must not
// call Emit themselves.
type Emitter struct {
	mu        sync.Mutex
	dispatch  sync.Mutex
	nextID    uint64
	listeners map[string][]subscription
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]subscription)}
}

// On subscribes fn to events named name.
func (e *Emitter) On(name string, fn Listener) func() {
	return e.add(name, fn, false)
}

// Once subscribes fn for the next event named name only.
func (e *Emitter) Once(name string, fn Listener) func() {
	return e.add(name, fn, true)
}

func (e *Emitter) add(name string, fn Listener, once bool) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[string][]subscription)
	}
	e.nextID++
	id := e.nextID
	e.listeners[name] = append(e.listeners[name], subscription{id: id, fn: fn, once: once})

	var done sync.Once
	return func() {
		done.Do(func() { e.remove(name, id) })
	}
}

func (e *Emitter) remove(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	subs := e.listeners[name]
	for i, s := range subs {
		if s.id == id {
			e.listeners[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(e.listeners[name]) == 0 {
		delete(e.listeners, name)
	}
}

// Emit delivers ev to every listener subscribed to ev.Name.
func (e *Emitter) Emit(ev Event) {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	e.mu.Lock()
	subs := make([]subscription, len(e.listeners[ev.Name]))
	copy(subs, e.listeners[ev.Name])
	e.mu.Unlock()

	for _, s := range subs {
		if s.once {
			e.remove(ev.Name, s.id)
		}
		s.fn(ev)
	}
}

// ListenerCount returns how many listeners are subscribed to name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[name])
}

// RemoveAll drops every subscription, for all event names when none are given.
func (e *Emitter) RemoveAll(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(names) == 0 {
		e.listeners = make(map[string][]subscription)
		return
	}
	for _, n := range names {
		delete(e.listeners, n)
	}
}
