package spy

import (
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/sadopc/reqspy/internal/events"
	"github.com/sadopc/reqspy/internal/query"
)

// fakeSource is a minimal events.Source that counts subscriptions.
type fakeSource struct {
	subs map[string][]events.Listener
	offs int
}

func (f *fakeSource) On(name string, fn events.Listener) func() {
	if f.subs == nil {
		f.subs = make(map[string][]events.Listener)
	}
	f.subs[name] = append(f.subs[name], fn)
	return func() {
		f.offs++
		f.subs[name] = nil
	}
}

func (f *fakeSource) fire(name, method, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	for _, fn := range f.subs[name] {
		fn(events.Event{Name: name, Method: method, URL: u})
	}
}

func TestObserveSubscribesOnceToRequestStart(t *testing.T) {
	src := &fakeSource{}
	Observe(src)

	if len(src.subs) != 1 || len(src.subs[events.RequestStart]) != 1 {
		t.Fatalf("expected a single request:start subscription, got %v", src.subs)
	}
}

func TestObserveRecordsRequest(t *testing.T) {
	src := &fakeSource{}
	rec := Observe(src)

	src.fire(events.RequestStart, "get", "https://api.example.com/items?active=true&limit=10")

	if rec.Len() != 1 {
		t.Fatalf("got %d calls, want 1", rec.Len())
	}
	got := rec.Call(0)
	want := RequestInfo{
		SearchParams: query.Mapping{"active": query.Bool(true), "limit": query.Num(10)},
		Pathname:     "/items",
		Method:       MethodGet,
	}
	if got.Pathname != want.Pathname || got.Method != want.Method || !got.SearchParams.Equal(want.SearchParams) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestObserveIgnoresOtherEvents(t *testing.T) {
	src := &fakeSource{}
	rec := Observe(src)

	src.fire(events.RequestUnhandled, "GET", "https://api.example.com/nope")
	src.fire(events.RequestEnd, "GET", "https://api.example.com/nope")

	if rec.Len() != 0 {
		t.Errorf("got %d calls, want 0", rec.Len())
	}
}

func TestObserveKeepsOrderAndDuplicates(t *testing.T) {
	src := &fakeSource{}
	rec := Observe(src)

	src.fire(events.RequestStart, "post", "http://x/a")
	src.fire(events.RequestStart, "delete", "http://x/b?k=1&k=2")
	src.fire(events.RequestStart, "post", "http://x/a")

	calls := rec.Calls()
	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}
	var paths []string
	for _, c := range calls {
		paths = append(paths, string(c.Method)+" "+c.Pathname)
	}
	if strings.Join(paths, ",") != "POST /a,DELETE /b,POST /a" {
		t.Errorf("got %v", paths)
	}
	if v, _ := calls[1].SearchParams.Get("k"); !v.Equal(query.Num(2)) {
		t.Errorf("duplicate key should keep last value, got %#v", v)
	}
}

func TestObserveUppercasesUnknownMethods(t *testing.T) {
	src := &fakeSource{}
	rec := Observe(src)

	src.fire(events.RequestStart, "patch", "http://x/a")
	src.fire(events.RequestStart, "purge", "http://x/a")

	if got := rec.Call(0).Method; got != MethodPatch || !got.Known() {
		t.Errorf("got %q", got)
	}
	if got := rec.Call(1).Method; got != "PURGE" || got.Known() {
		t.Errorf("got %q, want PURGE passed through", got)
	}
}

func TestObservePathnameVerbatim(t *testing.T) {
	src := &fakeSource{}
	rec := Observe(src)

	src.fire(events.RequestStart, "GET", "http://x/files/a%20b/?q=")

	got := rec.Call(0)
	if got.Pathname != "/files/a%20b/" {
		t.Errorf("got pathname %q", got.Pathname)
	}
	if v, _ := got.SearchParams.Get("q"); !v.Equal(query.Num(0)) {
		t.Errorf("empty value should coerce to 0, got %#v", v)
	}
}

func TestObserveNilURL(t *testing.T) {
	e := events.NewEmitter()
	rec := Observe(e)
	e.Emit(events.Event{Name: events.RequestStart, Method: "get"})

	got := rec.Call(0)
	if got.Pathname != "" || len(got.SearchParams) != 0 || got.Method != MethodGet {
		t.Errorf("got %v", got)
	}
}

func TestStopUnsubscribes(t *testing.T) {
	e := events.NewEmitter()
	rec := Observe(e)
	e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/a"}})
	rec.Stop()
	rec.Stop()
	e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/b"}})

	if rec.Len() != 1 {
		t.Errorf("got %d calls after Stop, want 1", rec.Len())
	}
	if e.ListenerCount(events.RequestStart) != 0 {
		t.Error("listener still registered after Stop")
	}
}

func TestReset(t *testing.T) {
	e := events.NewEmitter()
	rec := Observe(e)
	e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/a"}})
	rec.Reset()
	if rec.Len() != 0 {
		t.Fatalf("got %d calls after Reset", rec.Len())
	}
	if _, ok := rec.Last(); ok {
		t.Error("Last should report no calls after Reset")
	}

	e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/b"}})
	last, ok := rec.Last()
	if !ok || last.Pathname != "/b" {
		t.Errorf("Reset should keep subscription, last = %v", last)
	}
}

func TestOnCall(t *testing.T) {
	e := events.NewEmitter()
	rec := Observe(e)
	var seen []string
	rec.OnCall(func(info RequestInfo) { seen = append(seen, info.Pathname) })

	e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/a"}})
	e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/b"}})

	if strings.Join(seen, ",") != "/a,/b" {
		t.Errorf("got %v", seen)
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	e := events.NewEmitter()
	rec := Observe(e)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Emit(events.Event{Name: events.RequestStart, Method: "GET", URL: &url.URL{Path: "/a"}})
		}()
		go func() {
			defer wg.Done()
			_ = rec.Calls()
			_ = rec.CalledWith(Partial{Pathname: "/a"})
		}()
	}
	wg.Wait()

	if rec.Len() != 20 {
		t.Errorf("got %d calls, want 20", rec.Len())
	}
}

func TestRecordedCallsCannotBeMutated(t *testing.T) {
	src := &fakeSource{}
	rec := Observe(src)
	rec.OnCall(func(info RequestInfo) { delete(info.SearchParams, "k") })

	src.fire(events.RequestStart, "GET", "http://x/a?k=1")

	delete(rec.Calls()[0].SearchParams, "k")
	last, _ := rec.Last()
	last.SearchParams["k"] = query.Str("changed")

	got := rec.Call(0).SearchParams
	if v, ok := got.Get("k"); !ok || !v.Equal(query.Num(1)) {
		t.Fatalf("recorded SearchParams changed: %v", got)
	}
	if !rec.CalledWith(Expect(Partial{SearchParams: query.Mapping{"k": query.Num(1)}})) {
		t.Error("CalledWith should still see the original params")
	}
}
