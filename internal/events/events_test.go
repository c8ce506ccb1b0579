package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterOrder(t *testing.T) {
	e := NewEmitter()
	var got []string
	e.On(RequestStart, func(ev Event) { got = append(got, "a:"+ev.RequestID) })
	e.On(RequestStart, func(ev Event) { got = append(got, "b:"+ev.RequestID) })
	e.On(RequestEnd, func(ev Event) { got = append(got, "end:"+ev.RequestID) })

	e.Emit(Event{Name: RequestStart, RequestID: "1"})
	e.Emit(Event{Name: RequestEnd, RequestID: "1"})
	e.Emit(Event{Name: RequestStart, RequestID: "2"})

	assert.Equal(t, []string{"a:1", "b:1", "end:1", "a:2", "b:2"}, got)
}

func TestEmitterOff(t *testing.T) {
	e := NewEmitter()
	calls := 0
	off := e.On(RequestStart, func(Event) { calls++ })

	e.Emit(Event{Name: RequestStart})
	off()
	off()
	e.Emit(Event{Name: RequestStart})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, e.ListenerCount(RequestStart))
}

func TestEmitterOffKeepsOthers(t *testing.T) {
	e := NewEmitter()
	var got []string
	off := e.On(RequestStart, func(Event) { got = append(got, "first") })
	e.On(RequestStart, func(Event) { got = append(got, "second") })
	off()

	e.Emit(Event{Name: RequestStart})
	assert.Equal(t, []string{"second"}, got)
}

func TestEmitterOnce(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.Once(RequestEnd, func(Event) { calls++ })

	e.Emit(Event{Name: RequestEnd})
	e.Emit(Event{Name: RequestEnd})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, e.ListenerCount(RequestEnd))
}

func TestEmitterNoListeners(t *testing.T) {
	var e Emitter
	assert.NotPanics(t, func() { e.Emit(Event{Name: RequestUnhandled}) })
	off := e.On(RequestUnhandled, func(Event) {})
	require.Equal(t, 1, e.ListenerCount(RequestUnhandled))
	off()
}

func TestEmitterRemoveAll(t *testing.T) {
	e := NewEmitter()
	e.On(RequestStart, func(Event) {})
	e.On(RequestEnd, func(Event) {})
	e.On(ResponseMocked, func(Event) {})

	e.RemoveAll(RequestStart)
	assert.Equal(t, 0, e.ListenerCount(RequestStart))
	assert.Equal(t, 1, e.ListenerCount(RequestEnd))

	e.RemoveAll()
	assert.Equal(t, 0, e.ListenerCount(RequestEnd))
	assert.Equal(t, 0, e.ListenerCount(ResponseMocked))
}

func TestEmitterSerialisesListeners(t *testing.T) {
	e := NewEmitter()
	var (
		mu      sync.Mutex
		running int
		maxSeen int
		count   int
	)
	e.On(RequestStart, func(Event) {
		mu.Lock()
		running++
		if running > maxSeen {
			maxSeen = running
		}
		mu.Unlock()

		mu.Lock()
		running--
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Emit(Event{Name: RequestStart})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
	assert.Equal(t, 1, maxSeen)
}

func TestEventMatched(t *testing.T) {
	assert.False(t, Event{}.Matched())
	assert.True(t, Event{RouteID: "r1"}.Matched())
}
