package mock

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/sadopc/reqspy/internal/events"
)

// Transport returns a RoundTripper that answers requests in-process from the
// mock routes, so code under test can use a normal *http.Client without any
// network listener. Requests with no matching route go to the passthrough
// transport when one is configured.
func (s *Server) Transport() http.RoundTripper {
	return &interceptor{s: s}
}

// Client returns an *http.Client that uses Transport.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: s.Transport()}
}

type interceptor struct {
	s *Server
}

func (t *interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.s.passthrough != nil && req.Method != http.MethodOptions && t.s.match(req.Method, req.URL) == nil {
		ev := newEvent(req)
		t.s.emit(events.RequestUnhandled, ev)
		resp, err := t.s.passthrough.RoundTrip(req)
		if err == nil {
			ev.StatusCode = resp.StatusCode
		}
		ev.Duration = time.Since(ev.Time)
		t.s.emit(events.RequestEnd, ev)
		return resp, err
	}

	in := req.Clone(req.Context())
	in.RequestURI = req.URL.RequestURI()
	if in.Host == "" {
		in.Host = req.URL.Host
	}
	if in.Body == nil {
		in.Body = http.NoBody
	}

	rec := httptest.NewRecorder()
	t.s.Handler().ServeHTTP(rec, in)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
