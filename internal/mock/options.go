package mock

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/reqspy/internal/events"
)

// Option configures a Server.
type Option func(*Server)

// WithPort sets the port Start listens on.
func WithPort(port int) Option {
	return func(s *Server) { s.port = port }
}

// WithLatency delays every matched response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithErrorRate makes a fraction of matched requests fail with a 500.
// The rate is clamped to [0, 1].
func WithErrorRate(rate float64) Option {
	return func(s *Server) {
		switch {
		case rate < 0:
			rate = 0
		case rate > 1:
			rate = 1
		}
		s.errorRate = rate
	}
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value. Default "*".
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEmitter makes the server publish lifecycle events on e instead of a
// private emitter, so several servers can share one observer.
func WithEmitter(e *events.Emitter) Option {
	return func(s *Server) {
		if e != nil {
			s.events = e
		}
	}
}

// WithPassthrough sends requests no route matches through rt when they come
// in via Transport. Without it they get the 404 route listing.
func WithPassthrough(rt http.RoundTripper) Option {
	return func(s *Server) { s.passthrough = rt }
}
