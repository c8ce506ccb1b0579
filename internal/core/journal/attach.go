package journal

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sadopc/reqspy/internal/events"
)

// Attach writes every handled request that finishes on src into s.
// Unhandled requests are skipped, the same as the live call log. Write
// errors are logged, never returned to the request path.
func Attach(src events.Source, s *Store, logger *zap.Logger) (off func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return src.On(events.RequestEnd, func(ev events.Event) {
		if !ev.Matched() {
			return
		}
		e := Entry{
			RequestID:  ev.RequestID,
			Method:     strings.ToUpper(ev.Method),
			RouteName:  ev.RouteName,
			StatusCode: ev.StatusCode,
			Duration:   ev.Duration,
			Timestamp:  ev.Time,
		}
		if ev.URL != nil {
			e.Host = ev.URL.Host
			e.Pathname = ev.URL.EscapedPath()
			e.RawQuery = ev.URL.RawQuery
		}
		if _, err := s.Add(e); err != nil {
			logger.Error("journal write failed", zap.String("request_id", ev.RequestID), zap.Error(err))
		}
	})
}
