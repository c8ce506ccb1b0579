// Package mock serves canned responses for the routes of a collection and
// reports every request it intercepts as lifecycle events.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/sadopc/reqspy/internal/core/collection"
	"github.com/sadopc/reqspy/internal/events"
	"github.com/sadopc/reqspy/internal/query"
)

// Route is a servable endpoint derived from a collection route.
type Route struct {
	ID     string
	Name   string
	Method string
	Path   string

	// Query values a request must carry to match.
	Params query.Mapping

	src *collection.Route
}

// Server is a mock HTTP server backed by a collection.
type Server struct {
	col         *collection.Collection
	port        int
	latency     time.Duration
	errorRate   float64
	corsOrigin  string
	logger      *zap.Logger
	events      *events.Emitter
	passthrough http.RoundTripper

	mu       sync.RWMutex
	base     []Route
	override []Route
}

// New creates a Server for col.
func New(col *collection.Collection, opts ...Option) *Server {
	if col == nil {
		col = &collection.Collection{}
	}
	s := &Server{
		col:        col,
		port:       8080,
		corsOrigin: "*",
		logger:     zap.NewNop(),
		events:     events.NewEmitter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base = s.buildRoutes(col.Routes())
	return s
}

func (s *Server) buildRoutes(src []*collection.Route) []Route {
	var routes []Route
	for _, r := range src {
		if !r.IsHTTP() {
			continue
		}
		method := strings.ToUpper(r.Method)
		if method == "" {
			method = http.MethodGet
		}
		rawURL := s.col.Expand(r.URL)
		routes = append(routes, Route{
			ID:     r.ID,
			Name:   r.Name,
			Method: method,
			Path:   extractPath(rawURL),
			Params: routeParams(rawURL, r.Params),
			src:    r,
		})
	}
	return routes
}

// routeParams merges the query written into the route URL with its enabled
// params. Params win on conflicts.
func routeParams(rawURL string, params []collection.KVPair) query.Mapping {
	m := query.Mapping{}
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		q := rawURL[i+1:]
		if j := strings.IndexByte(q, '#'); j >= 0 {
			q = q[:j]
		}
		m = query.Parse(q)
	}
	for _, p := range params {
		if p.Enabled {
			m[p.Key] = query.CoerceValue(p.Value)
		}
	}
	return m
}

// Routes returns the routes the server answers, runtime overrides first.
func (s *Server) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routes := make([]Route, 0, len(s.override)+len(s.base))
	routes = append(routes, s.override...)
	return append(routes, s.base...)
}

// Use prepends routes that take precedence over the collection until
// ResetRoutes is called.
func (s *Server) Use(routes ...*collection.Route) {
	for _, r := range routes {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
	}
	built := s.buildRoutes(routes)
	s.mu.Lock()
	s.override = append(built, s.override...)
	s.mu.Unlock()
}

// ResetRoutes drops every route added with Use.
func (s *Server) ResetRoutes() {
	s.mu.Lock()
	s.override = nil
	s.mu.Unlock()
}

// Port returns the configured port.
func (s *Server) Port() int { return s.port }

// Events returns the emitter lifecycle events are published on.
func (s *Server) Events() *events.Emitter { return s.events }

// Handler returns the HTTP handler serving the mock routes.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

// Start listens on the configured port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.mu.RLock()
	n := len(s.base) + len(s.override)
	s.mu.RUnlock()
	s.logger.Info("mock server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("collection", s.col.Name),
		zap.Int("routes", n))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down mock server: %w", err)
		}
		<-errCh
		s.logger.Info("mock server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	}
}

// match returns the first route accepting the request, or nil.
func (s *Server) match(method string, u *url.URL) *Route {
	path := normalizePath(u.Path)
	var params query.Mapping

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]Route{s.override, s.base} {
		for i := range list {
			r := &list[i]
			if !strings.EqualFold(r.Method, method) || r.Path != path {
				continue
			}
			if len(r.Params) > 0 {
				if params == nil {
					params = query.FromURL(u)
				}
				if !params.Contains(r.Params) {
					continue
				}
			}
			matched := *r
			return &matched
		}
	}
	return nil
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.setCORSHeaders(w)

	route := s.match(r.Method, r.URL)
	if route == nil && r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ev := newEvent(r)
	if route == nil {
		s.serveUnhandled(w, ev)
		return
	}
	s.serveRoute(w, r, route, ev)
}

func (s *Server) serveRoute(w http.ResponseWriter, r *http.Request, route *Route, ev events.Event) {
	ev.RouteID = route.ID
	ev.RouteName = route.Name
	s.emit(events.RequestStart, ev)
	s.emit(events.RequestMatch, ev)

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
		}
	}

	var status int
	if s.errorRate > 0 && rand.Float64() < s.errorRate {
		status = http.StatusInternalServerError
		writeJSON(w, status, map[string]string{"error": "Simulated server error"})
	} else {
		status = s.writeResponse(w, route.src.Response)
	}

	ev.StatusCode = status
	ev.Duration = time.Since(ev.Time)
	s.emit(events.ResponseMocked, ev)
	s.emit(events.RequestEnd, ev)

	s.logger.Debug("mocked request",
		zap.String("id", ev.RequestID),
		zap.String("method", ev.Method),
		zap.String("path", ev.URL.Path),
		zap.String("route", route.Name),
		zap.Int("status", status),
		zap.Duration("duration", ev.Duration))
}

func (s *Server) serveUnhandled(w http.ResponseWriter, ev events.Event) {
	s.emit(events.RequestUnhandled, ev)

	routes := s.Routes()
	available := make([]map[string]string, 0, len(routes))
	paths := make([]string, 0, len(routes))
	for _, rt := range routes {
		available = append(available, map[string]string{"method": rt.Method, "path": rt.Path, "name": rt.Name})
		paths = append(paths, rt.Method+" "+rt.Path)
	}
	body := map[string]any{
		"error":            "Route not found",
		"available_routes": available,
	}
	if suggestions := suggest(ev.Method+" "+normalizePath(ev.URL.Path), paths); len(suggestions) > 0 {
		body["did_you_mean"] = suggestions
	}
	writeJSON(w, http.StatusNotFound, body)

	ev.StatusCode = http.StatusNotFound
	ev.Duration = time.Since(ev.Time)
	s.emit(events.RequestEnd, ev)

	s.logger.Warn("unhandled request",
		zap.String("id", ev.RequestID),
		zap.String("method", ev.Method),
		zap.String("url", ev.URL.String()))
}

func (s *Server) emit(name string, ev events.Event) {
	ev.Name = name
	s.events.Emit(ev)
}

func (s *Server) writeResponse(w http.ResponseWriter, resp *collection.Response) int {
	status := http.StatusOK
	var body string
	var bodyType string
	if resp != nil {
		if resp.Status != 0 {
			status = resp.Status
		}
		for _, h := range resp.Headers {
			if h.Enabled {
				w.Header().Set(h.Key, expandTemplates(s.col.Expand(h.Value)))
			}
		}
		if resp.Body != nil {
			body = expandTemplates(s.col.Expand(resp.Body.Content))
			bodyType = resp.Body.Type
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentTypeFor(bodyType, body))
	}
	w.WriteHeader(status)
	if body != "" {
		_, _ = w.Write([]byte(body))
	}
	return status
}

func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", s.corsOrigin)
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, X-Requested-With")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newEvent(r *http.Request) events.Event {
	return events.Event{
		RequestID: uuid.New().String(),
		Method:    r.Method,
		URL:       requestURL(r),
		Time:      time.Now(),
	}
}

// requestURL rebuilds the absolute URL the client asked for.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	return &u
}

func suggest(target string, candidates []string) []string {
	matches := fuzzy.Find(target, candidates)
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	if len(out) > 0 {
		return out
	}
	// Fall back to the path alone when the method differs.
	if _, path, ok := strings.Cut(target, " "); ok {
		for _, c := range candidates {
			if _, cp, _ := strings.Cut(c, " "); cp == path {
				out = append(out, c)
			}
		}
	}
	return out
}

var templateVarRe = regexp.MustCompile(`\{\{\$(timestamp|uuid|randomInt)\}\}`)

// expandTemplates fills {{$timestamp}}, {{$uuid}} and {{$randomInt}}. Each
// occurrence gets a fresh value.
func expandTemplates(body string) string {
	if !strings.Contains(body, "{{$") {
		return body
	}
	return templateVarRe.ReplaceAllStringFunc(body, func(m string) string {
		switch m {
		case "{{$timestamp}}":
			return strconv.FormatInt(time.Now().Unix(), 10)
		case "{{$uuid}}":
			return uuid.New().String()
		default:
			return strconv.Itoa(rand.Intn(10000))
		}
	})
}

// extractPath returns the path component of a route URL, which may be
// absolute, relative or prefixed with an unresolved {{variable}}.
func extractPath(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "{{") {
		if i := strings.Index(s, "}}"); i >= 0 {
			s = s[i+2:]
		}
	}
	if i := strings.Index(s, "://"); i >= 0 {
		rest := s[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			s = rest[j:]
		} else {
			s = "/"
		}
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return normalizePath(s)
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func contentTypeFor(bodyType, body string) string {
	switch strings.ToLower(bodyType) {
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "html":
		return "text/html"
	case "text":
		return "text/plain"
	}
	return detectContentType(body)
}

func detectContentType(body string) string {
	trimmed := strings.TrimSpace(body)
	switch {
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		return "application/json"
	case strings.HasPrefix(trimmed, "<"):
		return "application/xml"
	default:
		return "text/plain"
	}
}
