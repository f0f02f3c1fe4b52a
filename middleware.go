package hostcors

import (
	"log/slog"
	"maps"
	"net/http"
	"sync/atomic"

	"github.com/jub0bs/hostcors/internal/headers"
)

// Middleware applies a host-based CORS policy to [http.Handler]s
// through its [*Middleware.Wrap] method.
//
// The zero value delegates every request to the wrapped handler untouched.
// Build a working Middleware with [NewMiddleware] or [FromEvaluator].
//
// In debug mode (see [*Middleware.SetDebug]), the body of a 400 response
// states why the request was rejected instead of a bare "Bad Request";
// this helps client developers at the cost of revealing a bit of the policy.
// A Middleware can also log its decisions (see [*Middleware.SetLogger]).
//
// A Middleware is safe for concurrent use and must not be copied after
// first use. Its policy is fixed at construction; debug mode and the logger
// can be changed while it serves requests.
type Middleware struct {
	ev     *Evaluator // nil => passthrough
	debug  atomic.Bool
	logger atomic.Pointer[slog.Logger]
}

// NewMiddleware validates cfg and builds a Middleware from it, with debug
// mode off and no logger. Later changes to cfg do not affect the result.
//
// An invalid cfg yields a nil Middleware and an error joining all the
// problems found; see package [github.com/jub0bs/hostcors/cfgerrors]
// for inspecting them.
func NewMiddleware(cfg Config) (*Middleware, error) {
	ev, err := newEvaluator(&cfg)
	if err != nil {
		return nil, err
	}
	return FromEvaluator(ev), nil
}

// FromEvaluator creates a CORS middleware that relies on ev.
// If ev is nil, the result is a passthrough middleware.
func FromEvaluator(ev *Evaluator) *Middleware {
	return &Middleware{ev: ev}
}

// Wrap returns a handler that evaluates each request against m's policy.
//
//   - A rejected request gets a 400 response without CORS headers.
//   - An OPTIONS request from an allowed origin gets a preflight response.
//   - Any other request from an allowed origin reaches h, with the CORS
//     headers already on the response, so that error responses from h
//     carry them as well.
func (m *Middleware) Wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.ev == nil {
			h.ServeHTTP(w, r)
			return
		}
		d := m.ev.Evaluate(r)
		switch d.Outcome {
		case Reject:
			m.reject(w, r, &d)
		case Preflight:
			m.log(r, slog.LevelDebug, "CORS preflight request accepted", &d)
			maps.Copy(w.Header(), d.Header)
			w.WriteHeader(d.Status)
		default:
			m.log(r, slog.LevelDebug, "CORS request accepted", &d)
			hdrs := w.Header()
			maps.Copy(hdrs, d.Header)
			// Add, not Set: outer middleware may have added Vary values.
			hdrs.Add(headers.Vary, headers.Origin)
			h.ServeHTTP(w, r)
		}
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, d *Decision) {
	m.log(r, slog.LevelWarn, "CORS request rejected", d)
	body := http.StatusText(d.Status)
	if m.debug.Load() {
		body = "hostcors: " + d.Reason
	}
	http.Error(w, body, d.Status)
}

func (m *Middleware) log(r *http.Request, level slog.Level, msg string, d *Decision) {
	logger := m.logger.Load()
	if logger == nil {
		return
	}
	ctx := r.Context()
	if !logger.Enabled(ctx, level) {
		return
	}
	origin, _ := headers.First(r.Header, headers.Origin)
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("origin", origin),
	}
	if d.Outcome == Reject {
		attrs = append(attrs, slog.String("reason", d.Reason))
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

// SetDebug switches debug mode on or off.
func (m *Middleware) SetDebug(on bool) {
	m.debug.Store(on)
}

// Debug reports whether debug mode is on.
func (m *Middleware) Debug() bool {
	return m.debug.Load()
}

// SetLogger makes m log its decisions to logger:
// rejections at level Warn, and other decisions at level Debug.
// A nil logger turns logging off.
func (m *Middleware) SetLogger(logger *slog.Logger) {
	m.logger.Store(logger)
}

// Evaluator returns m's evaluator, or nil if m is a passthrough middleware.
func (m *Middleware) Evaluator() *Evaluator {
	return m.ev
}

// Config returns a normalized copy of m's configuration, or nil for a
// passthrough middleware. Passing it to [NewMiddleware] yields a
// middleware that behaves like m; modifying it has no effect on m.
func (m *Middleware) Config() *Config {
	return newConfig(m.ev)
}
