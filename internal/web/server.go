package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Option configures the HTTP server.
type Option func(*handlers)

// WithLogger sets the logger used for requests and render failures.
func WithLogger(l zerolog.Logger) Option {
    return func(h *handlers) { h.log = l }
}

// WithEngine sets the engine behind /api/move.
func WithEngine(e *engine.Engine) Option {
    return func(h *handlers) { h.engine = e }
}

// WithDefaultDifficulty sets the level preselected for new games and used
// by /api/move when the request names none.
func WithDefaultDifficulty(d engine.Difficulty) Option {
    return func(h *handlers) { h.difficulty = d }
}

// NewServer wires routes and returns an http.Handler. It installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), difficulty: engine.Hard, log: zerolog.Nop()}
    for _, o := range opts {
        o(h)
    }
    if h.engine == nil {
        h.engine = engine.New()
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(h.log))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/play", h.play)
        r.Post("/difficulty", h.setDifficulty)
        r.Post("/reset", h.reset)
        r.Get("/events", h.events)
        r.Get("/state", h.state)
        r.Get("/ws", h.socket)
    })
    r.Post("/api/move", h.move)
    return r
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            next.ServeHTTP(ww, r)
            log.Info().
                Str("method", r.Method).
                Str("path", r.URL.Path).
                Int("status", ww.Status()).
                Int("bytes", ww.BytesWritten()).
                Dur("dur", time.Since(start)).
                Str("request_id", middleware.GetReqID(r.Context())).
                Msg("http")
        })
    }
}
