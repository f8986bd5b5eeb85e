package web

import (
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

type handlers struct {
    svc        *app.Service
    tpl        *templates
    engine     *engine.Engine
    difficulty engine.Difficulty
    log        zerolog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    b, err := renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
    if err != nil {
        h.log.Error().Err(err).Str("game", gs.ID).Msg("render board")
    }
    return b
}

func (h *handlers) writeHTML(w http.ResponseWriter, status int, body []byte) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(status)
    _, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := struct {
        Difficulties []string
        Default      string
    }{Difficulties: difficultyNames(), Default: h.difficulty.String()}
    body, err := renderTemplate(h.tpl.index, "", data)
    if err != nil {
        h.log.Error().Err(err).Msg("render index")
    }
    h.writeHTML(w, http.StatusOK, body)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    d := h.difficulty
    if v := r.Form.Get("difficulty"); v != "" {
        if parsed, err := engine.ParseDifficulty(v); err == nil {
            d = parsed
        }
    }
    gs, err := h.svc.CreateGame(pid, r.Form.Get("name"), d)
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    ensurePlayerCookie(w, r)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        ID    string
        Board boardView
    }{ID: gs.ID, Board: newBoardView(*gs, "")}
    body, err := renderTemplate(h.tpl.game, "", data)
    if err != nil {
        h.log.Error().Err(err).Str("game", id).Msg("render game")
    }
    h.writeHTML(w, http.StatusOK, body)
}

// errorMessage turns a service error into text for the board fragment.
func errorMessage(err error) string {
    switch {
    case errors.Is(err, domain.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    case errors.Is(err, engine.ErrUnknownDifficulty):
        return "Unknown difficulty"
    default:
        return "Invalid move"
    }
}

// respond writes the board fragment for the outcome of a game command.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            http.NotFound(w, r)
            return
        }
        errMsg = errorMessage(err)
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeHTML(w, http.StatusOK, h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, errR := strconv.Atoi(r.Form.Get("r"))
    ci, errC := strconv.Atoi(r.Form.Get("c"))
    if errR != nil || errC != nil {
        h.respond(w, r, id, nil, domain.ErrOutOfBounds)
        return
    }
    gs, err := h.svc.Play(r.Context(), id, pid, ri, ci)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) setDifficulty(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    d, err := engine.ParseDifficulty(r.Form.Get("difficulty"))
    if err != nil {
        h.respond(w, r, id, nil, err)
        return
    }
    gs, err := h.svc.SetDifficulty(id, pid, d)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Reset(id, pid)
    h.respond(w, r, id, gs, err)
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // Only EventSource clients get a stream; anything else gets the headers.
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, ok := h.svc.Subscribe(ctx, id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            _, _ = fmt.Fprintf(w, "event: board\n")
            for _, line := range strings.Split(string(b), "\n") {
                _, _ = fmt.Fprintf(w, "data: %s\n", line)
            }
            _, _ = io.WriteString(w, "\n")
            flusher.Flush()
        }
    }
}
