package web

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"

    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

const (
    wsWriteWait  = 10 * time.Second
    wsPongWait   = 60 * time.Second
    wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
}

// wsCommand is a client request on the socket.
type wsCommand struct {
    Type       string `json:"type"` // play, reset, difficulty
    Row        int    `json:"row"`
    Col        int    `json:"col"`
    Difficulty string `json:"difficulty"`
}

// wsMessage is sent to the client: the game state after every change, or
// an error for a rejected command.
type wsMessage struct {
    Type  string     `json:"type"` // state, error
    State *stateJSON `json:"state,omitempty"`
    Error string     `json:"error,omitempty"`
}

// socket streams game state as JSON and accepts commands from the owner.
// Only this goroutine writes to the connection.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    pid := playerID(r)
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Warn().Err(err).Str("game", id).Msg("websocket upgrade")
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub, ok := h.svc.Subscribe(ctx, id)
    if !ok {
        return
    }
    defer unsub()

    replies := make(chan wsMessage, 4)
    go h.readCommands(ctx, cancel, conn, id, pid, replies)

    ticker := time.NewTicker(wsPingPeriod)
    defer ticker.Stop()

    if !h.writeState(conn, id) {
        return
    }
    for {
        select {
        case <-ctx.Done():
            return
        case _, ok := <-updates:
            if !ok || !h.writeState(conn, id) {
                return
            }
        case msg := <-replies:
            _ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
            if err := conn.WriteJSON(msg); err != nil {
                return
            }
        case <-ticker.C:
            if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
                return
            }
        }
    }
}

func (h *handlers) writeState(conn *websocket.Conn, id string) bool {
    gs, ok := h.svc.Get(id)
    if !ok {
        return false
    }
    st := newStateJSON(*gs)
    _ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
    return conn.WriteJSON(wsMessage{Type: "state", State: &st}) == nil
}

// readCommands applies client commands until the connection fails. State
// changes reach the client through the subscription; only rejections are
// answered directly.
func (h *handlers) readCommands(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id, pid string, replies chan<- wsMessage) {
    defer cancel()
    conn.SetReadLimit(1024)
    _ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
    conn.SetPongHandler(func(string) error {
        return conn.SetReadDeadline(time.Now().Add(wsPongWait))
    })
    for {
        var cmd wsCommand
        if err := conn.ReadJSON(&cmd); err != nil {
            if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
                h.log.Debug().Err(err).Str("game", id).Msg("websocket read")
            }
            return
        }
        if err := h.apply(ctx, id, pid, cmd); err != nil {
            select {
            case replies <- wsMessage{Type: "error", Error: err.Error()}:
            case <-ctx.Done():
                return
            }
        }
    }
}

func (h *handlers) apply(ctx context.Context, id, pid string, cmd wsCommand) error {
    var err error
    switch cmd.Type {
    case "play":
        _, err = h.svc.Play(ctx, id, pid, cmd.Row, cmd.Col)
    case "reset":
        _, err = h.svc.Reset(id, pid)
    case "difficulty":
        var d engine.Difficulty
        if d, err = engine.ParseDifficulty(cmd.Difficulty); err == nil {
            _, err = h.svc.SetDifficulty(id, pid, d)
        }
    default:
        err = errUnknownCommand
    }
    return err
}

var errUnknownCommand = errors.New("unknown command")
