package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// moveRequest asks the engine for a move on an arbitrary board. Cells are
// row-major: "X" human, "O" AI, "" empty.
type moveRequest struct {
    Board      []string          `json:"board"`
    Difficulty engine.Difficulty `json:"difficulty"`
}

type moveResponse struct {
    Available bool         `json:"available"`
    Move      *domain.Move `json:"move,omitempty"`
    Outcome   string       `json:"outcome"`
}

// stateJSON is the wire form of a game for JSON and WebSocket clients.
type stateJSON struct {
    ID         string            `json:"id"`
    Name       string            `json:"name"`
    Board      [9]string         `json:"board"`
    Turn       string            `json:"turn"`
    Moves      int               `json:"moves"`
    Outcome    string            `json:"outcome"`
    Difficulty engine.Difficulty `json:"difficulty"`
    Tally      app.Tally         `json:"tally"`
}

func newStateJSON(gs app.GameState) stateJSON {
    st := stateJSON{
        ID:         gs.ID,
        Name:       gs.Name,
        Turn:       gs.Game.Turn.String(),
        Moves:      gs.Game.Moves,
        Outcome:    gs.Game.Outcome().String(),
        Difficulty: gs.Difficulty,
        Tally:      gs.Tally,
    }
    if gs.Game.Over {
        st.Turn = ""
    }
    for i, c := range gs.Game.Board {
        st.Board[i] = c.String()
    }
    return st
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
    writeJSON(w, status, map[string]string{"error": msg})
}

func parseBoard(cells []string) (domain.Board, error) {
    var b domain.Board
    if len(cells) != len(b) {
        return b, fmt.Errorf("board must have %d cells, got %d", len(b), len(cells))
    }
    for i, s := range cells {
        c, err := domain.ParseCell(s)
        if err != nil {
            return b, fmt.Errorf("cell %d: %w", i, err)
        }
        b[i] = c
    }
    if d := b.Count(domain.Human) - b.Count(domain.AI); d < -1 || d > 1 {
        return b, fmt.Errorf("mark counts differ by %d", d)
    }
    return b, nil
}

// move exposes the bare engine: board and difficulty in, move out. A board
// that is already decided reports no move.
func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
    req := moveRequest{Difficulty: h.difficulty}
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&req); err != nil {
        if errors.Is(err, engine.ErrUnknownDifficulty) {
            writeJSONError(w, http.StatusBadRequest, err.Error())
            return
        }
        writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
        return
    }
    b, err := parseBoard(req.Board)
    if err != nil {
        writeJSONError(w, http.StatusBadRequest, err.Error())
        return
    }

    resp := moveResponse{Outcome: b.Outcome().String()}
    if b.Outcome() == domain.InProgress {
        if m, ok := h.engine.ChooseMove(&b, req.Difficulty); ok {
            resp.Available = true
            resp.Move = &m
        }
    }
    writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeJSONError(w, http.StatusNotFound, app.ErrNotFound.Error())
        return
    }
    writeJSON(w, http.StatusOK, newStateJSON(*gs))
}
