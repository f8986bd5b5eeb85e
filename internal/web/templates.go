package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "eq": func(a, b any) bool { return a == b },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe AI</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic Tac Toe AI</h1>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-slot" hx-sse="swap:board">{{template "board" .Board}}</div>
</div>`))
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
    var buf bytes.Buffer
    var err error
    if name == "" {
        err = t.Execute(&buf, data)
    } else {
        err = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes(), err
}

const indexTemplate = `<h1>Tic Tac Toe AI</h1>
<form action="/game" method="post">
  <label>Your name <input name="name" placeholder="Player"></label>
  <label>Difficulty
    <select name="difficulty">
      {{range .Difficulties}}<option{{if eq . $.Default}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button>Create</button>
</form>`

const boardTemplate = `
<div id="board">
  <p class="status">{{.Status}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        {{$cell := index $.Board (add (mul $r 3) $c)}}
        <button type="submit"{{if or $.Over (ne (cellSymbol $cell) "")}} disabled{{end}}>{{cellSymbol $cell}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <p class="score">{{.Name}}: {{.Tally.Human}} &middot; AI: {{.Tally.AI}} &middot; Draws: {{.Tally.Draws}}</p>
  <form hx-post="/game/{{.ID}}/difficulty" hx-target="#board" hx-swap="outerHTML" hx-trigger="change" method="post">
    <label>Difficulty
      <select name="difficulty">
        {{range .Difficulties}}<option{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
  </form>
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Restart Game</button>
  </form>
</div>
`

// boardView is the data behind the board fragment.
type boardView struct {
    ID           string
    Name         string
    Board        domain.Board
    Over         bool
    Status       string
    Difficulty   string
    Difficulties []string
    Tally        app.Tally
    Error        string
}

func difficultyNames() []string {
    var out []string
    for _, d := range engine.Difficulties() {
        out = append(out, d.String())
    }
    return out
}

func statusLine(gs app.GameState) string {
    switch gs.Game.Outcome() {
    case domain.HumanWins:
        return gs.Name + " wins!"
    case domain.AIWins:
        return "AI wins!"
    case domain.Draw:
        return "Draw"
    }
    if gs.Game.Turn == domain.AI {
        return "AI's turn (O)"
    }
    return gs.Name + "'s turn (X)"
}

func newBoardView(gs app.GameState, errMsg string) boardView {
    return boardView{
        ID:           gs.ID,
        Name:         gs.Name,
        Board:        gs.Game.Board,
        Over:         gs.Game.Over,
        Status:       statusLine(gs),
        Difficulty:   gs.Difficulty.String(),
        Difficulties: difficultyNames(),
        Tally:        gs.Tally,
        Error:        errMsg,
    }
}

// ensurePlayerCookie returns the caller's player id, issuing one if missing.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if id := playerID(r); id != "" {
        return id
    }
    v := app.NewPlayerID()
    http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
    return v
}

const playerCookie = "player_id"

func playerID(r *http.Request) string {
    if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
        return c.Value
    }
    return ""
}
