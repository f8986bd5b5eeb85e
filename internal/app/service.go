package app

import (
    "context"
    "errors"
    "strings"
    "sync"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
    "github.com/jaminalder/tictactoe-ai/internal/events"
)

// DefaultName is used when a game is created without a player name.
const DefaultName = "Player"

// Errors exposed by the service layer.
var (
    ErrNotFound   = errors.New("game not found")
    ErrNotAPlayer = errors.New("not a player")
)

// Tally counts finished games per result across resets.
type Tally struct {
    Human int `json:"human"`
    AI    int `json:"ai"`
    Draws int `json:"draws"`
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID         string
    Owner      string
    Name       string
    Game       domain.Game
    Difficulty engine.Difficulty
    Tally      Tally
    Created    time.Time
    Updated    time.Time
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games against the engine and their subscribers.
type Service struct {
    mu         sync.Mutex
    games      map[string]*GameState
    subs       map[string]map[*subscriber]struct{}
    render     func(GameState) []byte
    engine     *engine.Engine
    events     events.Publisher
    thinkDelay time.Duration
    log        zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the broadcast renderer.
func WithRenderer(renderer func(GameState) []byte) Option {
    return func(s *Service) {
        if renderer != nil {
            s.render = renderer
        }
    }
}

// WithEngine replaces the default engine.
func WithEngine(e *engine.Engine) Option {
    return func(s *Service) { s.engine = e }
}

// WithPublisher sends lifecycle events to p.
func WithPublisher(p events.Publisher) Option {
    return func(s *Service) {
        if p != nil {
            s.events = p
        }
    }
}

// WithThinkDelay makes the AI wait d before replying.
func WithThinkDelay(d time.Duration) Option {
    return func(s *Service) { s.thinkDelay = d }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
    return func(s *Service) { s.log = l }
}

// NewService creates a service. By default broadcasts carry no payload and
// events are dropped.
func NewService(opts ...Option) *Service {
    s := &Service{
        games:  make(map[string]*GameState),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: func(gs GameState) []byte { return nil },
        events: events.Nop{},
        log:    zerolog.Nop(),
    }
    for _, o := range opts {
        o(s)
    }
    if s.engine == nil {
        s.engine = engine.New()
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateGame registers a new game owned by owner. A blank name becomes
// DefaultName.
func (s *Service) CreateGame(owner, name string, d engine.Difficulty) (*GameState, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        name = DefaultName
    }
    now := time.Now()
    gs := &GameState{
        ID:         newGameID(),
        Owner:      owner,
        Name:       name,
        Game:       domain.New(),
        Difficulty: d,
        Created:    now,
        Updated:    now,
    }

    s.mu.Lock()
    s.games[gs.ID] = gs
    cp := *gs
    s.mu.Unlock()

    s.log.Info().Str("game", cp.ID).Str("player", cp.Name).Stringer("difficulty", d).Msg("game created")
    s.emit(cp, events.GameStarted, nil)
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Play applies the owner's move at row r, column c and, unless that ended
// the game, lets the engine reply after the think delay. A cancelled ctx
// only shortens the delay.
func (s *Service) Play(ctx context.Context, id, playerID string, r, c int) (*GameState, error) {
    move := domain.Move{Row: r, Col: c}

    s.mu.Lock()
    gs, err := s.ownedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    if err := gs.Game.PlayAs(domain.Human, move); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Updated = time.Now()
    s.settleLocked(gs)
    cp := *gs
    s.mu.Unlock()

    s.broadcast(id)
    s.emit(cp, events.MovePlayed, &move)
    if cp.Game.Over {
        s.finished(cp)
        return &cp, nil
    }

    if s.thinkDelay > 0 {
        t := time.NewTimer(s.thinkDelay)
        select {
        case <-t.C:
        case <-ctx.Done():
            t.Stop()
        }
    }
    return s.reply(id)
}

// reply plays the engine's move if the AI is still to move; a reset during
// the think delay leaves nothing to do.
func (s *Service) reply(id string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Game.Over || gs.Game.Turn != domain.AI {
        cp := *gs
        s.mu.Unlock()
        return &cp, nil
    }
    start := time.Now()
    move, ok := s.engine.ChooseMove(&gs.Game.Board, gs.Difficulty)
    if !ok {
        cp := *gs
        s.mu.Unlock()
        return &cp, nil
    }
    if err := gs.Game.PlayAs(domain.AI, move); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Updated = time.Now()
    s.settleLocked(gs)
    cp := *gs
    s.mu.Unlock()

    s.log.Debug().Str("game", id).Int("row", move.Row).Int("col", move.Col).
        Stringer("difficulty", cp.Difficulty).Dur("took", time.Since(start)).Msg("engine reply")
    s.broadcast(id)
    s.emit(cp, events.MovePlayed, &move)
    if cp.Game.Over {
        s.finished(cp)
    }
    return &cp, nil
}

// SetDifficulty changes the level used for the engine's next replies. The
// board is left as it is.
func (s *Service) SetDifficulty(id, playerID string, d engine.Difficulty) (*GameState, error) {
    s.mu.Lock()
    gs, err := s.ownedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Difficulty = d
    gs.Updated = time.Now()
    cp := *gs
    s.mu.Unlock()

    s.broadcast(id)
    return &cp, nil
}

// Reset starts a fresh board in the same game, keeping name, difficulty
// and tally.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    gs, err := s.ownedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Game = domain.New()
    gs.Updated = time.Now()
    cp := *gs
    s.mu.Unlock()

    s.broadcast(id)
    s.emit(cp, events.GameReset, nil)
    return &cp, nil
}

func (s *Service) ownedLocked(id, playerID string) (*GameState, error) {
    gs, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    if gs.Owner != playerID {
        return nil, ErrNotAPlayer
    }
    return gs, nil
}

// settleLocked records a finished board in the tally.
func (s *Service) settleLocked(gs *GameState) {
    if !gs.Game.Over {
        return
    }
    switch gs.Game.Outcome() {
    case domain.HumanWins:
        gs.Tally.Human++
    case domain.AIWins:
        gs.Tally.AI++
    case domain.Draw:
        gs.Tally.Draws++
    }
}

func (s *Service) finished(gs GameState) {
    s.log.Info().Str("game", gs.ID).Str("player", gs.Name).
        Stringer("outcome", gs.Game.Outcome()).Stringer("difficulty", gs.Difficulty).
        Int("human_wins", gs.Tally.Human).Int("ai_wins", gs.Tally.AI).Int("draws", gs.Tally.Draws).
        Msg("game finished")
    s.emit(gs, events.GameFinished, nil)
}

func (s *Service) emit(gs GameState, kind string, m *domain.Move) {
    ev := events.Event{
        Type:       kind,
        GameID:     gs.ID,
        Player:     gs.Name,
        Difficulty: gs.Difficulty.String(),
        HumanWins:  gs.Tally.Human,
        AIWins:     gs.Tally.AI,
        Draws:      gs.Tally.Draws,
        Timestamp:  time.Now().UTC(),
    }
    if m != nil {
        row, col := m.Row, m.Col
        ev.Row, ev.Col = &row, &col
        ev.Side = gs.Game.Board.At(row, col).String()
    }
    if kind == events.GameFinished {
        ev.Outcome = gs.Game.Outcome().String()
    }
    s.events.Publish(context.Background(), ev)
}

// broadcast renders the current state and hands it to every subscriber.
// A subscriber that has not read the previous snapshot gets it replaced by
// the newer one. Sends happen under the lock so unsubscribe cannot close a
// channel mid-send.
func (s *Service) broadcast(id string) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok || len(s.subs[id]) == 0 {
        return
    }
    payload := s.render(*gs)
    for sub := range s.subs[id] {
        select {
        case sub.ch <- payload:
            continue
        default:
        }
        select {
        case <-sub.ch:
        default:
        }
        sub.ch <- payload
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func; ok is false for unknown games.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, func() {}, false
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, true
}
