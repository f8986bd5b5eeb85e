package engine

import "github.com/jaminalder/tictactoe-ai/internal/domain"

// infinity bounds every reachable score (|score| <= domain.WinScore).
const infinity = 1 << 20

// BestMove searches every empty cell in row-major order and returns the one
// with the highest minimax value, the first one seen on ties. It returns
// false on a full board without searching.
func BestMove(b *domain.Board, depthLimit int) (domain.Move, bool) {
    bestVal := -infinity
    var best domain.Move
    found := false
    for _, m := range b.EmptyCells() {
        b.Place(m, domain.AI)
        val := Search(b, 0, false, -infinity, infinity, depthLimit)
        b.Clear(m)
        if val > bestVal {
            bestVal = val
            best = m
            found = true
        }
    }
    return best, found
}

// Search is minimax with alpha-beta pruning from the AI's point of view.
// Wins are worth WinScore-depth and losses -WinScore+depth, so the AI
// prefers the quickest win and the slowest loss. Positions with no line
// that are full or at depthLimit score 0.
func Search(b *domain.Board, depth int, maximizing bool, alpha, beta, depthLimit int) int {
    score := b.Evaluate()
    if score == domain.WinScore {
        return score - depth
    }
    if score == -domain.WinScore {
        return score + depth
    }
    if !b.HasMovesLeft() || depth >= depthLimit {
        return 0
    }

    if maximizing {
        best := -infinity
        for i := range b {
            if b[i] != domain.Empty {
                continue
            }
            b[i] = domain.AI
            val := Search(b, depth+1, false, alpha, beta, depthLimit)
            b[i] = domain.Empty
            best = max(best, val)
            alpha = max(alpha, best)
            if beta <= alpha {
                break
            }
        }
        return best
    }

    best := infinity
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = domain.Human
        val := Search(b, depth+1, true, alpha, beta, depthLimit)
        b[i] = domain.Empty
        best = min(best, val)
        beta = min(beta, best)
        if beta <= alpha {
            break
        }
    }
    return best
}
