// Package agent is the decision engine's public surface: an Agent is
// bound to one player and answers choose/check/evaluate/generate
// queries about board snapshots supplied on every call.
package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// ErrBadConfig is returned for malformed board geometry or cells.
var ErrBadConfig = rivers.ErrBadConfig

var ErrBadPlayer = errors.New("agent: player must be circle or square")

// Agent holds only its identity and search settings; every call builds
// its own board and search state.
type Agent struct {
	player   rivers.Player
	opponent rivers.Player

	weights   *ai.Weights
	depth     int
	tableSize int
	noSort    bool
	debug     int
	book      *ai.OpeningBook
}

type Option func(*Agent)

// WithBook makes Choose consult ob before searching.
func WithBook(ob *ai.OpeningBook) Option {
	return func(a *Agent) { a.book = ob }
}

func WithWeights(w *ai.Weights) Option {
	return func(a *Agent) { a.weights = w }
}

// WithDepth caps the iterative deepening depth; 0 means no cap beyond
// the search's own limit.
func WithDepth(d int) Option {
	return func(a *Agent) { a.depth = d }
}

func WithTableSize(n int) Option {
	return func(a *Agent) { a.tableSize = n }
}

func WithNoSort(noSort bool) Option {
	return func(a *Agent) { a.noSort = noSort }
}

func WithDebug(level int) Option {
	return func(a *Agent) { a.debug = level }
}

func New(player rivers.Player, opts ...Option) (*Agent, error) {
	if player != rivers.Circle && player != rivers.Square {
		return nil, ErrBadPlayer
	}
	a := &Agent{
		player:   player,
		opponent: player.Opponent(),
		weights:  &ai.DefaultWeights,
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

func (a *Agent) Player() rivers.Player {
	return a.player
}

func (a *Agent) Opponent() rivers.Player {
	return a.opponent
}

// Board validates cfg and builds a board from cells, rows top first.
// Unrecognized cells are treated as empty.
func Board(cells [][]rivers.Piece, cfg rivers.Config) (*rivers.Board, error) {
	b, err := rivers.FromCells(cfg, cells)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	return b, nil
}

// Choose picks a move for the agent's player within selfTime. ok is
// false when the player has no legal move or the input is malformed.
// opponentTime is informational.
func (a *Agent) Choose(cells [][]rivers.Piece, cfg rivers.Config, selfTime, opponentTime time.Duration) (rivers.Move, bool) {
	b, err := Board(cells, cfg)
	if err != nil {
		return nil, false
	}
	return a.ChooseBoard(context.Background(), b, selfTime, opponentTime)
}

// ChooseBoard is Choose on an already built board. The search stops at
// the earlier of ctx's deadline and the budget derived from selfTime.
func (a *Agent) ChooseBoard(ctx context.Context, b *rivers.Board, selfTime, opponentTime time.Duration) (rivers.Move, bool) {
	start := time.Now()
	moves := b.AllMoves(a.player, nil)
	if len(moves) == 0 {
		return nil, false
	}

	if a.book != nil {
		if m, ok := a.book.GetMove(b, a.player); ok && b.CheckMove(a.player, m) {
			if a.debug > 0 {
				log.Info().
					Str("player", a.player.String()).
					Str("move", notation.FormatMove(m)).
					Msg("book move")
			}
			return m, true
		}
	}

	budget := ai.TimeBudget(selfTime, opponentTime)
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	search := ai.NewMinimax(a.minimaxConfig())
	pv, v, st := search.Analyze(ctx, b, a.player)
	if len(pv) == 0 {
		return moves[0], true
	}
	m := pv[0]
	if !b.CheckMove(a.player, m) {
		panic(fmt.Sprintf("search returned illegal move %s for %s", notation.FormatMove(m), a.player))
	}
	if a.debug > 0 {
		log.Info().
			Str("player", a.player.String()).
			Str("move", notation.FormatMove(m)).
			Int64("value", v).
			Int("depth", st.Depth).
			Uint64("evaluated", st.Evaluated).
			Dur("budget", budget).
			Dur("elapsed", time.Since(start)).
			Msg("search move")
	}
	return m, true
}

func (a *Agent) minimaxConfig() ai.MinimaxConfig {
	return ai.MinimaxConfig{
		Depth:     a.depth,
		Debug:     a.debug,
		NoSort:    a.noSort,
		TableSize: a.tableSize,
		Evaluate:  ai.MakeEvaluator(a.weights),
	}
}

// CheckMove reports whether m is legal for player. Malformed input is
// rejected, never panics.
func (a *Agent) CheckMove(cells [][]rivers.Piece, m rivers.Move, player rivers.Player, cfg rivers.Config) bool {
	b, err := Board(cells, cfg)
	if err != nil {
		return false
	}
	return b.CheckMove(player, m)
}

// EvaluateBoard scores the position for the agent's player; higher is
// better. Malformed input scores 0.
func (a *Agent) EvaluateBoard(cells [][]rivers.Piece, cfg rivers.Config) float64 {
	b, err := Board(cells, cfg)
	if err != nil {
		return 0
	}
	return float64(ai.MakeEvaluator(a.weights)(b, a.player))
}

// GenerateMoves lists every legal move for the agent's player in
// generation order. It is empty when the player cannot move or the
// input is malformed.
func (a *Agent) GenerateMoves(cells [][]rivers.Piece, cfg rivers.Config) []rivers.Move {
	b, err := Board(cells, cfg)
	if err != nil {
		return nil
	}
	return b.AllMoves(a.player, nil)
}
