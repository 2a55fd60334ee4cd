package ai

import (
	"golang.org/x/exp/rand"
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/rivers"
)

// RandomAI plays a uniformly random legal move.
type RandomAI struct {
	r *rand.Rand
}

func (r *RandomAI) GetMove(ctx context.Context, b *rivers.Board, p rivers.Player) (rivers.Move, bool) {
	moves := b.AllMoves(p, nil)
	if len(moves) == 0 {
		return nil, false
	}
	return moves[r.r.Intn(len(moves))], true
}

func NewRandom(seed uint64) *RandomAI {
	return &RandomAI{
		r: rand.New(rand.NewSource(seed)),
	}
}

var (
	_ RiversPlayer = &RandomAI{}
	_ RiversPlayer = &MinimaxAI{}
)
