package ai

import (
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/rivers"
)

// RiversPlayer picks a move for p on b. ok is false when p has no
// legal move.
type RiversPlayer interface {
	GetMove(ctx context.Context, b *rivers.Board, p rivers.Player) (m rivers.Move, ok bool)
}
