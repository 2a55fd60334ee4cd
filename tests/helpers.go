package tests

import (
	"context"
	"fmt"

	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// playOut plays from b with first to move until the game is over, a
// side has no move, or limit plies have been played. An illegal move
// from either player is an error.
func playOut(ctx context.Context, b *rivers.Board, first rivers.Player, circle, square ai.RiversPlayer, limit int) ([]rivers.Move, *rivers.Board, error) {
	var ms []rivers.Move
	p := first
	for len(ms) < limit {
		if over, _ := b.GameOver(); over {
			break
		}
		player := circle
		if p == rivers.Square {
			player = square
		}
		m, ok := player.GetMove(ctx, b, p)
		if !ok {
			break
		}
		if err := b.Validate(p, m); err != nil {
			return ms, b, fmt.Errorf("ply %d: %s played %s: %w",
				len(ms), p, notation.FormatMove(m), err)
		}
		b = b.MustApply(p, m)
		ms = append(ms, m)
		p = p.Opponent()
	}
	return ms, b, nil
}

// place builds a 13x12 board from "x,y" -> piece notation.
func place(pieces map[string]string) *rivers.Board {
	cells := make([][]rivers.Piece, 13)
	for y := range cells {
		cells[y] = make([]rivers.Piece, 12)
	}
	for at, s := range pieces {
		m, err := notation.ParseMove("R" + at)
		if err != nil {
			panic(err)
		}
		pc, err := notation.ParsePiece(s)
		if err != nil {
			panic(err)
		}
		c := m.Origin()
		cells[c.Y][c.X] = pc
	}
	b, err := rivers.FromCells(rivers.DefaultConfig(13, 12), cells)
	if err != nil {
		panic(err)
	}
	return b
}
