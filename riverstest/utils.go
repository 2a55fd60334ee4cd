package riverstest

import (
	"strings"

	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

func Move(s string) rivers.Move {
	m, e := notation.ParseMove(s)
	if e != nil {
		panic(e)
	}
	return m
}

func Moves(s string) []rivers.Move {
	ms, e := notation.ParseMoves(s)
	if e != nil {
		panic(e)
	}
	return ms
}

func FormatMoves(ms []rivers.Move) string {
	return notation.FormatMoves(ms)
}

// Board parses one row per argument, top row first.
func Board(rows ...string) *rivers.Board {
	b, e := notation.ParseBoard(strings.Join(rows, "/"))
	if e != nil {
		panic(e)
	}
	return b
}

// Empty returns an empty board with the default score columns.
func Empty(rows, cols int) *rivers.Board {
	return rivers.New(rivers.DefaultConfig(rows, cols))
}

// Place returns a copy of b with the given pieces set, keyed by "x,y".
func Place(b *rivers.Board, pieces map[string]string) *rivers.Board {
	cells := make([][]rivers.Piece, b.Rows())
	for y := range cells {
		cells[y] = make([]rivers.Piece, b.Cols())
		for x := range cells[y] {
			cells[y][x] = b.At(x, y)
		}
	}
	for at, s := range pieces {
		c := Coord(at)
		pc, e := notation.ParsePiece(s)
		if s == "x" {
			pc, e = rivers.Piece{}, nil
		}
		if e != nil {
			panic(e)
		}
		cells[c.Y][c.X] = pc
	}
	out, e := rivers.FromCells(*b.Config(), cells)
	if e != nil {
		panic(e)
	}
	return out
}

func Coord(s string) rivers.Coord {
	m, e := notation.ParseMove("R" + s)
	if e != nil {
		panic(e)
	}
	return m.Origin()
}

// Position plays ms alternately from the start position, first to move
// first.
func Position(cfg rivers.Config, first rivers.Player, ms string) *rivers.Board {
	b := rivers.StartPosition(cfg)
	p := first
	for _, m := range Moves(ms) {
		if e := b.Validate(p, m); e != nil {
			panic(e)
		}
		b = b.MustApply(p, m)
		p = p.Opponent()
	}
	return b
}
