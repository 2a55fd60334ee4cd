package ai

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// DefaultOpenings is the flip-and-run opening for the 13x12 board with
// circle moving first: both sides lay rivers on the flanks of their
// blocks and run the corner stones out wide.
var DefaultOpenings = []string{
	"F8,9:h F8,3:h F3,9:h F3,3:h F3,8:v F8,4:v F8,8:v F3,4:v " +
		"M8,8:11,9 M8,4:11,3 M3,8:0,9 M3,4:0,3 F7,9:h F7,3:h F4,9:h F4,3:h",
}

// OpeningBook maps positions (with the side to move) to weighted book
// replies. It is built once and only read afterwards.
type OpeningBook struct {
	cfg  rivers.Config
	book map[uint64]*openingPosition
}

type openingPosition struct {
	b     *rivers.Board
	moves []child
}

type child struct {
	move   rivers.Move
	weight int
}

// BuildOpeningBook plays each line from the start position of cfg,
// first moving first, and records every move as a reply to the
// position it was played from.
func BuildOpeningBook(cfg rivers.Config, first rivers.Player, lines []string) (*OpeningBook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ob := &OpeningBook{
		cfg:  cfg,
		book: make(map[uint64]*openingPosition),
	}
	for lno, line := range lines {
		moves, err := notation.ParseMoves(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lno, err)
		}
		b := rivers.StartPosition(cfg)
		p := first
		for _, m := range moves {
			if err := b.Validate(p, m); err != nil {
				return nil, fmt.Errorf("line %d: move `%s`: %w",
					lno, notation.FormatMove(m), err)
			}
			h := b.HashFor(p)
			pos, ok := ob.book[h]
			if !ok {
				pos = &openingPosition{b: b}
				ob.book[h] = pos
			}
			var ch *child
			for i := range pos.moves {
				if pos.moves[i].move == m {
					ch = &pos.moves[i]
					break
				}
			}
			if ch == nil {
				pos.moves = append(pos.moves, child{move: m})
				ch = &pos.moves[len(pos.moves)-1]
			}
			ch.weight++

			b = b.MustApply(p, m)
			p = p.Opponent()
		}
	}
	return ob, nil
}

// GetMove returns a book reply for p on b, if there is one. The choice
// among weighted replies is seeded by the position, so the same board
// always gets the same answer.
func (ob *OpeningBook) GetMove(b *rivers.Board, p rivers.Player) (rivers.Move, bool) {
	if b.Rows() != ob.cfg.Rows || b.Cols() != ob.cfg.Cols {
		return nil, false
	}
	h := b.HashFor(p)
	pos, ok := ob.book[h]
	if !ok || !pos.b.Equal(b) {
		return nil, false
	}
	r := rand.New(rand.NewSource(h))
	sum := 0
	var out rivers.Move
	for _, ch := range pos.moves {
		sum += ch.weight
		if r.Intn(sum) < ch.weight {
			out = ch.move
		}
	}
	return out, out != nil
}

// Len is the number of positions in the book.
func (ob *OpeningBook) Len() int {
	return len(ob.book)
}
