package rivers

import "fmt"

// target is one destination for the piece at some origin: a plain
// relocation to `to`, or, when push is set, a push of the stone at `to`
// onward to `pushed`.
type target struct {
	to, pushed Coord
	push       bool
}

// targets computes every relocation and push available to p's piece at
// from, in generation order. It is the single source of truth for both
// AllMoves and Validate.
func (b *Board) targets(from Coord, p Player, out []target) []target {
	cfg := b.cfg
	if !cfg.InBounds(from.X, from.Y) {
		return out
	}
	piece := b.at(from)
	if piece.Owner != p {
		return out
	}

	base := len(out)
	var scratch [32]Coord
	addMove := func(c Coord) {
		for _, t := range out[base:] {
			if !t.push && t.to == c {
				return
			}
		}
		out = append(out, target{to: c})
	}

	for _, d := range neighbourDirs {
		to := from.add(d)
		if !cfg.InBounds(to.X, to.Y) || cfg.IsOpponentScoreCell(to.X, to.Y, p) {
			continue
		}
		occupant := b.at(to)
		switch {
		case occupant.Empty():
			addMove(to)
		case occupant.Side == River:
			for _, c := range b.flow(to, from, p, nil, scratch[:0]) {
				addMove(c)
			}
		case piece.Side == Stone:
			pushed := to.add(d)
			if !cfg.InBounds(pushed.X, pushed.Y) || !b.at(pushed).Empty() {
				continue
			}
			if b.pushAllowed(p, occupant, pushed) {
				out = append(out, target{to: to, pushed: pushed, push: true})
			}
		default:
			for _, c := range b.flow(to, from, p, &piece, scratch[:0]) {
				if b.pushAllowed(p, occupant, c) {
					out = append(out, target{to: to, pushed: c, push: true})
				}
			}
		}
	}
	return out
}

// pushAllowed reports whether p may displace occupant onto dst. Nothing
// is ever pushed into p's opponent zone, and an enemy piece is never
// pushed into p's own zone.
func (b *Board) pushAllowed(p Player, occupant Piece, dst Coord) bool {
	if b.cfg.IsOpponentScoreCell(dst.X, dst.Y, p) {
		return false
	}
	if occupant.Owner != p && b.cfg.IsOwnScoreCell(dst.X, dst.Y, p) {
		return false
	}
	return true
}

// AllMoves appends every legal move for p to moves. Pieces are visited
// in row-major order; a stone yields its relocations and pushes
// followed by the two flips, a river yields its flip and rotation
// followed by its relocations and pushes. An empty result means p has
// no move.
func (b *Board) AllMoves(p Player, moves []Move) []Move {
	if p != Circle && p != Square {
		return moves
	}
	var buf [64]target
	for y := 0; y < b.cfg.Rows; y++ {
		for x := 0; x < b.cfg.Cols; x++ {
			pc := b.At(x, y)
			if pc.Owner != p {
				continue
			}
			from := Coord{x, y}
			if pc.Side == River {
				moves = append(moves,
					Flip{From: from},
					Rotate{From: from})
			}
			for _, t := range b.targets(from, p, buf[:0]) {
				if t.push {
					moves = append(moves, Push{From: from, To: t.to, PushedTo: t.pushed})
				} else {
					moves = append(moves, Translate{From: from, To: t.to})
				}
			}
			if pc.Side == Stone {
				moves = append(moves,
					Flip{From: from, Orientation: Horizontal},
					Flip{From: from, Orientation: Vertical})
			}
		}
	}
	return moves
}

// Validate returns nil if m is legal for p on b, or an error describing
// why it is not. It accepts exactly the moves AllMoves produces.
func (b *Board) Validate(p Player, m Move) error {
	if m == nil {
		return fmt.Errorf("%w: nil move", ErrBadMove)
	}
	if p != Circle && p != Square {
		return fmt.Errorf("%w: bad player", ErrBadMove)
	}
	from := m.Origin()
	if !b.cfg.InBounds(from.X, from.Y) {
		return fmt.Errorf("%w: from %s", ErrOutOfBounds, from)
	}
	pc := b.at(from)
	if pc.Owner != p {
		return fmt.Errorf("%w: %s", ErrNotOwner, from)
	}

	switch m := m.(type) {
	case Translate:
		if !b.cfg.InBounds(m.To.X, m.To.Y) {
			return fmt.Errorf("%w: to %s", ErrOutOfBounds, m.To)
		}
		if !b.at(m.To).Empty() {
			return fmt.Errorf("%w: %s", ErrOccupied, m.To)
		}
		if !b.hasTarget(from, p, target{to: m.To}) {
			return fmt.Errorf("%w: %s cannot reach %s", ErrBadMove, from, m.To)
		}
	case Push:
		if !b.cfg.InBounds(m.To.X, m.To.Y) {
			return fmt.Errorf("%w: to %s", ErrOutOfBounds, m.To)
		}
		if !b.cfg.InBounds(m.PushedTo.X, m.PushedTo.Y) {
			return fmt.Errorf("%w: pushed_to %s", ErrOutOfBounds, m.PushedTo)
		}
		if b.at(m.To).Empty() {
			return fmt.Errorf("%w: %s", ErrEmptyTarget, m.To)
		}
		if !b.hasTarget(from, p, target{to: m.To, pushed: m.PushedTo, push: true}) {
			return fmt.Errorf("%w: %s cannot push %s to %s", ErrBadMove, from, m.To, m.PushedTo)
		}
	case Flip:
		switch {
		case pc.Side == Stone && m.Orientation != Horizontal && m.Orientation != Vertical:
			return fmt.Errorf("%w: stone flip needs an orientation", ErrWrongSide)
		case pc.Side == River && m.Orientation != NoOrientation:
			return fmt.Errorf("%w: river flip takes no orientation", ErrWrongSide)
		}
	case Rotate:
		if pc.Side != River {
			return fmt.Errorf("%w: only rivers rotate", ErrWrongSide)
		}
	default:
		return fmt.Errorf("%w: unknown move type %T", ErrBadMove, m)
	}
	return nil
}

// CheckMove reports whether m is legal for p on b.
func (b *Board) CheckMove(p Player, m Move) bool {
	return b.Validate(p, m) == nil
}

func (b *Board) hasTarget(from Coord, p Player, want target) bool {
	var buf [64]target
	for _, t := range b.targets(from, p, buf[:0]) {
		if t == want {
			return true
		}
	}
	return false
}
