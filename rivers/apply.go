package rivers

import "fmt"

// Apply plays m for p and returns the resulting board together with the
// change in p's count of scored stones. b is never modified.
//
// Apply trusts the caller to pass a legal move: it checks only the
// preconditions it needs to produce a well-formed board, and reports a
// violation as an error rather than returning a corrupted board.
func (b *Board) Apply(p Player, m Move) (*Board, int, error) {
	return b.ApplyPreallocated(p, m, nil)
}

// ApplyPreallocated is Apply writing into next, which must not be b.
// If next is nil a new board is allocated.
func (b *Board) ApplyPreallocated(p Player, m Move, next *Board) (*Board, int, error) {
	if m == nil {
		return nil, 0, fmt.Errorf("%w: nil move", ErrBadMove)
	}
	from := m.Origin()
	if !b.cfg.InBounds(from.X, from.Y) {
		return nil, 0, fmt.Errorf("%w: from %s", ErrOutOfBounds, from)
	}
	mover := b.at(from)
	if mover.Owner != p || p == NoPlayer {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotOwner, from)
	}
	if next == nil {
		next = alloc(b)
	} else {
		copyBoard(b, next)
	}

	switch m := m.(type) {
	case Translate:
		if !b.cfg.InBounds(m.To.X, m.To.Y) {
			return nil, 0, fmt.Errorf("%w: to %s", ErrOutOfBounds, m.To)
		}
		if !b.at(m.To).Empty() {
			return nil, 0, fmt.Errorf("%w: %s", ErrOccupied, m.To)
		}
		next.set(from.X, from.Y, Piece{})
		next.set(m.To.X, m.To.Y, mover)
	case Push:
		if !b.cfg.InBounds(m.To.X, m.To.Y) || !b.cfg.InBounds(m.PushedTo.X, m.PushedTo.Y) {
			return nil, 0, fmt.Errorf("%w: push %s->%s", ErrOutOfBounds, m.To, m.PushedTo)
		}
		pushed := b.at(m.To)
		if pushed.Empty() {
			return nil, 0, fmt.Errorf("%w: %s", ErrEmptyTarget, m.To)
		}
		if !b.at(m.PushedTo).Empty() {
			return nil, 0, fmt.Errorf("%w: %s", ErrOccupied, m.PushedTo)
		}
		// a river spends itself on the push and lands as a stone
		if mover.Side == River {
			mover = MakeStone(mover.Owner)
		}
		next.set(m.PushedTo.X, m.PushedTo.Y, pushed)
		next.set(m.To.X, m.To.Y, mover)
		next.set(from.X, from.Y, Piece{})
	case Flip:
		switch {
		case mover.Side == Stone && (m.Orientation == Horizontal || m.Orientation == Vertical):
			next.set(from.X, from.Y, MakeRiver(p, m.Orientation))
		case mover.Side == River && m.Orientation == NoOrientation:
			next.set(from.X, from.Y, MakeStone(p))
		default:
			return nil, 0, fmt.Errorf("%w: flip %s", ErrWrongSide, m)
		}
	case Rotate:
		if mover.Side != River {
			return nil, 0, fmt.Errorf("%w: rotate %s", ErrWrongSide, from)
		}
		next.set(from.X, from.Y, MakeRiver(p, mover.Orientation.Flip()))
	default:
		return nil, 0, fmt.Errorf("%w: unknown move type %T", ErrBadMove, m)
	}

	return next, next.Scored(p) - b.Scored(p), nil
}

// MustApply is Apply for moves known to be legal; it panics otherwise.
func (b *Board) MustApply(p Player, m Move) *Board {
	next, _, err := b.Apply(p, m)
	if err != nil {
		panic(fmt.Sprintf("apply %s for %s: %v", m, p, err))
	}
	return next
}
