package rivers

import (
	"errors"
	"fmt"
)

type Kind byte

const (
	KindTranslate Kind = 1 + iota
	KindFlip
	KindPush
	KindRotate
)

func (k Kind) String() string {
	switch k {
	case KindTranslate:
		return "move"
	case KindFlip:
		return "flip"
	case KindPush:
		return "push"
	case KindRotate:
		return "rotate"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Move is one of Translate, Flip, Push or Rotate. The set is closed;
// each kind carries exactly the fields that kind needs.
type Move interface {
	Kind() Kind
	Origin() Coord
	String() string

	move()
}

// Translate relocates the piece at From to the empty cell To, either a
// neighbour or a cell reached by riding a river.
type Translate struct {
	From, To Coord
}

// Flip turns a stone into a river with the given orientation, or a
// river back into a stone when Orientation is NoOrientation.
type Flip struct {
	From        Coord
	Orientation Orientation
}

// Push moves the piece at From onto the neighbouring stone at To and
// displaces that stone to PushedTo.
type Push struct {
	From, To, PushedTo Coord
}

// Rotate toggles the orientation of the river at From.
type Rotate struct {
	From Coord
}

func (Translate) Kind() Kind { return KindTranslate }
func (Flip) Kind() Kind      { return KindFlip }
func (Push) Kind() Kind      { return KindPush }
func (Rotate) Kind() Kind    { return KindRotate }

func (m Translate) Origin() Coord { return m.From }
func (m Flip) Origin() Coord      { return m.From }
func (m Push) Origin() Coord      { return m.From }
func (m Rotate) Origin() Coord    { return m.From }

func (Translate) move() {}
func (Flip) move()      {}
func (Push) move()      {}
func (Rotate) move()    {}

func (m Translate) String() string { return fmt.Sprintf("move %s->%s", m.From, m.To) }
func (m Push) String() string {
	return fmt.Sprintf("push %s->%s->%s", m.From, m.To, m.PushedTo)
}
func (m Rotate) String() string { return fmt.Sprintf("rotate %s", m.From) }
func (m Flip) String() string {
	if m.Orientation == NoOrientation {
		return fmt.Sprintf("flip %s", m.From)
	}
	return fmt.Sprintf("flip %s %s", m.From, m.Orientation)
}

var (
	ErrBadMove     = errors.New("malformed move")
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	ErrNotOwner    = errors.New("no piece of the moving player at origin")
	ErrOccupied    = errors.New("destination is occupied")
	ErrEmptyTarget = errors.New("push target is empty")
	ErrWrongSide   = errors.New("piece side does not allow this action")
)
