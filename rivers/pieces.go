package rivers

import "fmt"

type Player byte
type Side byte
type Orientation byte

const (
	NoPlayer Player = iota
	Circle
	Square
)

const (
	Stone Side = 1 + iota
	River
)

const (
	NoOrientation Orientation = iota
	Horizontal
	Vertical
)

// Piece is a single cell's contents. The zero Piece is an empty cell.
type Piece struct {
	Owner       Player
	Side        Side
	Orientation Orientation
}

func MakeStone(owner Player) Piece {
	return Piece{Owner: owner, Side: Stone}
}

func MakeRiver(owner Player, o Orientation) Piece {
	return Piece{Owner: owner, Side: River, Orientation: o}
}

func (p Piece) Empty() bool {
	return p.Owner == NoPlayer
}

func (p Piece) IsStone() bool {
	return p.Owner != NoPlayer && p.Side == Stone
}

func (p Piece) IsRiver() bool {
	return p.Owner != NoPlayer && p.Side == River
}

// Valid reports whether the piece is empty or a well-formed stone or
// river. Orientation is present exactly on rivers.
func (p Piece) Valid() bool {
	switch {
	case p.Owner == NoPlayer:
		return p.Side == 0 && p.Orientation == NoOrientation
	case p.Owner != Circle && p.Owner != Square:
		return false
	case p.Side == Stone:
		return p.Orientation == NoOrientation
	case p.Side == River:
		return p.Orientation == Horizontal || p.Orientation == Vertical
	default:
		return false
	}
}

func (p Piece) String() string {
	if p.Empty() {
		return "."
	}
	c := "C"
	if p.Owner == Square {
		c = "S"
	}
	if p.Side == River {
		switch p.Orientation {
		case Horizontal:
			c += "-"
		case Vertical:
			c += "|"
		}
	}
	return c
}

func (p Player) Opponent() Player {
	switch p {
	case Circle:
		return Square
	case Square:
		return Circle
	case NoPlayer:
		return NoPlayer
	default:
		panic(fmt.Sprintf("bad player: %x", int(p)))
	}
}

func (p Player) String() string {
	switch p {
	case Circle:
		return "circle"
	case Square:
		return "square"
	case NoPlayer:
		return "nobody"
	default:
		panic(fmt.Sprintf("bad player: %x", int(p)))
	}
}

func ParsePlayer(s string) (Player, error) {
	switch s {
	case "circle":
		return Circle, nil
	case "square":
		return Square, nil
	}
	return NoPlayer, fmt.Errorf("unknown player: %q", s)
}

func (s Side) String() string {
	switch s {
	case Stone:
		return "stone"
	case River:
		return "river"
	default:
		return "none"
	}
}

func (o Orientation) Flip() Orientation {
	switch o {
	case Horizontal:
		return Vertical
	case Vertical:
		return Horizontal
	default:
		return NoOrientation
	}
}

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return ""
	}
}

func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	case "":
		return NoOrientation, nil
	}
	return NoOrientation, fmt.Errorf("unknown orientation: %q", s)
}
