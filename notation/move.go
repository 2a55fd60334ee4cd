package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nelhage/riverbot/rivers"
)

var moveRE = regexp.MustCompile(
	// kind origin [:to] [:pushed_to] [:orientation]
	`^([MPFR])(\d+),(\d+)(?::(\d+),(\d+))?(?::(\d+),(\d+))?(?::([hv]))?$`,
)

var errIllegalMove = errors.New("illegal move")

// ParseMove parses one move:
//
//	M x,y:x,y        translate
//	P x,y:x,y:x,y    push (origin, pushed stone, its destination)
//	F x,y[:h|:v]     flip; without orientation a river flips to stone
//	R x,y            rotate
//
// with no space between the kind letter and the origin.
func ParseMove(move string) (rivers.Move, error) {
	groups := moveRE.FindStringSubmatch(strings.TrimSpace(move))
	if groups == nil {
		return nil, fmt.Errorf("%w: %q", errIllegalMove, move)
	}
	var (
		kind   = groups[1]
		from   = coord(groups[2], groups[3])
		to     = groups[4] != ""
		pushed = groups[6] != ""
		orient = groups[8]
	)
	switch kind {
	case "M":
		if !to || pushed || orient != "" {
			break
		}
		return rivers.Translate{From: from, To: coord(groups[4], groups[5])}, nil
	case "P":
		if !to || !pushed || orient != "" {
			break
		}
		return rivers.Push{
			From:     from,
			To:       coord(groups[4], groups[5]),
			PushedTo: coord(groups[6], groups[7]),
		}, nil
	case "F":
		if to {
			break
		}
		o, err := rivers.ParseOrientation(orient)
		if err != nil {
			return nil, err
		}
		return rivers.Flip{From: from, Orientation: o}, nil
	case "R":
		if to || orient != "" {
			break
		}
		return rivers.Rotate{From: from}, nil
	}
	return nil, fmt.Errorf("%w: %q has the wrong fields for its kind", errIllegalMove, move)
}

func coord(x, y string) rivers.Coord {
	// the regexp guarantees digits; overlong values clamp out of bounds
	xi, err := strconv.Atoi(x)
	if err != nil {
		xi = -1
	}
	yi, err := strconv.Atoi(y)
	if err != nil {
		yi = -1
	}
	return rivers.Coord{X: xi, Y: yi}
}

func FormatMove(m rivers.Move) string {
	switch m := m.(type) {
	case rivers.Translate:
		return fmt.Sprintf("M%d,%d:%d,%d", m.From.X, m.From.Y, m.To.X, m.To.Y)
	case rivers.Push:
		return fmt.Sprintf("P%d,%d:%d,%d:%d,%d",
			m.From.X, m.From.Y, m.To.X, m.To.Y, m.PushedTo.X, m.PushedTo.Y)
	case rivers.Flip:
		switch m.Orientation {
		case rivers.Horizontal:
			return fmt.Sprintf("F%d,%d:h", m.From.X, m.From.Y)
		case rivers.Vertical:
			return fmt.Sprintf("F%d,%d:v", m.From.X, m.From.Y)
		}
		return fmt.Sprintf("F%d,%d", m.From.X, m.From.Y)
	case rivers.Rotate:
		return fmt.Sprintf("R%d,%d", m.From.X, m.From.Y)
	}
	return "?"
}

// ParseMoves parses a whitespace-separated list of moves.
func ParseMoves(s string) ([]rivers.Move, error) {
	var out []rivers.Move
	for _, bit := range strings.Fields(s) {
		m, err := ParseMove(bit)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func FormatMoves(ms []rivers.Move) string {
	bits := make([]string, len(ms))
	for i, m := range ms {
		bits[i] = FormatMove(m)
	}
	return strings.Join(bits, " ")
}
