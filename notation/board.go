package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nelhage/riverbot/rivers"
)

// ParseBoard parses a board written as rows separated by '/', top row
// first. Cells in a row are separated by ','; "x" is one empty cell and
// "xN" is a run of N empty cells. Pieces are "C" and "S" for stones and
// "C-", "C|", "S-", "S|" for horizontal and vertical rivers. The score
// columns are the default centered ones for the parsed width.
func ParseBoard(s string) (*rivers.Board, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty board", rivers.ErrBadConfig)
	}
	cfg := rivers.DefaultConfig(len(rows), len(rows[0]))
	return rivers.FromCells(cfg, rows)
}

// ParseBoardConfig is ParseBoard with an explicit geometry.
func ParseBoardConfig(cfg rivers.Config, s string) (*rivers.Board, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	return rivers.FromCells(cfg, rows)
}

func parseRows(s string) ([][]rivers.Piece, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out [][]rivers.Piece
	for i, r := range strings.Split(s, "/") {
		row, err := parseRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(out) > 0 && len(row) != len(out[0]) {
			return nil, fmt.Errorf("row %d bad length: %d", i, len(row))
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRow(row string) ([]rivers.Piece, error) {
	var out []rivers.Piece
	for _, bit := range strings.Split(strings.TrimSpace(row), ",") {
		if bit == "" {
			return nil, fmt.Errorf("empty cell")
		}
		if bit[0] == 'x' {
			count := 1
			if len(bit) > 1 {
				n, err := strconv.Atoi(bit[1:])
				if err != nil || n <= 0 {
					return nil, fmt.Errorf("bad run: %s", bit)
				}
				count = n
			}
			for i := 0; i < count; i++ {
				out = append(out, rivers.Piece{})
			}
			continue
		}
		pc, err := ParsePiece(bit)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

// ParsePiece parses a single non-empty cell.
func ParsePiece(s string) (rivers.Piece, error) {
	if len(s) == 0 || len(s) > 2 {
		return rivers.Piece{}, fmt.Errorf("malformed piece: %q", s)
	}
	var owner rivers.Player
	switch s[0] {
	case 'C':
		owner = rivers.Circle
	case 'S':
		owner = rivers.Square
	default:
		return rivers.Piece{}, fmt.Errorf("malformed piece: %q", s)
	}
	if len(s) == 1 {
		return rivers.MakeStone(owner), nil
	}
	switch s[1] {
	case '-':
		return rivers.MakeRiver(owner, rivers.Horizontal), nil
	case '|':
		return rivers.MakeRiver(owner, rivers.Vertical), nil
	}
	return rivers.Piece{}, fmt.Errorf("malformed piece: %q", s)
}

// FormatPiece is the inverse of ParsePiece; the empty cell formats as "x".
func FormatPiece(pc rivers.Piece) string {
	if pc.Empty() {
		return "x"
	}
	out := "C"
	if pc.Owner == rivers.Square {
		out = "S"
	}
	if pc.Side == rivers.River {
		if pc.Orientation == rivers.Vertical {
			out += "|"
		} else {
			out += "-"
		}
	}
	return out
}

func FormatBoard(b *rivers.Board) string {
	rows := make([]string, 0, b.Rows())
	for y := 0; y < b.Rows(); y++ {
		rows = append(rows, formatRow(b, y))
	}
	return strings.Join(rows, "/")
}

func formatRow(b *rivers.Board, y int) string {
	var bits []string
	empty := 0
	flush := func() {
		switch empty {
		case 0:
		case 1:
			bits = append(bits, "x")
		default:
			bits = append(bits, "x"+strconv.Itoa(empty))
		}
		empty = 0
	}
	for x := 0; x < b.Cols(); x++ {
		pc := b.At(x, y)
		if pc.Empty() {
			empty++
			continue
		}
		flush()
		bits = append(bits, FormatPiece(pc))
	}
	flush()
	return strings.Join(bits, ",")
}
