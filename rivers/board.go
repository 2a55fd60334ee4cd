package rivers

import "fmt"

type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Board is an immutable snapshot of the cells. Every operation that
// changes a cell returns a new Board.
type Board struct {
	cfg   *Config
	cells []Piece
	hash  uint64
}

// New returns an empty board with the given geometry.
func New(cfg Config) *Board {
	return &Board{
		cfg:   &cfg,
		cells: make([]Piece, cfg.Rows*cfg.Cols),
	}
}

// FromCells builds a board from a slice of rows, top row first, each a
// slice of cols pieces. Malformed pieces are treated as empty.
func FromCells(cfg Config, cells [][]Piece) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cells) != cfg.Rows {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrBadConfig, len(cells), cfg.Rows)
	}
	b := New(cfg)
	for y, row := range cells {
		if len(row) != cfg.Cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadConfig, y, len(row), cfg.Cols)
		}
		for x, pc := range row {
			if !pc.Valid() {
				continue
			}
			b.set(x, y, pc)
		}
	}
	return b, nil
}

// StartPosition returns the default opening layout: two rows of stones
// per side, centered, just outside each side's home zone.
func StartPosition(cfg Config) *Board {
	b := New(cfg)
	width := cfg.Cols - 6
	if width < 2 {
		width = 2
	}
	if width > 6 {
		width = 6
	}
	start := (cfg.Cols - width) / 2
	for x := start; x < start+width && x < cfg.Cols; x++ {
		b.set(x, 3, MakeStone(Square))
		b.set(x, 4, MakeStone(Square))
		b.set(x, cfg.Rows-5, MakeStone(Circle))
		b.set(x, cfg.Rows-4, MakeStone(Circle))
	}
	return b
}

func (b *Board) Config() *Config {
	return b.cfg
}

func (b *Board) Rows() int {
	return b.cfg.Rows
}

func (b *Board) Cols() int {
	return b.cfg.Cols
}

func (b *Board) At(x, y int) Piece {
	return b.cells[y*b.cfg.Cols+x]
}

func (b *Board) at(c Coord) Piece {
	return b.cells[c.Y*b.cfg.Cols+c.X]
}

func (b *Board) set(x, y int, pc Piece) {
	i := y*b.cfg.Cols + x
	b.hash ^= zobrist(i, b.cells[i])
	b.cells[i] = pc
	b.hash ^= zobrist(i, pc)
}

// Clone returns a deep copy of b.
func (b *Board) Clone() *Board {
	return alloc(b)
}

func (b *Board) Equal(rhs *Board) bool {
	if b.cfg.Rows != rhs.cfg.Rows || b.cfg.Cols != rhs.cfg.Cols {
		return false
	}
	if b.hash != rhs.hash {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != rhs.cells[i] {
			return false
		}
	}
	return true
}

// Scored counts p's stones sitting in p's own zone.
func (b *Board) Scored(p Player) int {
	n := 0
	for _, c := range b.cfg.ZoneCells(p) {
		pc := b.at(c)
		if pc.Owner == p && pc.Side == Stone {
			n++
		}
	}
	return n
}

// GameOver reports whether either side has filled its own zone with its
// own stones.
func (b *Board) GameOver() (over bool, winner Player) {
	need := b.cfg.WinCount()
	if need == 0 {
		return false, NoPlayer
	}
	c := b.Scored(Circle) >= need
	s := b.Scored(Square) >= need
	switch {
	case c && s:
		return true, NoPlayer
	case c:
		return true, Circle
	case s:
		return true, Square
	}
	return false, NoPlayer
}

// Pieces counts p's stones and rivers.
func (b *Board) Pieces(p Player) (stones, rivers int) {
	for _, pc := range b.cells {
		if pc.Owner != p {
			continue
		}
		if pc.Side == Stone {
			stones++
		} else {
			rivers++
		}
	}
	return stones, rivers
}

func alloc(tpl *Board) *Board {
	b := &Board{cfg: tpl.cfg, hash: tpl.hash, cells: make([]Piece, len(tpl.cells))}
	copy(b.cells, tpl.cells)
	return b
}

func copyBoard(b *Board, out *Board) {
	cells := out.cells
	*out = *b
	if cap(cells) < len(b.cells) {
		cells = make([]Piece, len(b.cells))
	}
	out.cells = cells[:len(b.cells)]
	copy(out.cells, b.cells)
}

// Alloc returns an empty board suitable as a destination for
// ApplyPreallocated.
func Alloc(cfg Config) *Board {
	return New(cfg)
}
