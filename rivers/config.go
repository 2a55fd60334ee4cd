package rivers

import (
	"errors"
	"fmt"
)

// ScoreWidth is the number of columns in each scoring zone.
const ScoreWidth = 4

var ErrBadConfig = errors.New("bad board configuration")

// Config describes the board geometry. It is supplied by the caller on
// every request rather than fixed per process.
type Config struct {
	Rows      int
	Cols      int
	ScoreCols []int
}

// DefaultConfig returns the geometry for a rows×cols board with centered
// score columns.
func DefaultConfig(rows, cols int) Config {
	return Config{Rows: rows, Cols: cols, ScoreCols: ScoreColsFor(cols)}
}

func ScoreColsFor(cols int) []int {
	start := (cols - ScoreWidth) / 2
	if start < 0 {
		start = 0
	}
	out := make([]int, ScoreWidth)
	for i := range out {
		out[i] = start + i
	}
	return out
}

func TopScoreRow() int {
	return 2
}

func BottomScoreRow(rows int) int {
	return rows - 3
}

func InBounds(x, y, rows, cols int) bool {
	return 0 <= x && x < cols && 0 <= y && y < rows
}

func (c *Config) Validate() error {
	if c.Rows <= TopScoreRow()+3 {
		return fmt.Errorf("%w: %d rows leaves no room for both zones", ErrBadConfig, c.Rows)
	}
	if c.Cols <= 0 {
		return fmt.Errorf("%w: %d columns", ErrBadConfig, c.Cols)
	}
	if len(c.ScoreCols) == 0 || len(c.ScoreCols) > ScoreWidth {
		return fmt.Errorf("%w: %d score columns", ErrBadConfig, len(c.ScoreCols))
	}
	for i, x := range c.ScoreCols {
		if x < 0 {
			return fmt.Errorf("%w: negative score column %d", ErrBadConfig, x)
		}
		for _, y := range c.ScoreCols[:i] {
			if x == y {
				return fmt.Errorf("%w: duplicate score column %d", ErrBadConfig, x)
			}
		}
	}
	return nil
}

func (c *Config) InBounds(x, y int) bool {
	return 0 <= x && x < c.Cols && 0 <= y && y < c.Rows
}

func (c *Config) isScoreCol(x int) bool {
	for _, sc := range c.ScoreCols {
		if sc == x {
			return true
		}
	}
	return false
}

// TargetRow is the row of p's own scoring zone: circle scores on the
// top zone, square on the bottom one.
func (c *Config) TargetRow(p Player) int {
	if p == Circle {
		return TopScoreRow()
	}
	return BottomScoreRow(c.Rows)
}

func (c *Config) IsOwnScoreCell(x, y int, p Player) bool {
	return y == c.TargetRow(p) && x < c.Cols && c.isScoreCol(x)
}

func (c *Config) IsOpponentScoreCell(x, y int, p Player) bool {
	return c.IsOwnScoreCell(x, y, p.Opponent())
}

// ZoneCells lists the in-bounds cells of p's own zone, left to right.
func (c *Config) ZoneCells(p Player) []Coord {
	row := c.TargetRow(p)
	var out []Coord
	for _, x := range c.ScoreCols {
		if c.InBounds(x, row) {
			out = append(out, Coord{x, row})
		}
	}
	return out
}

// WinCount is the number of own stones needed in the own zone to win.
func (c *Config) WinCount() int {
	return len(c.ZoneCells(Circle))
}
