package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// Player is anything that can pick a move: the search, the random
// player, an agent or a human at the terminal.
type Player = ai.RiversPlayer

type GlyphSet struct {
	Stone      string
	Horizontal string
	Vertical   string
}

type Glyphs struct {
	Circle, Square GlyphSet
	Empty, Zone    string
}

type Reason string

const (
	ZoneFilled Reason = "filled its zone"
	NoMoves    Reason = "no legal moves"
	PlyLimit   Reason = "ply limit"
)

// Result summarizes a finished game. Winner is NoPlayer for a draw.
type Result struct {
	Winner       rivers.Player
	Reason       Reason
	Plies        int
	CircleScored int
	SquareScored int
}

type CLI struct {
	moves  []rivers.Move
	b      *rivers.Board
	toMove rivers.Player

	Config rivers.Config
	// Start defaults to the standard start position.
	Start *rivers.Board
	// First defaults to circle.
	First rivers.Player
	// Limit ends the game after that many plies; 0 means no limit.
	Limit int

	Glyphs *Glyphs
	Out    io.Writer
	Circle Player
	Square Player
}

var DefaultGlyphs = Glyphs{
	Circle: GlyphSet{
		Stone:      "C",
		Horizontal: "C-",
		Vertical:   "C|",
	},
	Square: GlyphSet{
		Stone:      "S",
		Horizontal: "S-",
		Vertical:   "S|",
	},
	Empty: ".",
	Zone:  "_",
}

var UnicodeGlyphs = Glyphs{
	Circle: GlyphSet{
		Stone:      "○",
		Horizontal: "○─",
		Vertical:   "○│",
	},
	Square: GlyphSet{
		Stone:      "□",
		Horizontal: "□─",
		Vertical:   "□│",
	},
	Empty: "·",
	Zone:  "▫",
}

func (c *CLI) Play(ctx context.Context) (*rivers.Board, Result) {
	c.moves = nil
	c.b = c.Start
	if c.b == nil {
		c.b = rivers.StartPosition(c.Config)
	}
	c.toMove = c.First
	if c.toMove == rivers.NoPlayer {
		c.toMove = rivers.Circle
	}
	for {
		c.render()
		if over, winner := c.b.GameOver(); over {
			return c.b, c.finish(winner, ZoneFilled)
		}
		if c.Limit > 0 && len(c.moves) >= c.Limit {
			return c.b, c.finish(c.leader(), PlyLimit)
		}
		player := c.Circle
		if c.toMove == rivers.Square {
			player = c.Square
		}
		m, ok := player.GetMove(ctx, c.b, c.toMove)
		if !ok {
			return c.b, c.finish(c.leader(), NoMoves)
		}
		if e := c.b.Validate(c.toMove, m); e != nil {
			fmt.Fprintln(c.Out, "illegal move:", e)
			continue
		}
		fmt.Fprintf(c.Out, "%d. %s %s\n", len(c.moves)+1, c.toMove, notation.FormatMove(m))
		c.b = c.b.MustApply(c.toMove, m)
		c.moves = append(c.moves, m)
		c.toMove = c.toMove.Opponent()
	}
}

// leader is whoever has more stones home, or NoPlayer on a tie.
func (c *CLI) leader() rivers.Player {
	cs, ss := c.b.Scored(rivers.Circle), c.b.Scored(rivers.Square)
	switch {
	case cs > ss:
		return rivers.Circle
	case ss > cs:
		return rivers.Square
	}
	return rivers.NoPlayer
}

func (c *CLI) finish(winner rivers.Player, why Reason) Result {
	r := Result{
		Winner:       winner,
		Reason:       why,
		Plies:        len(c.moves),
		CircleScored: c.b.Scored(rivers.Circle),
		SquareScored: c.b.Scored(rivers.Square),
	}
	fmt.Fprintf(c.Out, "Game Over! ")
	if winner == rivers.NoPlayer {
		fmt.Fprintf(c.Out, "Draw (%s).", why)
	} else {
		fmt.Fprintf(c.Out, "%s wins: %s", winner, why)
	}
	fmt.Fprintf(c.Out, "\nscored: circle=%d square=%d\n", r.CircleScored, r.SquareScored)
	return r
}

func (c *CLI) Moves() []rivers.Move {
	return c.moves
}

func (c *CLI) render() {
	RenderBoard(c.Glyphs, c.Out, c.b, c.toMove)
}

func glyph(g *Glyphs, pc rivers.Piece) string {
	set := &g.Circle
	if pc.Owner == rivers.Square {
		set = &g.Square
	}
	switch {
	case pc.Side == rivers.Stone:
		return set.Stone
	case pc.Orientation == rivers.Vertical:
		return set.Vertical
	}
	return set.Horizontal
}

func RenderBoard(g *Glyphs, out io.Writer, b *rivers.Board, toMove rivers.Player) {
	if g == nil {
		g = &DefaultGlyphs
	}
	cfg := b.Config()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%s to play]\n", toMove)
	w := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	fmt.Fprintf(w, "\t")
	for x := 0; x < b.Cols(); x++ {
		fmt.Fprintf(w, "%d\t", x)
	}
	fmt.Fprintf(w, "\n")
	for y := 0; y < b.Rows(); y++ {
		cells := make([]string, 0, b.Cols())
		for x := 0; x < b.Cols(); x++ {
			pc := b.At(x, y)
			switch {
			case !pc.Empty():
				cells = append(cells, glyph(g, pc))
			case cfg.IsOwnScoreCell(x, y, rivers.Circle) || cfg.IsOwnScoreCell(x, y, rivers.Square):
				cells = append(cells, g.Zone)
			default:
				cells = append(cells, g.Empty)
			}
		}
		fmt.Fprintf(w, "%d\t%s\t\n", y, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Fprintf(out, "scored: circle=%d square=%d\n",
		b.Scored(rivers.Circle), b.Scored(rivers.Square))
}
