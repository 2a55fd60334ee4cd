package ai

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nelhage/riverbot/rivers"
)

type Feature int

const (
	Scored Feature = iota
	Proximity
	Advance
	Past
	Lane
	LaneBlock
	Threat
	Flank
	River
	MaxFeature
)

var featureStrings = [MaxFeature]string{
	Scored:    "Scored",
	Proximity: "Proximity",
	Advance:   "Advance",
	Past:      "Past",
	Lane:      "Lane",
	LaneBlock: "LaneBlock",
	Threat:    "Threat",
	Flank:     "Flank",
	River:     "River",
}

func (f Feature) String() string {
	if f < 0 || f >= MaxFeature {
		return fmt.Sprintf("Feature(%d)", int(f))
	}
	return featureStrings[f]
}

// Weights holds one weight per Feature. Penalty features (LaneBlock,
// Threat, Flank) are given as positive magnitudes and subtracted.
type Weights [MaxFeature]int64

var DefaultWeights = Weights{
	Scored:    25000,
	Proximity: 900,
	Advance:   200,
	Past:      4000,
	Lane:      9000,
	LaneBlock: 9000,
	Threat:    7000,
	Flank:     9000,
	River:     15,
}

// EvaluationFunc scores b from p's point of view; higher is better for
// p.
type EvaluationFunc func(b *rivers.Board, p rivers.Player) int64

func MakeEvaluator(w *Weights) EvaluationFunc {
	if w == nil {
		w = &DefaultWeights
	}
	return func(b *rivers.Board, p rivers.Player) int64 {
		return evaluate(w, b, p)
	}
}

var DefaultEvaluate = MakeEvaluator(&DefaultWeights)

// Evaluate scores b for p with the default weights.
func Evaluate(b *rivers.Board, p rivers.Player) int64 {
	return DefaultEvaluate(b, p)
}

// evaluate is zero-sum: each side's features are computed relative to
// its own zone, and the opponent's total is subtracted.
func evaluate(w *Weights, b *rivers.Board, p rivers.Player) int64 {
	if over, winner := b.GameOver(); over {
		switch winner {
		case rivers.NoPlayer:
			return 0
		case p:
			return WinValue
		default:
			return -WinValue
		}
	}
	var mine, theirs [MaxFeature]int64
	side(w, b, p, &mine)
	side(w, b, p.Opponent(), &theirs)
	return sum(&mine) - sum(&theirs)
}

func sum(fs *[MaxFeature]int64) int64 {
	var t int64
	for _, v := range fs {
		t += v
	}
	return t
}

// depth is the number of rows between y and the board edge behind p's
// own zone.
func depth(p rivers.Player, y, rows int) int {
	if p == rivers.Circle {
		return y
	}
	return rows - 1 - y
}

// forward is the row step that takes p's pieces toward its own zone.
func forward(p rivers.Player) int {
	if p == rivers.Circle {
		return -1
	}
	return 1
}

func span(cfg *rivers.Config) (lo, hi int) {
	lo, hi = cfg.ScoreCols[0], cfg.ScoreCols[0]
	for _, x := range cfg.ScoreCols[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// side accumulates p's weighted feature contributions into out.
func side(w *Weights, b *rivers.Board, p rivers.Player, out *[MaxFeature]int64) {
	cfg := b.Config()
	rows := cfg.Rows
	opp := p.Opponent()
	target := cfg.TargetRow(p)
	lane := target + forward(p)
	lo, hi := span(cfg)
	targetDepth := depth(p, target, rows)
	oppTargetDepth := depth(opp, cfg.TargetRow(opp), rows)

	var open [rivers.ScoreWidth]rivers.Coord
	n := 0
	for _, c := range cfg.ZoneCells(p) {
		if pc := b.At(c.X, c.Y); pc.Owner == p && pc.Side == rivers.Stone {
			out[Scored] += w[Scored]
		} else {
			open[n] = c
			n++
		}
	}

	laneOpen := func(x int) bool {
		return cfg.IsOwnScoreCell(x, target, p) && b.At(x, target).Empty()
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cfg.Cols; x++ {
			pc := b.At(x, y)
			if pc.Empty() {
				continue
			}
			if pc.Owner == p {
				d := depth(p, y, rows)
				out[Advance] += w[Advance] / int64(d+1)
				if d < targetDepth {
					out[Past] += w[Past]
				}
				for _, c := range open[:n] {
					out[Proximity] += w[Proximity] / int64(abs(c.X-x)+abs(c.Y-y)+1)
				}
				if pc.Side == rivers.River {
					out[River] += w[River]
				}
				if y == lane && laneOpen(x) {
					out[Lane] += w[Lane]
				}
				continue
			}

			if y == lane && laneOpen(x) {
				out[LaneBlock] -= w[LaneBlock]
			}
			if y == target && (x == lo-1 || x == hi+1) {
				out[Flank] -= w[Flank]
			}
			if depth(opp, y, rows) <= oppTargetDepth && x >= lo-2 && x <= hi+2 {
				out[Threat] -= w[Threat]
			}
		}
	}
}

// ExplainScore writes a per-feature breakdown of b's evaluation under w.
func ExplainScore(w *Weights, out io.Writer, b *rivers.Board) {
	if w == nil {
		w = &DefaultWeights
	}
	var fs [2][MaxFeature]int64
	side(w, b, rivers.Circle, &fs[0])
	side(w, b, rivers.Square, &fs[1])

	tw := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	fmt.Fprintf(tw, "\tcircle\tsquare\n")
	for f := Feature(0); f < MaxFeature; f++ {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", f, fs[0][f], fs[1][f])
	}
	fmt.Fprintf(tw, "total\t%d\t%d\n", sum(&fs[0]), sum(&fs[1]))
	if over, winner := b.GameOver(); over {
		fmt.Fprintf(tw, "winner\t%s\n", winner)
	}
	fmt.Fprintf(tw, "eval(circle)\t%d\n", evaluate(w, b, rivers.Circle))
	tw.Flush()
}
