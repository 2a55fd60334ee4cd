package ai

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/nelhage/riverbot/rivers"
	"github.com/nelhage/riverbot/riverstest"
)

// mirror flips b about its horizontal centerline and swaps owners.
func mirror(b *rivers.Board) *rivers.Board {
	cfg := *b.Config()
	cells := make([][]rivers.Piece, cfg.Rows)
	for y := range cells {
		cells[y] = make([]rivers.Piece, cfg.Cols)
		for x := range cells[y] {
			pc := b.At(x, cfg.Rows-1-y)
			if !pc.Empty() {
				pc.Owner = pc.Owner.Opponent()
			}
			cells[y][x] = pc
		}
	}
	out, err := rivers.FromCells(cfg, cells)
	if err != nil {
		panic(err)
	}
	return out
}

// randomBoards plays random games from the start position and returns
// the positions seen along the way.
func randomBoards(seed uint64, games, plies int) []*rivers.Board {
	cfg := rivers.DefaultConfig(13, 12)
	r := rand.New(rand.NewSource(seed))
	var out []*rivers.Board
	for g := 0; g < games; g++ {
		b := rivers.StartPosition(cfg)
		p := rivers.Circle
		for i := 0; i < plies; i++ {
			moves := b.AllMoves(p, nil)
			if len(moves) == 0 {
				break
			}
			b = b.MustApply(p, moves[r.Intn(len(moves))])
			out = append(out, b)
			if over, _ := b.GameOver(); over {
				break
			}
			p = p.Opponent()
		}
	}
	return out
}

func TestEvaluateSymmetric(t *testing.T) {
	boards := append(randomBoards(7, 3, 80), rivers.StartPosition(rivers.DefaultConfig(13, 12)))
	for i, b := range boards {
		c := Evaluate(b, rivers.Circle)
		s := Evaluate(b, rivers.Square)
		require.Equal(t, -c, s, "zero-sum %d", i)

		m := mirror(b)
		require.Equal(t, -c, Evaluate(m, rivers.Circle), "mirror %d", i)
		require.Equal(t, c, Evaluate(m, rivers.Square), "mirror %d", i)
	}
	require.Equal(t, int64(0), Evaluate(rivers.StartPosition(rivers.DefaultConfig(13, 12)), rivers.Circle))
}

func TestEvaluateAdvance(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"5,9": "C"})
	m := riverstest.Move("M5,9:5,8")
	require.True(t, b.CheckMove(rivers.Circle, m))
	next := b.MustApply(rivers.Circle, m)
	require.Greater(t, Evaluate(next, rivers.Circle), Evaluate(b, rivers.Circle))

	// riding a river into the zone is better still
	b = riverstest.Place(b, map[string]string{"5,8": "C|"})
	run := b.MustApply(rivers.Circle, riverstest.Move("M5,9:5,2"))
	step := b.MustApply(rivers.Circle, riverstest.Move("M5,9:4,9"))
	require.Greater(t, Evaluate(run, rivers.Circle), Evaluate(step, rivers.Circle))
}

func TestEvaluateWinner(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"4,2": "C", "5,2": "C", "6,2": "C", "7,2": "C",
		"5,5": "S",
	})
	require.Equal(t, WinValue, Evaluate(b, rivers.Circle))
	require.Equal(t, -WinValue, Evaluate(b, rivers.Square))

	b = riverstest.Place(b, map[string]string{"7,2": "C-"})
	v := Evaluate(b, rivers.Circle)
	require.Less(t, v, int64(WinThreshold))
	require.Greater(t, v, int64(0))
}

func TestEvaluatePenalties(t *testing.T) {
	empty := riverstest.Empty(13, 12)
	base := Evaluate(riverstest.Place(empty, map[string]string{"0,6": "S"}), rivers.Circle)
	cases := []struct {
		name string
		at   string
	}{
		{"lane block", "5,1"},
		{"flank", "3,2"},
	}
	for _, tc := range cases {
		b := riverstest.Place(empty, map[string]string{"0,6": "S", tc.at: "S"})
		// the extra square piece costs circle more than its bare
		// positional value
		alone := Evaluate(riverstest.Place(empty, map[string]string{tc.at: "S"}), rivers.Circle)
		require.Less(t, Evaluate(b, rivers.Circle), base, tc.name)
		require.Less(t, alone, int64(-DefaultWeights[Flank]/2), tc.name)
	}
}

func TestExplainScore(t *testing.T) {
	var buf bytes.Buffer
	ExplainScore(nil, &buf, rivers.StartPosition(rivers.DefaultConfig(13, 12)))
	out := buf.String()
	for f := Feature(0); f < MaxFeature; f++ {
		require.Contains(t, out, f.String())
	}
	require.Contains(t, out, "total")
	require.Contains(t, out, "circle")
}

func TestFeatureString(t *testing.T) {
	require.Equal(t, "Scored", Scored.String())
	require.Equal(t, "River", River.String())
	require.Equal(t, "Feature(99)", Feature(99).String())
}
