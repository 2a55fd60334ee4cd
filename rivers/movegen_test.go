package rivers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
	"github.com/nelhage/riverbot/riverstest"
)

func formatAll(b *rivers.Board, p rivers.Player) []string {
	var out []string
	for _, m := range b.AllMoves(p, nil) {
		out = append(out, notation.FormatMove(m))
	}
	return out
}

func TestLoneStone(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"5,9": "C"})
	// (5,10) is circle's opponent zone and is never entered
	require.Equal(t, []string{
		"M5,9:6,9",
		"M5,9:4,9",
		"M5,9:5,8",
		"F5,9:h",
		"F5,9:v",
	}, formatAll(b, rivers.Circle))
	require.Empty(t, b.AllMoves(rivers.Square, nil))
}

func TestLoneRiver(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"0,0": "S-"})
	require.Equal(t, []string{
		"F0,0",
		"R0,0",
		"M0,0:1,0",
		"M0,0:0,1",
	}, formatAll(b, rivers.Square))
}

func TestRiverRun(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"5,9": "C",
		"5,8": "C|",
	})
	m := riverstest.Move("M5,9:5,2")
	require.True(t, b.CheckMove(rivers.Circle, m))
	require.Contains(t, formatAll(b, rivers.Circle), "M5,9:5,2")

	next, delta, err := b.Apply(rivers.Circle, m)
	require.NoError(t, err)
	require.Equal(t, 1, delta)
	require.Equal(t, rivers.MakeStone(rivers.Circle), next.At(5, 2))
	require.True(t, next.At(5, 9).Empty())
	require.Equal(t, rivers.MakeRiver(rivers.Circle, rivers.Vertical), next.At(5, 8))
}

func TestRiverBlockedByStone(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"5,9": "C",
		"5,8": "S|",
		"5,5": "S",
	})
	var up []string
	for _, s := range formatAll(b, rivers.Circle) {
		if strings.HasPrefix(s, "M5,9:5,") {
			up = append(up, s)
		}
	}
	require.Equal(t, []string{"M5,9:5,7", "M5,9:5,6"}, up)
}

func TestRiverChain(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"2,9": "C",
		"3,9": "C-",
		"6,9": "S|",
	})
	var dests []string
	for _, m := range b.AllMoves(rivers.Circle, nil) {
		if tr, ok := m.(rivers.Translate); ok && tr.From == (rivers.Coord{X: 2, Y: 9}) {
			dests = append(dests, tr.To.String())
		}
	}
	require.Equal(t, []string{
		"4,9", "5,9", "1,9", "0,9",
		"6,8", "6,7", "6,6", "6,5", "6,4", "6,3", "6,2", "6,1", "6,0",
		"2,10", "2,8",
	}, dests)
	require.False(t, b.CheckMove(rivers.Circle, riverstest.Move("M2,9:6,10")))
}

func TestStonePush(t *testing.T) {
	empty := riverstest.Empty(13, 12)
	cases := []struct {
		name   string
		pieces map[string]string
		move   string
		legal  bool
	}{
		{"enemy forward", map[string]string{"5,9": "C", "5,8": "S"}, "P5,9:5,8:5,7", true},
		{"own forward", map[string]string{"5,9": "C", "5,8": "C"}, "P5,9:5,8:5,7", true},
		{"blocked", map[string]string{"5,9": "C", "5,8": "S", "5,7": "S"}, "P5,9:5,8:5,7", false},
		{"off board", map[string]string{"5,1": "C", "5,0": "S"}, "P5,1:5,0:5,-1", false},
		{"into opponent zone", map[string]string{"5,8": "C", "5,9": "S"}, "P5,8:5,9:5,10", false},
		{"enemy into own zone", map[string]string{"5,4": "C", "5,3": "S"}, "P5,4:5,3:5,2", false},
		{"own into own zone", map[string]string{"5,4": "C", "5,3": "C"}, "P5,4:5,3:5,2", true},
		{"not in line", map[string]string{"5,9": "C", "5,8": "S"}, "P5,9:5,8:4,8", false},
		{"empty target", map[string]string{"5,9": "C"}, "P5,9:5,8:5,7", false},
	}
	for _, tc := range cases {
		b := riverstest.Place(empty, tc.pieces)
		m, err := notation.ParseMove(tc.move)
		if err != nil {
			require.False(t, tc.legal, tc.name)
			continue
		}
		require.Equal(t, tc.legal, b.CheckMove(rivers.Circle, m), tc.name)
		require.Equal(t, tc.legal, contains(b.AllMoves(rivers.Circle, nil), m), tc.name)
	}
}

func TestPushEmptyTarget(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"5,9": "C"})
	err := b.Validate(rivers.Circle, riverstest.Move("P5,9:5,8:5,7"))
	require.ErrorIs(t, err, rivers.ErrEmptyTarget)
}

func TestRiverPush(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"3,6": "C-",
		"4,6": "S",
	})
	var dests []string
	for _, m := range b.AllMoves(rivers.Circle, nil) {
		if p, ok := m.(rivers.Push); ok {
			require.Equal(t, rivers.Coord{X: 4, Y: 6}, p.To)
			dests = append(dests, p.PushedTo.String())
		}
	}
	require.Equal(t, []string{
		"5,6", "6,6", "7,6", "8,6", "9,6", "10,6", "11,6",
		"2,6", "1,6", "0,6",
	}, dests)

	next, _, err := b.Apply(rivers.Circle, riverstest.Move("P3,6:4,6:9,6"))
	require.NoError(t, err)
	require.True(t, next.At(3, 6).Empty())
	require.Equal(t, rivers.MakeStone(rivers.Circle), next.At(4, 6), "a pushing river lands as a stone")
	require.Equal(t, rivers.MakeStone(rivers.Square), next.At(9, 6))
}

func TestFlipAndRotate(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"5,9": "C",
		"2,2": "C-",
	})
	cases := []struct {
		move  string
		legal bool
	}{
		{"F5,9:h", true},
		{"F5,9:v", true},
		{"F5,9", false},
		{"R5,9", false},
		{"F2,2", true},
		{"F2,2:v", false},
		{"F2,2:h", false},
		{"R2,2", true},
		{"R3,3", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.legal, b.CheckMove(rivers.Circle, riverstest.Move(tc.move)), tc.move)
	}

	next := b.MustApply(rivers.Circle, riverstest.Move("R2,2"))
	require.Equal(t, rivers.MakeRiver(rivers.Circle, rivers.Vertical), next.At(2, 2))
	next = next.MustApply(rivers.Circle, riverstest.Move("F2,2"))
	require.Equal(t, rivers.MakeStone(rivers.Circle), next.At(2, 2))
	next = next.MustApply(rivers.Circle, riverstest.Move("F5,9:h"))
	require.Equal(t, rivers.MakeRiver(rivers.Circle, rivers.Horizontal), next.At(5, 9))
}

func TestCheckMoveRejectsMalformed(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"5,9": "C", "6,9": "S"})
	bad := []rivers.Move{
		nil,
		rivers.Translate{From: rivers.Coord{X: -1, Y: 9}, To: rivers.Coord{X: 0, Y: 9}},
		rivers.Translate{From: rivers.Coord{X: 5, Y: 9}, To: rivers.Coord{X: 5, Y: 99}},
		rivers.Translate{From: rivers.Coord{X: 6, Y: 9}, To: rivers.Coord{X: 6, Y: 8}},
		rivers.Translate{From: rivers.Coord{X: 5, Y: 9}, To: rivers.Coord{X: 6, Y: 9}},
		rivers.Translate{From: rivers.Coord{X: 5, Y: 9}, To: rivers.Coord{X: 5, Y: 7}},
		rivers.Translate{From: rivers.Coord{X: 0, Y: 0}, To: rivers.Coord{X: 1, Y: 0}},
		rivers.Push{From: rivers.Coord{X: 5, Y: 9}, To: rivers.Coord{X: 6, Y: 9}, PushedTo: rivers.Coord{X: 70, Y: 9}},
		rivers.Rotate{From: rivers.Coord{X: 5, Y: 99}},
	}
	for i, m := range bad {
		require.False(t, b.CheckMove(rivers.Circle, m), "case %d: %v", i, m)
	}
	require.False(t, b.CheckMove(rivers.NoPlayer, riverstest.Move("M5,9:5,8")))
	require.True(t, b.CheckMove(rivers.Circle, riverstest.Move("P5,9:6,9:7,9")))
}

func TestApplyPure(t *testing.T) {
	b := riverstest.Position(rivers.DefaultConfig(13, 12), rivers.Circle, "F8,9:h F8,3:h")
	before := b.Clone()
	for _, m := range b.AllMoves(rivers.Circle, nil) {
		n1, d1, err := b.Apply(rivers.Circle, m)
		require.NoError(t, err, m.String())
		n2, d2, err := b.Apply(rivers.Circle, m)
		require.NoError(t, err)
		require.True(t, n1.Equal(n2), m.String())
		require.Equal(t, d1, d2)
		require.True(t, b.Equal(before), "apply %s mutated its input", m)
	}
}

func TestApplyRejectsBadPreconditions(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"5,9": "C", "5,8": "S"})
	cases := []struct {
		p    rivers.Player
		move string
		err  error
	}{
		{rivers.Square, "M5,9:4,9", rivers.ErrNotOwner},
		{rivers.Circle, "M4,4:4,5", rivers.ErrNotOwner},
		{rivers.Circle, "M5,9:5,8", rivers.ErrOccupied},
		{rivers.Circle, "P5,9:4,9:3,9", rivers.ErrEmptyTarget},
		{rivers.Circle, "R5,9", rivers.ErrWrongSide},
		{rivers.Circle, "F5,9", rivers.ErrWrongSide},
	}
	for _, tc := range cases {
		_, _, err := b.Apply(tc.p, riverstest.Move(tc.move))
		require.ErrorIs(t, err, tc.err, tc.move)
	}
	require.Panics(t, func() { b.MustApply(rivers.Circle, riverstest.Move("R5,9")) })
}

func contains(ms []rivers.Move, m rivers.Move) bool {
	for _, o := range ms {
		if o == m {
			return true
		}
	}
	return false
}

// candidates enumerates structurally well-formed moves for p's pieces,
// legal or not.
func candidates(b *rivers.Board, p rivers.Player) []rivers.Move {
	var out []rivers.Move
	dirs := []rivers.Coord{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	for y := 0; y < b.Rows(); y++ {
		for x := 0; x < b.Cols(); x++ {
			if b.At(x, y).Owner != p {
				continue
			}
			from := rivers.Coord{X: x, Y: y}
			out = append(out,
				rivers.Rotate{From: from},
				rivers.Flip{From: from},
				rivers.Flip{From: from, Orientation: rivers.Horizontal},
				rivers.Flip{From: from, Orientation: rivers.Vertical})
			for ty := 0; ty < b.Rows(); ty++ {
				for tx := 0; tx < b.Cols(); tx++ {
					to := rivers.Coord{X: tx, Y: ty}
					out = append(out, rivers.Translate{From: from, To: to})
					for _, d := range dirs {
						n := rivers.Coord{X: x + d.X, Y: y + d.Y}
						out = append(out, rivers.Push{From: from, To: n, PushedTo: to})
					}
				}
			}
		}
	}
	return out
}

func checkRoundTrip(t *testing.T, b *rivers.Board, p rivers.Player) {
	t.Helper()
	moves := b.AllMoves(p, nil)
	gen := make(map[rivers.Move]bool, len(moves))
	for _, m := range moves {
		require.False(t, gen[m], "duplicate move %s", m)
		gen[m] = true
		require.NoError(t, b.Validate(p, m), "generated %s\n%s", m, notation.FormatBoard(b))
		_, _, err := b.Apply(p, m)
		require.NoError(t, err, m.String())
	}
	for _, m := range candidates(b, p) {
		require.Equal(t, gen[m], b.CheckMove(p, m), "%s on %s", m, notation.FormatBoard(b))
	}
}

func TestRoundTripRandomGames(t *testing.T) {
	cfg := rivers.DefaultConfig(13, 12)
	r := rand.New(rand.NewSource(42))
	for game := 0; game < 4; game++ {
		b := rivers.StartPosition(cfg)
		p := rivers.Circle
		for ply := 0; ply < 60; ply++ {
			if ply%10 == 0 {
				checkRoundTrip(t, b, rivers.Circle)
				checkRoundTrip(t, b, rivers.Square)
			}
			moves := b.AllMoves(p, nil)
			if len(moves) == 0 {
				break
			}
			b = b.MustApply(p, moves[r.Intn(len(moves))])
			if over, _ := b.GameOver(); over {
				break
			}
			p = p.Opponent()
		}
	}
}

func TestRoundTripSmallBoard(t *testing.T) {
	b := riverstest.Board(
		"x,C|,S,x",
		"S-,C,x,C-",
		"x,S|,C,x",
		"C,x,S,S-",
		"x,x,C|,x",
		"S,x,x,C",
	)
	checkRoundTrip(t, b, rivers.Circle)
	checkRoundTrip(t, b, rivers.Square)
}
