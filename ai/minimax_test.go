package ai

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
	"github.com/nelhage/riverbot/riverstest"
)

var benchDepth = flag.Int("depth", 3, "minimax search depth")

func BenchmarkMinimax(b *testing.B) {
	cfg := rivers.DefaultConfig(13, 12)
	pos := rivers.StartPosition(cfg)
	p := rivers.Circle
	ai := NewMinimax(MinimaxConfig{Depth: *benchDepth})

	for i := 0; i < b.N; i++ {
		m, ok := ai.GetMove(context.Background(), pos, p)
		if !ok {
			b.Fatal("no move")
		}
		pos = pos.MustApply(p, m)
		p = p.Opponent()
		if over, _ := pos.GameOver(); over {
			pos = rivers.StartPosition(cfg)
			p = rivers.Circle
		}
	}
}

func TestReturnsLegalMove(t *testing.T) {
	b := riverstest.Position(rivers.DefaultConfig(13, 12), rivers.Circle, "F8,9:h F8,3:h")
	ai := NewMinimax(MinimaxConfig{Depth: 2})
	m, ok := ai.GetMove(context.Background(), b, rivers.Circle)
	require.True(t, ok)
	require.True(t, b.CheckMove(rivers.Circle, m), notation.FormatMove(m))

	ms, _, st := ai.Analyze(context.Background(), b, rivers.Circle)
	require.Equal(t, 2, st.Depth)
	require.NotEmpty(t, ms)
	require.Equal(t, m, ms[0], "search is deterministic")
}

func TestFindsWin(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"4,2": "C", "5,2": "C", "6,2": "C",
		"7,3": "C",
		"0,0": "S",
	})
	for _, cfg := range []MinimaxConfig{
		{Depth: 1},
		{Depth: 3},
		{Depth: 3, NoSort: true},
		{Depth: 3, NoTable: true},
	} {
		ai := NewMinimax(cfg)
		ms, v, _ := ai.Analyze(context.Background(), b, rivers.Circle)
		require.Equal(t, "M7,3:7,2", notation.FormatMove(ms[0]), "%+v", cfg)
		require.Greater(t, v, int64(WinThreshold), "%+v", cfg)
	}
}

func TestBlocksLoss(t *testing.T) {
	// square threatens M7,9:7,10; circle's only defence is to push
	// the runner sideways
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{
		"4,10": "S", "5,10": "S", "6,10": "S",
		"7,9": "S",
		"6,9": "C",
		"0,0": "C",
	})
	ai := NewMinimax(MinimaxConfig{Depth: 2})
	ms, v, _ := ai.Analyze(context.Background(), b, rivers.Circle)
	require.Equal(t, "P6,9:7,9:8,9", notation.FormatMove(ms[0]))
	require.Greater(t, v, int64(-WinThreshold))
}

func TestNoMoves(t *testing.T) {
	b := riverstest.Place(riverstest.Empty(13, 12), map[string]string{"3,3": "S"})
	ai := NewMinimax(MinimaxConfig{Depth: 3})
	m, ok := ai.GetMove(context.Background(), b, rivers.Circle)
	require.False(t, ok)
	require.Nil(t, m)

	ms, _, _ := ai.Analyze(context.Background(), b, rivers.Circle)
	require.Empty(t, ms)
}

func TestTieBreakFirstGenerated(t *testing.T) {
	flat := func(*rivers.Board, rivers.Player) int64 { return 0 }
	b := rivers.StartPosition(rivers.DefaultConfig(13, 12))
	first := b.AllMoves(rivers.Circle, nil)[0]
	for d := 1; d <= 3; d++ {
		ai := NewMinimax(MinimaxConfig{Depth: d, Evaluate: flat})
		m, ok := ai.GetMove(context.Background(), b, rivers.Circle)
		require.True(t, ok)
		require.Equal(t, first, m, "depth %d", d)
	}
}

func TestDoneContextFallsBack(t *testing.T) {
	b := rivers.StartPosition(rivers.DefaultConfig(13, 12))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ai := NewMinimax(MinimaxConfig{})
	ms, _, st := ai.Analyze(ctx, b, rivers.Circle)
	require.Equal(t, 0, st.Depth)
	require.Equal(t, b.AllMoves(rivers.Circle, nil)[0], ms[0])
}

func TestDeadline(t *testing.T) {
	b := riverstest.Position(rivers.DefaultConfig(13, 12), rivers.Circle,
		"F8,9:h F8,3:h F3,9:h F3,3:h F3,8:v F8,4:v")
	ai := NewMinimax(MinimaxConfig{})

	budget := 200 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()
	start := time.Now()
	m, ok := ai.GetMove(ctx, b, rivers.Circle)
	elapsed := time.Since(start)

	require.True(t, ok)
	require.True(t, b.CheckMove(rivers.Circle, m))
	require.Less(t, elapsed, budget+time.Second)
}

func TestAnalyzeIsStateless(t *testing.T) {
	b := riverstest.Position(rivers.DefaultConfig(13, 12), rivers.Circle, "F8,9:h")
	other := riverstest.Position(rivers.DefaultConfig(13, 12), rivers.Circle, "F3,9:v F3,3:v")

	fresh := NewMinimax(MinimaxConfig{Depth: 2})
	want, wantV, _ := fresh.Analyze(context.Background(), b, rivers.Square)

	reused := NewMinimax(MinimaxConfig{Depth: 2})
	reused.Analyze(context.Background(), other, rivers.Square)
	got, gotV, _ := reused.Analyze(context.Background(), b, rivers.Square)

	require.Equal(t, want, got)
	require.Equal(t, wantV, gotV)
}
