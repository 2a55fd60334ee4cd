package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nelhage/riverbot/agent"
	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/cli"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

func agentPlayer(t *testing.T, p rivers.Player, opts ...agent.Option) ai.RiversPlayer {
	a, err := agent.New(p, opts...)
	require.NoError(t, err)
	return &cli.AgentPlayer{Agent: a, Clock: time.Minute}
}

func TestAgentVsRandom(t *testing.T) {
	cfg := rivers.DefaultConfig(13, 12)
	for seed := uint64(1); seed <= 3; seed++ {
		ms, final, err := playOut(context.Background(),
			rivers.StartPosition(cfg), rivers.Circle,
			agentPlayer(t, rivers.Circle, agent.WithDepth(1)),
			ai.NewRandom(seed),
			40)
		require.NoError(t, err, "seed=%d", seed)
		require.NotEmpty(t, ms)
		require.False(t, final.Equal(rivers.StartPosition(cfg)))
	}
}

func TestAgentsDeterministic(t *testing.T) {
	cfg := rivers.DefaultConfig(13, 12)
	play := func() string {
		ms, _, err := playOut(context.Background(),
			rivers.StartPosition(cfg), rivers.Circle,
			agentPlayer(t, rivers.Circle, agent.WithDepth(2)),
			agentPlayer(t, rivers.Square, agent.WithDepth(2)),
			6)
		require.NoError(t, err)
		return notation.FormatMoves(ms)
	}
	first := play()
	require.Equal(t, first, play())
}

func TestBookThenSearch(t *testing.T) {
	cfg := rivers.DefaultConfig(13, 12)
	book, err := ai.BuildOpeningBook(cfg, rivers.Circle, ai.DefaultOpenings)
	require.NoError(t, err)
	book1, err := notation.ParseMoves(ai.DefaultOpenings[0])
	require.NoError(t, err)

	ms, _, err := playOut(context.Background(),
		rivers.StartPosition(cfg), rivers.Circle,
		agentPlayer(t, rivers.Circle, agent.WithBook(book), agent.WithDepth(1)),
		agentPlayer(t, rivers.Square, agent.WithBook(book), agent.WithDepth(1)),
		len(book1)+2)
	require.NoError(t, err)
	require.Len(t, ms, len(book1)+2)
	require.Equal(t, notation.FormatMoves(book1), notation.FormatMoves(ms[:len(book1)]))
}
