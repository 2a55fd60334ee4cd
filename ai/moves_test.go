package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
	"github.com/nelhage/riverbot/riverstest"
)

func TestMoveGenerator(t *testing.T) {
	b := riverstest.Position(rivers.DefaultConfig(13, 12), rivers.Circle, "F8,9:h F8,3:h")
	p := rivers.Circle
	tem := riverstest.Move("M8,9:9,9")
	pvm := riverstest.Move("F3,9:v")
	require.True(t, b.CheckMove(p, tem))
	require.True(t, b.CheckMove(p, pvm))

	ai := NewMinimax(MinimaxConfig{})
	ai.reset(context.Background(), b)
	te := tableEntry{m: tem}

	mg := &ai.stack[1].mg
	*mg = moveGenerator{
		ai:    ai,
		ply:   1,
		depth: 3,
		b:     b,
		p:     p,
		te:    &te,
		pv:    []rivers.Move{pvm},
	}

	all := make(map[rivers.Move]bool)
	for _, m := range b.AllMoves(p, nil) {
		all[m] = true
	}

	var generated []rivers.Move
	seen := make(map[rivers.Move]bool)
	for {
		m, child := mg.Next()
		if child == nil {
			break
		}
		require.False(t, seen[m], "duplicate %s", notation.FormatMove(m))
		seen[m] = true
		generated = append(generated, m)
		require.True(t, b.MustApply(p, m).Equal(child))
	}

	require.Equal(t, tem, generated[0])
	require.Equal(t, pvm, generated[1])
	require.Equal(t, all, seen)

	// the rest are ordered by one-ply evaluation
	for i := 3; i < len(generated); i++ {
		prev := Evaluate(b.MustApply(p, generated[i-1]), p)
		cur := Evaluate(b.MustApply(p, generated[i]), p)
		require.GreaterOrEqual(t, prev, cur, "%d", i)
	}
}

func TestMoveGeneratorSkipsIllegalPV(t *testing.T) {
	b := rivers.StartPosition(rivers.DefaultConfig(13, 12))
	ai := NewMinimax(MinimaxConfig{NoSort: true})
	ai.reset(context.Background(), b)

	mg := &ai.stack[1].mg
	*mg = moveGenerator{
		ai:    ai,
		ply:   1,
		depth: 3,
		b:     b,
		p:     rivers.Circle,
		pv:    []rivers.Move{riverstest.Move("R0,0")},
	}
	m, _ := mg.Next()
	require.Equal(t, b.AllMoves(rivers.Circle, nil)[0], m)
}
