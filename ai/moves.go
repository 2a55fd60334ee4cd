package ai

import (
	"fmt"
	"sort"

	"github.com/nelhage/riverbot/rivers"
)

type scoredMove struct {
	m rivers.Move
	v int64
}

// moveGenerator yields the children of one interior node: the table
// move first, then the principal variation's move, then everything
// else, ordered by one-ply evaluation unless disabled.
type moveGenerator struct {
	ai    *MinimaxAI
	ply   int
	depth int
	b     *rivers.Board
	p     rivers.Player

	te *tableEntry
	pv []rivers.Move

	ms []rivers.Move
	i  int
}

func (mg *moveGenerator) Next() (rivers.Move, *rivers.Board) {
	for {
		var m rivers.Move
		switch mg.i {
		case 0:
			mg.i++
			if mg.te != nil {
				m = mg.te.m
				break
			}
			fallthrough
		case 1:
			mg.i++
			if len(mg.pv) > 0 && mg.b.CheckMove(mg.p, mg.pv[0]) {
				m = mg.pv[0]
				if mg.te != nil && m == mg.te.m {
					continue
				}
				break
			}
			fallthrough
		case 2:
			mg.i++
			mg.ms = mg.ai.orderMoves(mg.ply, mg.depth, mg.b, mg.p)
			fallthrough
		default:
			if len(mg.ms) == 0 {
				return nil, nil
			}
			m = mg.ms[0]
			mg.ms = mg.ms[1:]
			if mg.te != nil && m == mg.te.m {
				continue
			}
			if len(mg.pv) != 0 && mg.pv[0] == m {
				continue
			}
		}
		child, _, err := mg.b.ApplyPreallocated(mg.p, m, mg.ai.stack[mg.ply].b)
		if err != nil {
			panic(fmt.Sprintf("move %s passed the validator but does not apply: %v", m, err))
		}
		return m, child
	}
}

// orderMoves generates p's moves into the ply's buffer, best one-ply
// evaluation first. Ties keep generation order.
func (ai *MinimaxAI) orderMoves(ply, depth int, b *rivers.Board, p rivers.Player) []rivers.Move {
	f := &ai.stack[ply]
	f.moves = b.AllMoves(p, f.moves[:0])
	if ai.cfg.NoSort || depth < 2 || len(f.moves) < 2 {
		return f.moves
	}
	f.order = f.order[:0]
	for _, m := range f.moves {
		child, _, err := b.ApplyPreallocated(p, m, f.scratch)
		if err != nil {
			panic(fmt.Sprintf("generated move %s does not apply: %v", m, err))
		}
		f.order = append(f.order, scoredMove{m: m, v: ai.evaluate(child, p)})
	}
	sort.SliceStable(f.order, func(i, j int) bool {
		return f.order[i].v > f.order[j].v
	})
	for i := range f.order {
		f.moves[i] = f.order[i].m
	}
	return f.moves
}
