package ai

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

const (
	MaxEval  int64 = 1 << 30
	MinEval        = -MaxEval
	WinValue       = MaxEval - 1<<10

	WinThreshold = 1 << 29

	defaultTableSize = 1 << 16

	maxDepth = 16

	// nodes between checks of the context
	pollInterval = 1 << 10
)

type MinimaxAI struct {
	cfg MinimaxConfig

	st Stats

	evaluate EvaluationFunc

	table []tableEntry
	stack [maxDepth]struct {
		b       *rivers.Board
		scratch *rivers.Board
		mg      moveGenerator
		moves   []rivers.Move
		order   []scoredMove
		pv      [maxDepth]rivers.Move
		m       rivers.Move
	}

	ctx       context.Context
	nodes     uint64
	cancelled bool
}

type tableEntry struct {
	hash  uint64
	depth int
	value int64
	bound boundType
	m     rivers.Move
}

type boundType byte

const (
	lowerBound = iota
	exactBound = iota
	upperBound = iota
)

type Stats struct {
	Depth     int
	Generated uint64
	Evaluated uint64
	Scout     uint64
	Terminal  uint64
	Visited   uint64

	CutNodes  uint64
	Cut0      uint64
	Cut1      uint64
	CutSearch uint64

	ReSearch uint64

	AllNodes uint64

	TTHits uint64
}

type MinimaxConfig struct {
	Depth int
	Debug int

	NoSort    bool
	NoTable   bool
	TableSize int

	Evaluate EvaluationFunc
}

// NewMinimax returns a searcher. A MinimaxAI keeps scratch state for
// the duration of one Analyze call and must not be shared between
// goroutines; nothing carries over from one call to the next.
func NewMinimax(cfg MinimaxConfig) *MinimaxAI {
	m := &MinimaxAI{cfg: cfg}
	if m.cfg.Depth <= 0 || m.cfg.Depth > maxDepth {
		m.cfg.Depth = maxDepth
	}
	if m.cfg.TableSize <= 0 {
		m.cfg.TableSize = defaultTableSize
	}
	m.evaluate = cfg.Evaluate
	if m.evaluate == nil {
		m.evaluate = DefaultEvaluate
	}
	return m
}

func (m *MinimaxAI) ttGet(h uint64) *tableEntry {
	if m.table == nil {
		return nil
	}
	te := &m.table[h%uint64(len(m.table))]
	if te.hash != h || te.m == nil {
		return nil
	}
	return te
}

func (m *MinimaxAI) ttPut(h uint64) *tableEntry {
	if m.table == nil || m.cancelled {
		return nil
	}
	return &m.table[h%uint64(len(m.table))]
}

// reset drops everything left over from a previous call.
func (m *MinimaxAI) reset(ctx context.Context, b *rivers.Board) {
	m.ctx = ctx
	m.nodes = 0
	m.cancelled = false
	m.table = nil
	if !m.cfg.NoTable {
		m.table = make([]tableEntry, m.cfg.TableSize)
	}
	cfg := *b.Config()
	for i := range m.stack {
		m.stack[i].b = rivers.Alloc(cfg)
		m.stack[i].scratch = rivers.Alloc(cfg)
		m.stack[i].m = nil
	}
}

// poll counts a node and reports whether the search has been cancelled.
// The context is only consulted every pollInterval nodes.
func (m *MinimaxAI) poll() bool {
	if m.cancelled {
		return true
	}
	m.nodes++
	if m.nodes%pollInterval == 0 {
		select {
		case <-m.ctx.Done():
			m.cancelled = true
		default:
		}
	}
	return m.cancelled
}

func formatpv(ms []rivers.Move) string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, m := range ms {
		if i != 0 {
			out.WriteString(" ")
		}
		out.WriteString(notation.FormatMove(m))
	}
	out.WriteString("]")
	return out.String()
}

func (m *MinimaxAI) GetMove(ctx context.Context, b *rivers.Board, p rivers.Player) (rivers.Move, bool) {
	ms, _, _ := m.Analyze(ctx, b, p)
	if len(ms) == 0 {
		return nil, false
	}
	return ms[0], true
}

// Analyze searches b for p and returns the principal variation of the
// deepest fully completed iteration, its value from p's point of view,
// and that iteration's statistics. If p has no legal move the variation
// is empty. If no iteration completes before ctx is done, the first
// legal move is returned with Stats.Depth == 0.
func (m *MinimaxAI) Analyze(ctx context.Context, b *rivers.Board, p rivers.Player) ([]rivers.Move, int64, Stats) {
	m.reset(ctx, b)
	m.st = Stats{}

	root := b.AllMoves(p, nil)
	if len(root) == 0 {
		return nil, m.evaluate(b, p), m.st
	}

	deadline, limited := ctx.Deadline()

	ms := []rivers.Move{root[0]}
	v := m.evaluate(b, p)
	var last Stats
	top := time.Now()
	var prevEval uint64
	var branchSum uint64

	// a context that is already done gets the first legal move
	for i := 1; i <= m.cfg.Depth && ctx.Err() == nil; i++ {
		m.st = Stats{Depth: i}
		start := time.Now()
		next, nv := m.root(b, p, root, i, ms)
		if next == nil || m.cancelled {
			if m.cfg.Debug > 0 {
				log.Info().Msgf("[minimax] interrupted: depth=%d elapsed=%s", i, time.Since(top))
			}
			break
		}
		ms = append(ms[:0:0], next...)
		v = nv
		last = m.st
		timeUsed := time.Since(top)
		timeMove := time.Since(start)
		if m.cfg.Debug > 0 {
			log.Info().Msgf("[minimax] deepen: depth=%d val=%d pv=%s time=%s total=%s evaluated=%d tt=%d branch=%d",
				i, v, formatpv(ms),
				timeMove,
				timeUsed,
				m.st.Evaluated,
				m.st.TTHits,
				m.st.Evaluated/(prevEval+1),
			)
		}
		if m.cfg.Debug > 1 {
			log.Info().Msgf("[minimax]  stats: visited=%d scout=%d evaluated=%d terminal=%d cut=%d cut0=%d(%2.2f) cut1=%d(%2.2f) m/cut=%2.2f all=%d research=%d",
				m.st.Visited,
				m.st.Scout,
				m.st.Evaluated,
				m.st.Terminal,
				m.st.CutNodes,
				m.st.Cut0,
				float64(m.st.Cut0)/float64(m.st.CutNodes+1),
				m.st.Cut1,
				float64(m.st.Cut0+m.st.Cut1)/float64(m.st.CutNodes+1),
				float64(m.st.CutSearch)/float64(m.st.CutNodes-m.st.Cut0-m.st.Cut1+1),
				m.st.AllNodes,
				m.st.ReSearch)
		}
		if i > 1 {
			branchSum += m.st.Evaluated / (prevEval + 1)
		}
		prevEval = m.st.Evaluated
		if v > WinThreshold || v < -WinThreshold {
			break
		}
		if limited && i != m.cfg.Depth {
			var branch uint64
			if i > 2 {
				// conservatively doubled; odd and even depths
				// differ a lot
				branch = 2 * branchSum / uint64(i-1)
			} else {
				branch = 20
			}
			estimate := time.Now().Add(timeMove * time.Duration(branch))
			if estimate.After(deadline) {
				if m.cfg.Debug > 0 {
					log.Info().Msgf("[minimax] time cutoff: depth=%d used=%s estimate=%s",
						i, timeUsed, estimate.Sub(top))
				}
				break
			}
		}
	}
	if last.Depth == 0 {
		last = m.st
		last.Depth = 0
		if m.cfg.Debug > 0 {
			log.Info().Msgf("[minimax] no depth completed; falling back to %s", notation.FormatMove(ms[0]))
		}
	}
	return ms, v, last
}

// root searches the root moves in generation order, so that among
// equally valued moves the first generated one is kept.
func (ai *MinimaxAI) root(b *rivers.Board, p rivers.Player, moves []rivers.Move, depth int, pv []rivers.Move) ([]rivers.Move, int64) {
	α, β := MinEval-1, MaxEval+1
	best := ai.stack[0].pv[:0]
	for i, m := range moves {
		child, _, err := b.ApplyPreallocated(p, m, ai.stack[0].b)
		if err != nil {
			panic(fmt.Sprintf("generated move %s does not apply: %v", m, err))
		}
		ai.st.Generated++
		ai.stack[0].m = m
		var newpv []rivers.Move
		if len(pv) > 1 && pv[0] == m {
			newpv = pv[1:]
		}
		var ms []rivers.Move
		var v int64
		if i > 0 {
			ms, v = ai.minimax(child, p.Opponent(), 1, depth-1, newpv, -α-1, -α)
			if -v > α && -v < β {
				ai.st.ReSearch++
				ms, v = ai.minimax(child, p.Opponent(), 1, depth-1, newpv, -β, -α)
			}
		} else {
			ms, v = ai.minimax(child, p.Opponent(), 1, depth-1, newpv, -β, -α)
		}
		if ai.cancelled {
			return nil, 0
		}
		v = -v
		if v > α {
			best = append(best[:0], m)
			best = append(best, ms...)
			α = v
		}
	}
	return best, α
}

// mateScore shortens wins and lengthens losses with distance from the
// root, so the search prefers the quickest win.
func mateScore(v int64, ply int) int64 {
	switch {
	case v > WinThreshold:
		return v - int64(ply)
	case v < -WinThreshold:
		return v + int64(ply)
	}
	return v
}

func (ai *MinimaxAI) minimax(
	b *rivers.Board,
	p rivers.Player,
	ply, depth int,
	pv []rivers.Move,
	α, β int64) ([]rivers.Move, int64) {
	if ai.poll() {
		return nil, 0
	}
	if over, _ := b.GameOver(); over {
		ai.st.Evaluated++
		ai.st.Terminal++
		return nil, mateScore(ai.evaluate(b, p), ply)
	}
	if depth == 0 {
		ai.st.Evaluated++
		return nil, ai.evaluate(b, p)
	}

	ai.st.Visited++
	if β == α+1 {
		ai.st.Scout++
	}

	h := b.HashFor(p)
	te := ai.ttGet(h)
	if te != nil && !b.CheckMove(p, te.m) {
		te = nil
	}
	if te != nil {
		teSuffices := false
		if te.depth >= depth {
			if te.bound == exactBound ||
				(te.value < α && te.bound == upperBound) ||
				(te.value > β && te.bound == lowerBound) {
				teSuffices = true
			}
		}

		if te.bound == exactBound &&
			(te.value > WinThreshold || te.value < -WinThreshold) {
			teSuffices = true
		}
		if teSuffices {
			ai.st.TTHits++
			ai.stack[ply].pv[0] = te.m
			return ai.stack[ply].pv[:1], te.value
		}
	}

	mg := &ai.stack[ply].mg
	*mg = moveGenerator{
		ai:    ai,
		ply:   ply,
		depth: depth,
		b:     b,
		p:     p,
		te:    te,
		pv:    pv,
	}

	best := ai.stack[ply].pv[:0]
	best = append(best, pv...)
	improved := false
	var i int
	for m, child := mg.Next(); child != nil; m, child = mg.Next() {
		i++
		ai.st.Generated++
		var ms []rivers.Move
		var newpv []rivers.Move
		var v int64
		if len(best) != 0 {
			newpv = best[1:]
		}
		ai.stack[ply].m = m
		if i > 1 {
			ms, v = ai.minimax(child, p.Opponent(), ply+1, depth-1, newpv, -α-1, -α)
			if -v > α && -v < β {
				ai.st.ReSearch++
				ms, v = ai.minimax(child, p.Opponent(), ply+1, depth-1, newpv, -β, -α)
			}
		} else {
			ms, v = ai.minimax(child, p.Opponent(), ply+1, depth-1, newpv, -β, -α)
		}
		if ai.cancelled {
			return nil, 0
		}
		v = -v

		if i == 1 {
			best = append(best[:0], m)
			best = append(best, ms...)
		}
		if v > α {
			improved = true
			best = append(best[:0], m)
			best = append(best, ms...)
			α = v
			if α >= β {
				ai.st.CutNodes++
				switch i {
				case 1:
					ai.st.Cut0++
				case 2:
					ai.st.Cut1++
				default:
					ai.st.CutSearch += uint64(i + 1)
				}
				if ai.cfg.Debug > 3 && i > 20 && depth >= 3 {
					log.Debug().Msgf("[minimax] late cutoff depth=%d m=%d pv=%s killer=%s board=%q",
						depth, i, formatpv(pv), notation.FormatMove(m), notation.FormatBoard(b))
				}
				break
			}
		}
	}

	if i == 0 {
		// no legal move: the position is scored as it stands
		ai.st.Evaluated++
		return nil, ai.evaluate(b, p)
	}

	if te = ai.ttPut(h); te != nil {
		te.hash = h
		te.depth = depth
		te.m = best[0]
		te.value = α
		if !improved {
			te.bound = upperBound
			ai.st.AllNodes++
		} else if α >= β {
			te.bound = lowerBound
		} else {
			te.bound = exactBound
		}
	}

	return best, α
}
