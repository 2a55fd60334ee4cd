package selfplay

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/agent"
	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/cli"
	"github.com/nelhage/riverbot/cmd/internal/opt"
	"github.com/nelhage/riverbot/rei"
	"github.com/nelhage/riverbot/rivers"
)

// Factory builds a fresh player for each game.
type Factory interface {
	Player(side rivers.Player, r *rand.Rand) (cli.Player, error)
	String() string
}

type randomFactory struct{}

func (randomFactory) Player(side rivers.Player, r *rand.Rand) (cli.Player, error) {
	return ai.NewRandom(r.Uint64()), nil
}

func (randomFactory) String() string { return "random" }

type minimaxFactory struct {
	mm      opt.Minimax
	board   rivers.Config
	clock   time.Duration
	perturb float64
}

func (m *minimaxFactory) Player(side rivers.Player, r *rand.Rand) (cli.Player, error) {
	opts, err := m.mm.AgentOptions(m.board)
	if err != nil {
		return nil, err
	}
	if m.perturb > 0 {
		w, err := m.mm.ParseWeights()
		if err != nil {
			return nil, err
		}
		opts = append(opts, agent.WithWeights(perturbWeights(r, m.perturb, w)))
	}
	a, err := agent.New(side, opts...)
	if err != nil {
		return nil, err
	}
	return &cli.AgentPlayer{Agent: a, Clock: m.clock}, nil
}

func (m *minimaxFactory) String() string {
	return fmt.Sprintf("minimax@%d", m.mm.Depth)
}

// reiFactory runs an external engine per game.
type reiFactory struct {
	cmdline []string
	board   rivers.Config
}

type reiPlayer struct {
	ai.RiversPlayer
	client *rei.Client
}

func (p *reiPlayer) Close() error {
	return p.client.Close()
}

func (f *reiFactory) Player(side rivers.Player, r *rand.Rand) (cli.Player, error) {
	cl, err := rei.NewClient(f.cmdline)
	if err != nil {
		return nil, fmt.Errorf("starting engine %v: %w", f.cmdline, err)
	}
	p, err := cl.NewGame(f.board)
	if err != nil {
		cl.Close()
		return nil, err
	}
	return &reiPlayer{RiversPlayer: p, client: cl}, nil
}

func (f *reiFactory) String() string {
	return strings.Join(f.cmdline, " ")
}

// buildFactory parses "rand", "minimax[:DEPTH]" or "rei:COMMAND ARGS...".
func buildFactory(spec string, mm opt.Minimax, board rivers.Config, clock time.Duration, perturb float64) (Factory, error) {
	name, arg, _ := strings.Cut(spec, ":")
	switch name {
	case "rand", "random":
		return randomFactory{}, nil
	case "rei":
		cmdline := strings.Fields(arg)
		if len(cmdline) == 0 {
			return nil, fmt.Errorf("rei: missing engine command")
		}
		return &reiFactory{cmdline: cmdline, board: board}, nil
	case "minimax":
		if arg != "" {
			d, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("minimax depth: %w", err)
			}
			mm.Depth = d
		}
		return &minimaxFactory{mm: mm, board: board, clock: clock, perturb: perturb}, nil
	}
	return nil, fmt.Errorf("unknown engine: %q", spec)
}

// perturbWeights scales each weight by 1+N(0,p).
func perturbWeights(r *rand.Rand, p float64, w *ai.Weights) *ai.Weights {
	out := *w
	for f := range out {
		adj := r.NormFloat64() * p
		out[f] = int64(float64(out[f]) * (1 + adj))
	}
	return &out
}

type noisyPlayer struct {
	inner cli.Player
	noise float64
	r     *rand.Rand
}

func (n *noisyPlayer) GetMove(ctx context.Context, b *rivers.Board, p rivers.Player) (rivers.Move, bool) {
	if n.r.Float64() < n.noise {
		if moves := b.AllMoves(p, nil); len(moves) > 0 {
			return moves[n.r.Intn(len(moves))], true
		}
	}
	return n.inner.GetMove(ctx, b, p)
}

func perturb(p cli.Player, noise float64, r *rand.Rand) cli.Player {
	if noise <= 0 {
		return p
	}
	return &noisyPlayer{inner: p, noise: noise, r: r}
}
