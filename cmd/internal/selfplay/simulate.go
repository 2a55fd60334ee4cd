package selfplay

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/nelhage/riverbot/cli"
	"github.com/nelhage/riverbot/rivers"
)

type Config struct {
	Games   int
	Threads int
	Seed    uint64

	Verbose bool

	Board  rivers.Config
	Cutoff int
	Swap   bool

	P1, P2 Factory

	// Noise is the chance that a player's move is replaced by a random
	// legal one.
	Noise float64
}

type Stats struct {
	Players [2]struct {
		Wins       int
		CircleWins int
		SquareWins int
		ZoneWins   int
	}
	Circle, Square int
	Ties           int
	Cutoff         int

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.Circle + s.Square + s.Ties
}

type gameSpec struct {
	i        int
	r        *rand.Rand
	p1Circle bool
}

type Result struct {
	spec   gameSpec
	Circle string
	Square string
	Moves  []rivers.Move
	Final  *rivers.Board
	cli.Result
}

// P1Side is the side player one took in this game.
func (r *Result) P1Side() rivers.Player {
	if r.spec.p1Circle {
		return rivers.Circle
	}
	return rivers.Square
}

// Simulate plays c.Games games (twice as many with Swap) across
// c.Threads workers and tallies the results. It stops at the first
// worker error or when ctx is done.
func Simulate(ctx context.Context, c *Config) (Stats, error) {
	var st Stats
	specs := make(chan gameSpec)
	results := make(chan Result)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(specs)
		r := rand.New(rand.NewSource(c.Seed))
		n := c.Games
		if c.Swap {
			n *= 2
		}
		for i := 0; i < n; i++ {
			spec := gameSpec{
				i:        i,
				p1Circle: i%2 == 0 || !c.Swap,
				r:        rand.New(rand.NewSource(r.Uint64())),
			}
			select {
			case specs <- spec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	threads := c.Threads
	if threads <= 0 {
		threads = 1
	}
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			return worker(ctx, c, specs, results)
		})
	}
	errc := make(chan error, 1)
	go func() {
		errc <- g.Wait()
		close(results)
	}()

	for r := range results {
		st.add(c, &r)
	}
	return st, <-errc
}

func (st *Stats) add(c *Config, r *Result) {
	if c.Verbose {
		log.Info().
			Int("game", r.spec.i).
			Str("p1", r.P1Side().String()).
			Str("winner", r.Winner.String()).
			Str("reason", string(r.Reason)).
			Int("plies", r.Plies).
			Int("cs", r.CircleScored).
			Int("ss", r.SquareScored).
			Msg("game")
	}
	if r.Reason == cli.PlyLimit {
		st.Cutoff++
	}
	switch r.Winner {
	case rivers.Circle:
		st.Circle++
	case rivers.Square:
		st.Square++
	default:
		st.Ties++
	}
	if r.Winner != rivers.NoPlayer {
		pst := &st.Players[0]
		if r.Winner != r.P1Side() {
			pst = &st.Players[1]
		}
		pst.Wins++
		if r.Winner == rivers.Circle {
			pst.CircleWins++
		} else {
			pst.SquareWins++
		}
		if r.Reason == cli.ZoneFilled {
			pst.ZoneWins++
		}
	}
	st.Games = append(st.Games, *r)
}

func worker(ctx context.Context, c *Config, specs <-chan gameSpec, out chan<- Result) error {
	for spec := range specs {
		cf, sf := c.P1, c.P2
		if !spec.p1Circle {
			cf, sf = sf, cf
		}
		circle, err := cf.Player(rivers.Circle, spec.r)
		if err != nil {
			return err
		}
		square, err := sf.Player(rivers.Square, spec.r)
		if err != nil {
			return err
		}
		game := &cli.CLI{
			Config: c.Board,
			Limit:  c.Cutoff,
			Out:    io.Discard,
			Circle: perturb(circle, c.Noise, spec.r),
			Square: perturb(square, c.Noise, spec.r),
		}
		start := time.Now()
		final, res := game.Play(ctx)
		closePlayers(circle, square)
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug().Int("game", spec.i).Dur("elapsed", time.Since(start)).Msg("finished")
		select {
		case out <- Result{
			spec:   spec,
			Circle: cf.String(),
			Square: sf.String(),
			Moves:  game.Moves(),
			Final:  final,
			Result: res,
		}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func closePlayers(ps ...cli.Player) {
	for _, p := range ps {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("close player")
			}
		}
	}
}
