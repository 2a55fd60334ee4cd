package analyze

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/cli"
	"github.com/nelhage/riverbot/cmd/internal/opt"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

type Command struct {
	quiet      bool
	cpuProfile string

	player    string
	variation string
	moves     bool

	timeLimit time.Duration
	eval      bool
	explain   bool
	mmopt     opt.Minimax
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Search a position and print the principal variation" }
func (*Command) Usage() string {
	return `analyze [options] BOARD

Search a position given in board notation (rows separated by '/',
e.g. "x12/x12/...") or "-" for the start position, or "@FILE" to read
it from a file.

Use -variation to play additional moves prior to analysis.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")
	flags.StringVar(&c.cpuProfile, "cpuprofile", "", "write CPU profile")

	flags.StringVar(&c.player, "player", "circle", "side to move")
	flags.StringVar(&c.variation, "variation", "", "apply the listed moves, alternating sides, before analysis")
	flags.BoolVar(&c.moves, "moves", false, "list the legal moves")

	flags.DurationVar(&c.timeLimit, "limit", 10*time.Second, "limit of how much time to use")
	flags.BoolVar(&c.eval, "evaluate", false, "only show static evaluation")
	flags.BoolVar(&c.explain, "explain", false, "explain scoring")

	c.mmopt.AddFlags(flags)
}

func applyVariation(b *rivers.Board, p rivers.Player, variant string) (*rivers.Board, rivers.Player, error) {
	ms, err := notation.ParseMoves(variant)
	if err != nil {
		return nil, p, err
	}
	for _, m := range ms {
		if err := b.Validate(p, m); err != nil {
			return nil, p, fmt.Errorf("bad move `%s': %w", notation.FormatMove(m), err)
		}
		b = b.MustApply(p, m)
		p = p.Opponent()
	}
	return b, p, nil
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opt.SetupLogging(c.mmopt.Debug)
	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	b, err := opt.ReadBoard(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("parse board")
		return subcommands.ExitUsageError
	}
	p, err := rivers.ParsePlayer(c.player)
	if err != nil {
		log.Error().Err(err).Msg("-player")
		return subcommands.ExitUsageError
	}
	if c.variation != "" {
		b, p, err = applyVariation(b, p, c.variation)
		if err != nil {
			log.Error().Err(err).Msg("-variation")
			return subcommands.ExitUsageError
		}
	}

	if c.cpuProfile != "" {
		f, err := os.OpenFile(c.cpuProfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("path", c.cpuProfile).Msg("open cpu-profile")
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	cfg, err := c.mmopt.BuildConfig()
	if err != nil {
		log.Error().Err(err).Msg("-weights")
		return subcommands.ExitUsageError
	}
	if c.timeLimit != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, c.timeLimit)
		defer cancel()
	}
	c.analyze(ctx, cfg, b, p)
	return subcommands.ExitSuccess
}

func (c *Command) show(b *rivers.Board, p rivers.Player) {
	if c.quiet {
		return
	}
	cli.RenderBoard(nil, os.Stdout, b, p)
	if c.explain {
		w, _ := c.mmopt.ParseWeights()
		ai.ExplainScore(w, os.Stdout, b)
	}
}

func (c *Command) analyze(ctx context.Context, cfg ai.MinimaxConfig, b *rivers.Board, p rivers.Player) {
	c.show(b, p)
	if c.moves {
		fmt.Printf("moves: %s\n", notation.FormatMoves(b.AllMoves(p, nil)))
	}
	if c.eval {
		fmt.Printf(" Val=%d\n", cfg.Evaluate(b, p))
		return
	}

	search := ai.NewMinimax(cfg)
	pv, val, st := search.Analyze(ctx, b, p)
	fmt.Printf("AI analysis:\n")
	fmt.Printf(" pv=%s\n", notation.FormatMoves(pv))
	// node counts get large; group the digits
	pr := message.NewPrinter(language.English)
	pr.Printf(" value=%d depth=%d evaluated=%d visited=%d tt-hits=%d\n",
		val, st.Depth, st.Evaluated, st.Visited, st.TTHits)
	fmt.Printf(" board=%q\n", notation.FormatBoard(b))
	fmt.Println()

	if len(pv) == 0 || c.quiet {
		return
	}
	for _, m := range pv {
		if err := b.Validate(p, m); err != nil {
			log.Error().Err(err).Str("move", notation.FormatMove(m)).Msg("illegal move in pv")
			if val < ai.WinThreshold && val > -ai.WinThreshold {
				log.Fatal().Msg("illegal move in non-terminal pv!")
			}
			return
		}
		b = b.MustApply(p, m)
		p = p.Opponent()
	}
	fmt.Println("Resulting position:")
	c.show(b, p)
	fmt.Println()
}
