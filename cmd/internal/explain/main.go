package explain

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/riverbot/agent"
	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/cli"
	"github.com/nelhage/riverbot/cmd/internal/opt"
	"github.com/nelhage/riverbot/rivers"
)

type Command struct {
	weights string
	unicode bool
}

func (*Command) Name() string     { return "explain" }
func (*Command) Synopsis() string { return "Break down the static evaluation of a position" }
func (*Command) Usage() string {
	return `explain [options] BOARD

Print each evaluation feature for both sides. BOARD is as for analyze.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.weights, "weights", "", "JSON-encoded evaluation weights")
	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opt.SetupLogging(1)
	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	b, err := opt.ReadBoard(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("parse board")
		return subcommands.ExitUsageError
	}
	w, err := ai.ParseWeights(c.weights)
	if err != nil {
		log.Error().Err(err).Msg("-weights")
		return subcommands.ExitUsageError
	}

	g := &cli.DefaultGlyphs
	if c.unicode {
		g = &cli.UnicodeGlyphs
	}
	cli.RenderBoard(g, os.Stdout, b, rivers.Circle)
	ai.ExplainScore(w, os.Stdout, b)

	cells := make([][]rivers.Piece, b.Rows())
	for y := range cells {
		cells[y] = make([]rivers.Piece, b.Cols())
		for x := range cells[y] {
			cells[y][x] = b.At(x, y)
		}
	}
	for _, p := range []rivers.Player{rivers.Circle, rivers.Square} {
		a, err := agent.New(p, agent.WithWeights(w))
		if err != nil {
			log.Fatal().Err(err).Msg("agent")
		}
		fmt.Printf("%s: eval=%.0f moves=%d\n",
			p, a.EvaluateBoard(cells, *b.Config()), len(a.GenerateMoves(cells, *b.Config())))
	}
	return subcommands.ExitSuccess
}
