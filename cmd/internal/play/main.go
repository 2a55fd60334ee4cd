package play

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/riverbot/agent"
	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/cli"
	"github.com/nelhage/riverbot/cmd/internal/opt"
	"github.com/nelhage/riverbot/rivers"
)

type Command struct {
	circle string
	square string
	first  string
	clock  time.Duration
	cutoff int

	unicode bool

	board opt.Board
	mmopt opt.Minimax
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play Stones & Rivers from the command line" }
func (*Command) Usage() string {
	return `play [flags]

Play on the command-line, against a human or AI. Players are one of
"human", "rand[:SEED]" or "minimax[:DEPTH]".
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.circle, "circle", "human", "circle player")
	flags.StringVar(&c.square, "square", "minimax", "square player")
	flags.StringVar(&c.first, "first", "circle", "side to move first")
	flags.DurationVar(&c.clock, "clock", 2*time.Minute, "remaining time reported to AI players each move")
	flags.IntVar(&c.cutoff, "cutoff", 0, "end the game after this many plies")
	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")

	c.board.AddFlags(flags)
	c.mmopt.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opt.SetupLogging(c.mmopt.Debug)
	cfg, err := c.board.Config()
	if err != nil {
		log.Error().Err(err).Msg("bad board")
		return subcommands.ExitUsageError
	}
	first, err := rivers.ParsePlayer(c.first)
	if err != nil {
		log.Error().Err(err).Msg("-first")
		return subcommands.ExitUsageError
	}

	in := bufio.NewReader(os.Stdin)
	players := make(map[rivers.Player]cli.Player, 2)
	for p, spec := range map[rivers.Player]string{rivers.Circle: c.circle, rivers.Square: c.square} {
		pl, err := c.parsePlayer(in, cfg, p, spec)
		if err != nil {
			log.Error().Err(err).Str("player", p.String()).Msg("bad player")
			return subcommands.ExitUsageError
		}
		players[p] = pl
	}

	st := &cli.CLI{
		Config: cfg,
		First:  first,
		Limit:  c.cutoff,
		Out:    os.Stdout,
		Circle: players[rivers.Circle],
		Square: players[rivers.Square],
		Glyphs: glyphs(c.unicode),
	}
	_, res := st.Play(ctx)
	log.Info().
		Str("winner", res.Winner.String()).
		Str("reason", string(res.Reason)).
		Int("plies", res.Plies).
		Msg("game over")

	return subcommands.ExitSuccess
}

func glyphs(unicode bool) *cli.Glyphs {
	if unicode {
		return &cli.UnicodeGlyphs
	}
	return &cli.DefaultGlyphs
}

func (c *Command) parsePlayer(in *bufio.Reader, cfg rivers.Config, p rivers.Player, s string) (cli.Player, error) {
	name, arg, _ := strings.Cut(s, ":")
	switch name {
	case "human":
		return cli.NewCLIPlayer(os.Stdout, in), nil
	case "rand":
		var seed uint64
		if arg != "" {
			i, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return nil, err
			}
			seed = i
		}
		return ai.NewRandom(seed), nil
	case "minimax":
		mm := c.mmopt
		if arg != "" {
			d, err := strconv.Atoi(arg)
			if err != nil {
				return nil, err
			}
			mm.Depth = d
		}
		opts, err := mm.AgentOptions(cfg)
		if err != nil {
			return nil, err
		}
		a, err := agent.New(p, opts...)
		if err != nil {
			return nil, err
		}
		return &cli.AgentPlayer{Agent: a, Clock: c.clock}, nil
	}
	return nil, fmt.Errorf("unparseable player: %q", s)
}
