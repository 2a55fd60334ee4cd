package rei

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/riverbot/cmd/internal/opt"
	"github.com/nelhage/riverbot/rei"
)

type Command struct {
	opt opt.Minimax
}

func (*Command) Name() string     { return "rei" }
func (*Command) Synopsis() string { return "Launch riverbot as a line-protocol engine" }
func (*Command) Usage() string {
	return `rei

Launch the engine in REI mode, a UCI-like protocol on stdin/stdout
suitable for being driven by an external controller or by
"selfplay -p1 rei:...".
`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// stdout carries the protocol
	opt.SetupLogging(c.opt.Debug)
	engine := rei.NewEngine(os.Stdin, os.Stdout)
	engine.ConfigFactory = c.opt.BuildConfig
	if err := engine.Run(ctx); err != nil {
		log.Error().Err(err).Msg("rei")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
