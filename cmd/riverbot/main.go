package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/nelhage/riverbot/cmd/internal/analyze"
	"github.com/nelhage/riverbot/cmd/internal/explain"
	"github.com/nelhage/riverbot/cmd/internal/play"
	"github.com/nelhage/riverbot/cmd/internal/rei"
	"github.com/nelhage/riverbot/cmd/internal/selfplay"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&play.Command{}, "")
	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&explain.Command{}, "")
	subcommands.Register(&selfplay.Command{}, "")
	subcommands.Register(&rei.Command{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
