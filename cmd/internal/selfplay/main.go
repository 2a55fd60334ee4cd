package selfplay

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/riverbot/cmd/internal/opt"
	"github.com/nelhage/riverbot/logs"
)

type Command struct {
	p1   string
	p2   string
	seed uint64

	games   int
	cutoff  int
	swap    bool
	threads int

	clock   time.Duration
	noise   float64
	perturb float64

	db      string
	summary string
	verbose bool

	board opt.Board
	mmopt opt.Minimax
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two AIs against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]

Players are "rand", "minimax[:DEPTH]" or "rei:COMMAND ARGS...".
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.p1, "p1", "minimax:3", "player 1")
	flags.StringVar(&c.p2, "p2", "rand", "player 2")

	flags.Uint64Var(&c.seed, "seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play per color")
	flags.IntVar(&c.cutoff, "cutoff", 200, "cut games off after how many plies")
	flags.BoolVar(&c.swap, "swap", true, "swap colors each game")
	flags.IntVar(&c.threads, "threads", 4, "number of parallel threads")

	flags.DurationVar(&c.clock, "clock", 30*time.Second, "remaining time reported to each AI per move")
	flags.Float64Var(&c.noise, "noise", 0, "probability of replacing a move with a random one")
	flags.Float64Var(&c.perturb, "perturb", 0, "perturb minimax weights by N(0, p) per game")

	flags.StringVar(&c.db, "db", "", "record games to this sqlite database")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")

	c.board.AddFlags(flags)
	c.mmopt.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opt.SetupLogging(c.mmopt.Debug)
	if c.seed == 0 {
		c.seed = uint64(time.Now().Unix())
	}
	board, err := c.board.Config()
	if err != nil {
		log.Error().Err(err).Msg("bad board")
		return subcommands.ExitUsageError
	}
	cfg := &Config{
		Games:   c.games,
		Threads: c.threads,
		Seed:    c.seed,
		Verbose: c.verbose,
		Board:   board,
		Cutoff:  c.cutoff,
		Swap:    c.swap,
		Noise:   c.noise,
	}
	if cfg.P1, err = buildFactory(c.p1, c.mmopt, board, c.clock, c.perturb); err != nil {
		log.Error().Err(err).Msg("-p1")
		return subcommands.ExitUsageError
	}
	if cfg.P2, err = buildFactory(c.p2, c.mmopt, board, c.clock, c.perturb); err != nil {
		log.Error().Err(err).Msg("-p2")
		return subcommands.ExitUsageError
	}

	st, err := Simulate(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("simulate")
		return subcommands.ExitFailure
	}

	if c.db != "" {
		if err := recordGames(c.db, &st); err != nil {
			log.Error().Err(err).Str("db", c.db).Msg("record games")
			return subcommands.ExitFailure
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Error().Err(err).Msg("writing summary")
		}
	}

	log.Info().
		Int("games", len(st.Games)).
		Uint64("seed", c.seed).
		Int("ties", st.Ties).
		Int("cutoff", st.Cutoff).
		Int("circle", st.Circle).
		Int("square", st.Square).
		Msg("done")
	log.Info().Msgf("p1.wins=%d (%d zone) p2.wins=%d (%d zone)",
		st.Players[0].Wins, st.Players[0].ZoneWins,
		st.Players[1].Wins, st.Players[1].ZoneWins)
	tw := tabwriter.NewWriter(os.Stderr, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\tcircle\tsquare\tsum\n")
	fmt.Fprintf(tw, "p1\t%d\t%d\t%d\n", st.Players[0].CircleWins, st.Players[0].SquareWins, st.Players[0].Wins)
	fmt.Fprintf(tw, "p2\t%d\t%d\t%d\n", st.Players[1].CircleWins, st.Players[1].SquareWins, st.Players[1].Wins)
	fmt.Fprintf(tw, "sum\t%d\t%d\t%d\n",
		st.Players[0].CircleWins+st.Players[1].CircleWins,
		st.Players[0].SquareWins+st.Players[1].SquareWins,
		st.Players[0].Wins+st.Players[1].Wins,
	)
	tw.Flush()

	a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
	if a < b {
		a, b = b, a
	}
	log.Info().Msgf("p[one-sided]=%f", binomTest(a, b, 0.5))

	return subcommands.ExitSuccess
}

func recordGames(path string, st *Stats) error {
	repo, err := logs.Open(path)
	if err != nil {
		return err
	}
	defer repo.Close()
	now := time.Now()
	gs := make([]*logs.Game, 0, len(st.Games))
	for i := range st.Games {
		r := &st.Games[i]
		gs = append(gs, &logs.Game{
			Timestamp:    now,
			Rows:         r.Final.Rows(),
			Cols:         r.Final.Cols(),
			Circle:       r.Circle,
			Square:       r.Square,
			Winner:       r.Winner.String(),
			Reason:       string(r.Reason),
			Plies:        r.Plies,
			CircleScored: r.CircleScored,
			SquareScored: r.SquareScored,
		})
	}
	if err := repo.InsertGames(gs); err != nil {
		return err
	}
	sum, err := repo.Summary()
	if err != nil {
		return err
	}
	for _, s := range sum {
		log.Info().
			Str("player", s.Player).
			Int("games", s.Games).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("ties", s.Ties).
			Float64("avg_plies", s.AvgPlies).
			Msg("recorded")
	}
	return nil
}

type Summary struct {
	Cmdline []string
	Player1 string
	Player2 string
	Seed    uint64
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	summary := Summary{
		Cmdline: os.Args,
		Player1: c.p1,
		Player2: c.p2,
		Seed:    c.seed,
		Stats:   stats,
	}
	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}
