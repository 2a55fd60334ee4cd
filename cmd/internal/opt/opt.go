package opt

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/riverbot/agent"
	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// Board selects the board geometry.
type Board struct {
	Rows int
	Cols int
}

func (o *Board) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Rows, "rows", 13, "board rows")
	flags.IntVar(&o.Cols, "cols", 12, "board columns")
}

func (o *Board) Config() (rivers.Config, error) {
	cfg := rivers.DefaultConfig(o.Rows, o.Cols)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("-rows/-cols: %w", err)
	}
	return cfg, nil
}

type Minimax struct {
	Debug     int
	Depth     int
	Sort      bool
	Table     bool
	TableSize int
	Weights   string
	Book      bool
}

func (o *Minimax) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Debug, "debug", 1, "debug level")
	flags.IntVar(&o.Depth, "depth", 0, "minimax depth (0 searches until the deadline)")
	flags.BoolVar(&o.Sort, "sort", true, "sort moves by static evaluation")
	flags.BoolVar(&o.Table, "table", true, "use the transposition table")
	flags.IntVar(&o.TableSize, "table-size", 0, "transposition table entries")
	flags.StringVar(&o.Weights, "weights", "", "JSON-encoded evaluation weights")
	flags.BoolVar(&o.Book, "book", false, "play from the built-in opening book")
}

func (o *Minimax) ParseWeights() (*ai.Weights, error) {
	return ai.ParseWeights(o.Weights)
}

func (o *Minimax) BuildConfig() (ai.MinimaxConfig, error) {
	w, err := o.ParseWeights()
	if err != nil {
		return ai.MinimaxConfig{}, err
	}
	return ai.MinimaxConfig{
		Depth:     o.Depth,
		Debug:     o.Debug,
		NoSort:    !o.Sort,
		NoTable:   !o.Table,
		TableSize: o.TableSize,
		Evaluate:  ai.MakeEvaluator(w),
	}, nil
}

// AgentOptions translates the flags into agent options. The book is
// only built when -book is set.
func (o *Minimax) AgentOptions(cfg rivers.Config) ([]agent.Option, error) {
	w, err := o.ParseWeights()
	if err != nil {
		return nil, err
	}
	opts := []agent.Option{
		agent.WithWeights(w),
		agent.WithDepth(o.Depth),
		agent.WithNoSort(!o.Sort),
		agent.WithDebug(o.Debug),
	}
	if o.TableSize > 0 {
		opts = append(opts, agent.WithTableSize(o.TableSize))
	}
	if o.Book {
		book, err := ai.BuildOpeningBook(cfg, rivers.Circle, ai.DefaultOpenings)
		if err != nil {
			return nil, fmt.Errorf("opening book: %w", err)
		}
		opts = append(opts, agent.WithBook(book))
	}
	return opts, nil
}

// SetupLogging points the global logger at a console writer on stderr.
// Levels above 1 enable debug output.
func SetupLogging(debug int) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch {
	case debug <= 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case debug == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// ReadBoard parses a board argument: "-" for the 13x12 start position,
// "@FILE" for a file holding board notation, or the notation itself.
func ReadBoard(arg string) (*rivers.Board, error) {
	switch {
	case arg == "-":
		return rivers.StartPosition(rivers.DefaultConfig(13, 12)), nil
	case strings.HasPrefix(arg, "@"):
		bs, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, err
		}
		return notation.ParseBoard(strings.TrimSpace(string(bs)))
	}
	return notation.ParseBoard(arg)
}
