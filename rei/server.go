package rei

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// Engine speaks a UCI-like line protocol on in/out:
//
//	rei                               -> id ... / reiok
//	isready                           -> readyok
//	newgame [ROWS COLS]
//	position startpos [moves M...]
//	position board BOARD PLAYER [moves M...]
//	go [movetime MS] [time SELF OPP]  -> info ... / bestmove M|none
//	quit
type Engine struct {
	ConfigFactory func() (ai.MinimaxConfig, error)

	in  *bufio.Reader
	out io.Writer

	cfg    rivers.Config
	b      *rivers.Board
	toMove rivers.Player
}

func NewEngine(in io.Reader, out io.Writer) *Engine {
	return &Engine{
		in:  bufio.NewReader(in),
		out: out,
		cfg: rivers.DefaultConfig(13, 12),
	}
}

func (e *Engine) Run(ctx context.Context) error {
	for {
		line, err := e.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "rei":
			fmt.Fprintln(e.out, "id name riverbot")
			fmt.Fprintln(e.out, "reiok")
		case "quit":
			return nil
		case "newgame":
			if err := e.newGame(words[1:]); err != nil {
				return err
			}
		case "position":
			e.b, e.toMove, err = parsePosition(e.cfg, words[1:])
			if err != nil {
				return fmt.Errorf("position: %w", err)
			}
		case "go":
			if err := e.analyze(ctx, words[1:]); err != nil {
				log.Error().Err(err).Msg("go")
				fmt.Fprintln(e.out, "bestmove none")
			}
		case "stop":
		case "isready":
			fmt.Fprintln(e.out, "readyok")
		default:
			return fmt.Errorf("unknown command: %q", strings.TrimSpace(line))
		}
	}
}

func (e *Engine) newGame(args []string) error {
	e.b = nil
	e.toMove = rivers.NoPlayer
	rows, cols := 13, 12
	if len(args) != 0 {
		if len(args) != 2 {
			return errors.New("newgame: expected ROWS COLS")
		}
		var err1, err2 error
		rows, err1 = strconv.Atoi(args[0])
		cols, err2 = strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("newgame: bad size %q %q", args[0], args[1])
		}
	}
	cfg := rivers.DefaultConfig(rows, cols)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("newgame: %w", err)
	}
	e.cfg = cfg
	return nil
}

func parsePosition(cfg rivers.Config, words []string) (*rivers.Board, rivers.Player, error) {
	if len(words) == 0 {
		return nil, rivers.NoPlayer, errors.New("not enough arguments")
	}
	var b *rivers.Board
	p := rivers.Circle
	switch words[0] {
	case "startpos":
		b = rivers.StartPosition(cfg)
		words = words[1:]
	case "board":
		if len(words) < 3 {
			return nil, rivers.NoPlayer, errors.New("board: expected BOARD PLAYER")
		}
		var err error
		b, err = notation.ParseBoardConfig(cfg, words[1])
		if err != nil {
			return nil, rivers.NoPlayer, err
		}
		if p, err = rivers.ParsePlayer(words[2]); err != nil {
			return nil, rivers.NoPlayer, err
		}
		words = words[3:]
	default:
		return nil, rivers.NoPlayer, fmt.Errorf("unknown initial position: %q", words[0])
	}
	if len(words) == 0 {
		return b, p, nil
	}
	if words[0] != "moves" {
		return nil, rivers.NoPlayer, errors.New("expected `moves'")
	}
	for _, w := range words[1:] {
		m, err := notation.ParseMove(w)
		if err != nil {
			return nil, rivers.NoPlayer, err
		}
		if err := b.Validate(p, m); err != nil {
			return nil, rivers.NoPlayer, fmt.Errorf("move %q: %w", w, err)
		}
		b = b.MustApply(p, m)
		p = p.Opponent()
	}
	return b, p, nil
}

func parseGo(words []string) (time.Duration, error) {
	var budget time.Duration
	for len(words) > 0 {
		switch words[0] {
		case "movetime":
			if len(words) < 2 {
				return 0, errors.New("expected movetime MS")
			}
			ms, err := strconv.ParseUint(words[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("bad ms: %v", words[1])
			}
			budget = time.Duration(ms) * time.Millisecond
			words = words[2:]
		case "time":
			if len(words) < 3 {
				return 0, errors.New("expected time SELF OPP")
			}
			self, err := parseMS(words[1])
			if err != nil {
				return 0, err
			}
			opp, err := parseMS(words[2])
			if err != nil {
				return 0, err
			}
			budget = ai.TimeBudget(self, opp)
			words = words[3:]
		default:
			return 0, fmt.Errorf("unknown go argument: %q", words[0])
		}
	}
	return budget, nil
}

func (e *Engine) analyze(ctx context.Context, words []string) error {
	if e.b == nil {
		return errors.New("no position provided")
	}
	budget, err := parseGo(words)
	if err != nil {
		return err
	}
	cfg := ai.MinimaxConfig{}
	if e.ConfigFactory != nil {
		if cfg, err = e.ConfigFactory(); err != nil {
			return err
		}
	}
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	start := time.Now()
	pv, val, stats := ai.NewMinimax(cfg).Analyze(ctx, e.b, e.toMove)
	if len(pv) == 0 {
		fmt.Fprintln(e.out, "bestmove none")
		return nil
	}
	fmt.Fprintf(e.out, "info depth %d time %d nodes %d score %d pv %s\n",
		stats.Depth,
		time.Since(start)/time.Millisecond,
		stats.Visited,
		val,
		notation.FormatMoves(pv),
	)
	fmt.Fprintf(e.out, "bestmove %s\n", notation.FormatMove(pv[0]))
	return nil
}
