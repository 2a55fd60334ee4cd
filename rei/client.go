package rei

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/nelhage/riverbot/ai"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

// Client drives an engine speaking the protocol served by Engine,
// either a subprocess or any reader/writer pair.
type Client struct {
	cmd *exec.Cmd

	closers []io.Closer

	read  *bufio.Reader
	write io.Writer

	gameid int
}

// NewClient starts cmdline and performs the handshake.
func NewClient(cmdline []string) (*Client, error) {
	if len(cmdline) == 0 {
		return nil, fmt.Errorf("empty engine command")
	}
	path, err := exec.LookPath(cmdline[0])
	if err != nil {
		return nil, err
	}
	cmd := &exec.Cmd{Path: path, Args: cmdline}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, err
	}
	cl, err := Connect(stdout, stdin)
	if cl != nil {
		cl.cmd = cmd
		cl.closers = []io.Closer{stdin, stdout}
	}
	if err != nil {
		cl.Close()
		return nil, err
	}
	return cl, nil
}

// Connect performs the handshake over an existing connection.
func Connect(r io.Reader, w io.Writer) (*Client, error) {
	cl := &Client{
		read:  bufio.NewReader(r),
		write: w,
	}
	if _, err := cl.sendCommand("rei", "reiok"); err != nil {
		return cl, err
	}
	return cl, nil
}

// NewGame starts a game on cfg. Players from earlier games stop working.
func (c *Client) NewGame(cfg rivers.Config) (ai.RiversPlayer, error) {
	c.gameid++
	if _, err := c.sendCommand(fmt.Sprintf("newgame %d %d", cfg.Rows, cfg.Cols), ""); err != nil {
		return nil, err
	}
	return &player{client: c, gameid: c.gameid}, nil
}

func (c *Client) Close() error {
	if c.write != nil {
		c.sendCommand("quit", "")
	}
	for _, cl := range c.closers {
		cl.Close()
	}
	if c.cmd != nil {
		return c.cmd.Wait()
	}
	return nil
}

func (c *Client) sendCommand(cmd string, expect string) ([]string, error) {
	if _, err := fmt.Fprintln(c.write, cmd); err != nil {
		return nil, err
	}
	if expect == "" {
		return nil, nil
	}
	for {
		line, err := c.read.ReadString('\n')
		if err != nil {
			return nil, err
		}
		words := strings.Fields(line)
		if len(words) > 0 && words[0] == expect {
			return words, nil
		}
	}
}

type player struct {
	client *Client
	gameid int
}

func (p *player) GetMove(ctx context.Context, b *rivers.Board, side rivers.Player) (rivers.Move, bool) {
	if p.gameid != p.client.gameid {
		panic("bad gameid: calling GetMove on a dead player")
	}
	pos := fmt.Sprintf("position board %s %s", notation.FormatBoard(b), side)
	if _, err := p.client.sendCommand(pos, ""); err != nil {
		return nil, false
	}
	goCmd := "go"
	if deadline, ok := ctx.Deadline(); ok {
		goCmd = fmt.Sprintf("%s movetime %s", goCmd, formatMS(time.Until(deadline)))
	}
	bestmove, err := p.client.sendCommand(goCmd, "bestmove")
	if err != nil || len(bestmove) != 2 || bestmove[1] == "none" {
		return nil, false
	}
	m, err := notation.ParseMove(bestmove[1])
	if err != nil {
		return nil, false
	}
	return m, true
}
