package cli

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"golang.org/x/net/context"

	"github.com/nelhage/riverbot/agent"
	"github.com/nelhage/riverbot/notation"
	"github.com/nelhage/riverbot/rivers"
)

func NewCLIPlayer(out io.Writer, in *bufio.Reader) Player {
	return &cliPlayer{out, in}
}

type cliPlayer struct {
	out io.Writer
	in  *bufio.Reader
}

// GetMove prompts until a line parses as a move. End of input is
// treated as resignation by having no move.
func (c *cliPlayer) GetMove(ctx context.Context, b *rivers.Board, p rivers.Player) (rivers.Move, bool) {
	for {
		fmt.Fprintf(c.out, "%s> ", p)
		line, err := c.in.ReadString('\n')
		if err != nil {
			return nil, false
		}
		m, err := notation.ParseMove(line)
		if err != nil {
			fmt.Fprintln(c.out, "parse error: ", err)
			continue
		}
		return m, true
	}
}

// AgentPlayer plays through an agent with a fixed clock per move.
type AgentPlayer struct {
	Agent *agent.Agent
	Clock time.Duration
}

func (a *AgentPlayer) GetMove(ctx context.Context, b *rivers.Board, p rivers.Player) (rivers.Move, bool) {
	if p != a.Agent.Player() {
		return nil, false
	}
	return a.Agent.ChooseBoard(ctx, b, a.Clock, a.Clock)
}
