package logs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Repository {
	repo, err := Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func game(circle, square, winner string, plies int) *Game {
	return &Game{
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Rows:      13,
		Cols:      12,
		Circle:    circle,
		Square:    square,
		Winner:    winner,
		Reason:    "filled its zone",
		Plies:     plies,
	}
}

func TestInsertGame(t *testing.T) {
	repo := openTemp(t)
	g := game("minimax", "random", "circle", 40)
	require.NoError(t, repo.InsertGame(g))
	require.NotZero(t, g.ID)

	gs, err := repo.Games()
	require.NoError(t, err)
	require.Len(t, gs, 1)
	require.Equal(t, g.ID, gs[0].ID)
	require.Equal(t, "minimax", gs[0].Circle)
	require.Equal(t, 40, gs[0].Plies)
	require.True(t, g.Timestamp.Equal(gs[0].Timestamp))
}

func TestSummary(t *testing.T) {
	repo := openTemp(t)
	require.NoError(t, repo.InsertGames([]*Game{
		game("minimax", "random", "circle", 30),
		game("random", "minimax", "square", 50),
		game("minimax", "random", "nobody", 100),
	}))

	sum, err := repo.Summary()
	require.NoError(t, err)
	require.Equal(t, []PlayerSummary{
		{Player: "minimax", Games: 3, Wins: 2, Losses: 0, Ties: 1, AvgPlies: 60},
		{Player: "random", Games: 3, Wins: 0, Losses: 2, Ties: 1, AvgPlies: 60},
	}, sum)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.InsertGame(game("a", "b", "circle", 10)))
	repo.Close()

	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()
	gs, err := repo.Games()
	require.NoError(t, err)
	require.Len(t, gs, 1)
}
