package logs

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite
)

type Repository struct {
	db *sqlx.DB

	insert *sqlx.NamedStmt
}

// Game is the outcome of one finished game. Winner is "circle",
// "square" or "nobody".
type Game struct {
	ID           int64     `db:"id"`
	Timestamp    time.Time `db:"time"`
	Rows         int       `db:"board_rows"`
	Cols         int       `db:"board_cols"`
	Circle       string    `db:"circle"`
	Square       string    `db:"square"`
	Winner       string    `db:"winner"`
	Reason       string    `db:"reason"`
	Plies        int       `db:"plies"`
	CircleScored int       `db:"circle_scored"`
	SquareScored int       `db:"square_scored"`
}

// PlayerSummary aggregates every game a named player took part in,
// from either side.
type PlayerSummary struct {
	Player   string  `db:"player"`
	Games    int     `db:"games"`
	Wins     int     `db:"wins"`
	Losses   int     `db:"losses"`
	Ties     int     `db:"ties"`
	AvgPlies float64 `db:"avg_plies"`
}

func Open(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway, and ":memory:" is per-connection
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(createGameTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}
	if _, err = db.Exec(createPlayerView); err != nil {
		db.Close()
		return nil, fmt.Errorf("create player_games view: %w", err)
	}

	repo := &Repository{db: db}
	repo.insert, err = db.PrepareNamed(insertStmt)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return repo, nil
}

func (r *Repository) InsertGame(g *Game) error {
	return r.insertGame(r.insert, g)
}

func (r *Repository) insertGame(stmt *sqlx.NamedStmt, g *Game) error {
	res, err := stmt.Exec(g)
	if err != nil {
		return err
	}
	g.ID, err = res.LastInsertId()
	return err
}

func (r *Repository) InsertGames(gs []*Game) error {
	txn, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	stmt := txn.NamedStmt(r.insert)
	for _, g := range gs {
		if e := r.insertGame(stmt, g); e != nil {
			return e
		}
	}
	return txn.Commit()
}

func (r *Repository) Games() ([]Game, error) {
	var out []Game
	err := r.db.Select(&out, `SELECT * FROM games ORDER BY id`)
	return out, err
}

func (r *Repository) Summary() ([]PlayerSummary, error) {
	var out []PlayerSummary
	if err := r.db.Select(&out, summaryStmt); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return out, nil
}

func (r *Repository) Close() {
	if r.insert != nil {
		r.insert.Close()
	}
	r.db.Close()
}
