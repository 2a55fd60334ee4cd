package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  id integer primary key autoincrement,
  time datetime,
  board_rows int not null,
  board_cols int not null,
  circle varchar not null,
  square varchar not null,
  winner string,
  reason string,
  plies int,
  circle_scored int,
  square_scored int
)`

const createPlayerView = `
CREATE VIEW IF NOT EXISTS player_games (
  id, player, opponent, side, result, reason, plies
) AS
SELECT id, circle, square, 'circle',
       CASE winner WHEN 'circle' THEN 'win' WHEN 'square' THEN 'lose' ELSE 'tie' END,
       reason, plies
 FROM games
UNION ALL
SELECT id, square, circle, 'square',
       CASE winner WHEN 'square' THEN 'win' WHEN 'circle' THEN 'lose' ELSE 'tie' END,
       reason, plies
 FROM games
`

const insertStmt = `
INSERT INTO games (time, board_rows, board_cols, circle, square, winner, reason, plies, circle_scored, square_scored)
VALUES (:time, :board_rows, :board_cols, :circle, :square, :winner, :reason, :plies, :circle_scored, :square_scored)
`

const summaryStmt = `
SELECT player,
       COUNT(*) AS games,
       SUM(CASE result WHEN 'win' THEN 1 ELSE 0 END) AS wins,
       SUM(CASE result WHEN 'lose' THEN 1 ELSE 0 END) AS losses,
       SUM(CASE result WHEN 'tie' THEN 1 ELSE 0 END) AS ties,
       AVG(plies) AS avg_plies
 FROM player_games
 GROUP BY player
 ORDER BY player
`
