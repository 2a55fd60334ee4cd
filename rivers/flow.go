package rivers

var (
	horizontalDirs = [2]Coord{{1, 0}, {-1, 0}}
	verticalDirs   = [2]Coord{{0, 1}, {0, -1}}

	// right, left, down, up
	neighbourDirs = [4]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func (c Coord) add(d Coord) Coord {
	return Coord{c.X + d.X, c.Y + d.Y}
}

func flowDirs(o Orientation) [2]Coord {
	if o == Vertical {
		return verticalDirs
	}
	return horizontalDirs
}

// flow appends to out every empty cell reachable by riding rivers,
// starting from the river at entry. src is the moving piece's origin,
// which the water passes over. If pusher is non-nil the entry cell is
// treated as if it held *pusher, so a pushed stone is carried along the
// pushing river's orientation. Cells in p's opponent zone are never
// reached. Results are unique, in discovery order.
func (b *Board) flow(entry, src Coord, p Player, pusher *Piece, out []Coord) []Coord {
	cfg := b.cfg
	base := len(out)
	visited := make(map[Coord]struct{}, 8)
	queue := []Coord{entry}

	add := func(c Coord) {
		for _, d := range out[base:] {
			if d == c {
				return
			}
		}
		out = append(out, c)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur]; ok || !cfg.InBounds(cur.X, cur.Y) {
			continue
		}
		visited[cur] = struct{}{}

		cell := b.at(cur)
		if pusher != nil && cur == entry {
			cell = *pusher
		}
		if cell.Empty() {
			if !cfg.IsOpponentScoreCell(cur.X, cur.Y, p) {
				add(cur)
			}
			continue
		}
		if cell.Side != River {
			continue
		}

		for _, d := range flowDirs(cell.Orientation) {
			for n := cur.add(d); cfg.InBounds(n.X, n.Y); n = n.add(d) {
				if cfg.IsOpponentScoreCell(n.X, n.Y, p) {
					break
				}
				next := b.at(n)
				if next.Empty() {
					add(n)
					continue
				}
				if n == src {
					continue
				}
				if next.Side == River {
					queue = append(queue, n)
				}
				break
			}
		}
	}
	return out
}
