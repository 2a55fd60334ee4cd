package rivers

const (
	zobristSeed = 0x7a3c0ffee5eed
	golden      = 0x9e3779b97f4a7c15
)

// splitmix64 finalizer; gives each (cell, piece) pair an independent
// random-looking key without a size-bounded table.
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func pieceIndex(pc Piece) uint64 {
	i := uint64(pc.Owner-1) * 3
	if pc.Side == River {
		i += uint64(pc.Orientation)
	}
	return i
}

func zobrist(cell int, pc Piece) uint64 {
	if pc.Empty() {
		return 0
	}
	return mix(zobristSeed + golden*uint64(cell*8) + golden*pieceIndex(pc))
}

var toMoveKey = [3]uint64{
	0,
	mix(zobristSeed ^ 0x1),
	mix(zobristSeed ^ 0x2),
}

// Hash identifies the cell contents only.
func (b *Board) Hash() uint64 {
	return b.hash
}

// HashFor identifies the position with toMove to play.
func (b *Board) HashFor(toMove Player) uint64 {
	return b.hash ^ toMoveKey[toMove]
}
