package spatial

// Position is a 2D world coordinate.
type Position struct {
	X float64
	Y float64
}

// tracker records the last position fed to UpdateEntity for each handle.
// It is the authoritative point used for query filtering and for computing
// the cell an entity must be removed from.
type tracker[H comparable] map[H]Position

// set stores the new position and returns what was recorded before, if
// anything.
func (t tracker[H]) set(h H, x, y float64) (prev Position, existed bool) {
	prev, existed = t[h]
	t[h] = Position{X: x, Y: y}
	return prev, existed
}

func (t tracker[H]) get(h H) (Position, bool) {
	p, ok := t[h]
	return p, ok
}

func (t tracker[H]) delete(h H) {
	delete(t, h)
}
