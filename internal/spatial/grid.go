package spatial

import "math"

// cellKey identifies one grid cell. Derived by flooring position over cell
// size, so negative coordinates land in negative cells (floor(-1/100) = -1,
// not 0).
type cellKey struct {
	cx int
	cy int
}

// grid maps cell keys to the set of handles currently believed to occupy
// that cell. Cells are created on first insert and kept when they empty out;
// an entity oscillating between two cells never re-allocates its sets, and
// Stats reports the ever-touched cell count. Only Configure discards cells.
type grid[H comparable] struct {
	invCell float64
	cells   map[cellKey]map[H]struct{}
}

func newGrid[H comparable](cellSize float64) *grid[H] {
	return &grid[H]{
		invCell: 1.0 / cellSize,
		cells:   make(map[cellKey]map[H]struct{}),
	}
}

// keyFor multiplies by the precomputed reciprocal rather than dividing by
// the cell size. For cell sizes with an inexact reciprocal the two forms can
// round differently exactly on a cell boundary; that is harmless here since
// insert, remove, and the query walk all key through this one function.
func (g *grid[H]) keyFor(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x * g.invCell)),
		cy: int(math.Floor(y * g.invCell)),
	}
}

func (g *grid[H]) insert(h H, k cellKey) {
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[H]struct{})
		g.cells[k] = cell
	}
	cell[h] = struct{}{}
}

// remove takes a handle out of the given cell. No-op if the cell or the
// handle is absent. The emptied set stays allocated.
func (g *grid[H]) remove(h H, k cellKey) {
	if cell := g.cells[k]; cell != nil {
		delete(cell, h)
	}
}

// eachCandidate visits every handle in every cell overlapping the bounding
// box [minX,maxX] × [minY,maxY], inclusive on both ends. A handle lives in
// exactly one cell, so no visit is duplicated.
func (g *grid[H]) eachCandidate(minX, minY, maxX, maxY float64, fn func(H)) {
	lo := g.keyFor(minX, minY)
	hi := g.keyFor(maxX, maxY)
	for cy := lo.cy; cy <= hi.cy; cy++ {
		for cx := lo.cx; cx <= hi.cx; cx++ {
			for h := range g.cells[cellKey{cx: cx, cy: cy}] {
				fn(h)
			}
		}
	}
}
