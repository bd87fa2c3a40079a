// Package spatial implements a uniform-grid spatial hash index over 2D
// entity positions. The host feeds it every tracked entity's position once
// per tick; radius and rectangle queries then resolve against cell sets
// instead of scanning the world.
//
// Accessed only from the game loop goroutine — no locks. The host guarantees
// the movement pass runs before any query is issued for that tick.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

var (
	// ErrCellSize rejects degenerate grid configurations before they can
	// corrupt cell-key math.
	ErrCellSize = errors.New("spatial: cell size must be a positive finite number")
	// ErrCoordinate rejects NaN/Inf positions instead of silently grouping
	// them under one degenerate cell key.
	ErrCoordinate = errors.New("spatial: coordinate must be a finite number")
	// ErrRadius rejects negative and non-finite query radii.
	ErrRadius = errors.New("spatial: radius must be a non-negative finite number")
	// ErrExtent rejects negative and non-finite rectangle extents.
	ErrExtent = errors.New("spatial: extent must be a non-negative finite number")
)

// Bounds describes the declared world area. Informational only: entities
// outside the bounds are tracked and queried like any other.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Config holds the active partition parameters.
type Config struct {
	CellSize float64
	Bounds   Bounds
}

func (c Config) validate() error {
	if !(c.CellSize > 0) || math.IsInf(c.CellSize, 1) {
		return fmt.Errorf("%w: got %v", ErrCellSize, c.CellSize)
	}
	return nil
}

// Stats is a snapshot of grid occupancy.
type Stats struct {
	// TotalCells counts every cell touched since the last Configure,
	// including cells that have since emptied (cells are never pruned).
	TotalCells    int
	OccupiedCells int
	TotalEntities int
	// AverageEntitiesPerCell is TotalEntities over OccupiedCells,
	// 0 when nothing is occupied.
	AverageEntitiesPerCell float64
}

// Index is the public surface of the spatial subsystem. H is the host's
// opaque entity handle; the index only uses it as a map key. Multiple
// independent indices can coexist (one per world, one per test).
type Index[H comparable] struct {
	cfg  Config
	grid *grid[H]
	pos  tracker[H]
	log  *zap.Logger
}

// New creates an index with the given partition config. A nil logger
// disables logging.
func New[H comparable](cfg Config, log *zap.Logger) (*Index[H], error) {
	if log == nil {
		log = zap.NewNop()
	}
	ix := &Index[H]{log: log}
	if err := ix.Configure(cfg); err != nil {
		return nil, err
	}
	return ix, nil
}

// Configure replaces the active cell size and bounds and discards all cells
// and tracked positions unconditionally.
func (ix *Index[H]) Configure(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	discarded := len(ix.pos)
	ix.cfg = cfg
	ix.grid = newGrid[H](cfg.CellSize)
	ix.pos = make(tracker[H])
	ix.log.Info("spatial partition configured",
		zap.Float64("cell_size", cfg.CellSize),
		zap.Float64("bounds_w", cfg.Bounds.Width),
		zap.Float64("bounds_h", cfg.Bounds.Height),
		zap.Int("entities_discarded", discarded))
	return nil
}

// Config returns the active partition parameters.
func (ix *Index[H]) Config() Config {
	return ix.cfg
}

// UpdateEntity records the entity's current position, migrating it between
// cells only when its cell key actually changed. The host calls this once
// per tick for every tracked entity, so the same-cell path must stay cheap.
func (ix *Index[H]) UpdateEntity(h H, x, y float64) error {
	if err := checkCoord(x, y); err != nil {
		return err
	}
	newKey := ix.grid.keyFor(x, y)
	prev, existed := ix.pos.set(h, x, y)
	if existed {
		oldKey := ix.grid.keyFor(prev.X, prev.Y)
		if oldKey == newKey {
			return nil
		}
		ix.grid.remove(h, oldKey)
	}
	ix.grid.insert(h, newKey)
	return nil
}

// RemoveEntity forgets the entity entirely. Removing a handle that was never
// tracked is a no-op.
func (ix *Index[H]) RemoveEntity(h H) {
	prev, ok := ix.pos.get(h)
	if !ok {
		return
	}
	ix.grid.remove(h, ix.grid.keyFor(prev.X, prev.Y))
	ix.pos.delete(h)
}

// Position returns the last position recorded for a handle.
func (ix *Index[H]) Position(h H) (Position, bool) {
	return ix.pos.get(h)
}

// Tracked returns the number of entities currently in the index.
func (ix *Index[H]) Tracked() int {
	return len(ix.pos)
}

// Stats computes an occupancy snapshot by walking the cell table.
func (ix *Index[H]) Stats() Stats {
	s := Stats{TotalCells: len(ix.grid.cells)}
	for _, cell := range ix.grid.cells {
		if len(cell) > 0 {
			s.OccupiedCells++
			s.TotalEntities += len(cell)
		}
	}
	if s.OccupiedCells > 0 {
		s.AverageEntitiesPerCell = float64(s.TotalEntities) / float64(s.OccupiedCells)
	}
	return s
}

func checkCoord(x, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: got (%v, %v)", ErrCoordinate, x, y)
	}
	return nil
}
