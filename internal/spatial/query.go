package spatial

import (
	"fmt"
	"math"
)

// QueryRadius returns every tracked entity within radius of center,
// inclusive: a point exactly radius away matches, and a zero-radius query
// matches an entity sitting on the center point. Distances are compared
// squared.
//
// Cost is proportional to the cells the bounding box overlaps times their
// occupancy; the rest of the world is never visited.
func (ix *Index[H]) QueryRadius(center Position, radius float64) ([]H, error) {
	if err := checkCoord(center.X, center.Y); err != nil {
		return nil, err
	}
	if !(radius >= 0) || math.IsInf(radius, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrRadius, radius)
	}
	rsq := radius * radius
	var out []H
	ix.grid.eachCandidate(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius, func(h H) {
		p, ok := ix.pos.get(h)
		if !ok {
			return
		}
		dx := p.X - center.X
		dy := p.Y - center.Y
		if dx*dx+dy*dy <= rsq {
			out = append(out, h)
		}
	})
	return out, nil
}

// QueryRect returns every tracked entity inside the axis-aligned box
// [x, x+width] × [y, y+height]. Containment is inclusive on both bounds for
// every rectangle size, so a zero-sized rectangle matches an entity located
// exactly at (x, y).
func (ix *Index[H]) QueryRect(x, y, width, height float64) ([]H, error) {
	if err := checkCoord(x, y); err != nil {
		return nil, err
	}
	if !(width >= 0) || math.IsInf(width, 1) {
		return nil, fmt.Errorf("%w: width %v", ErrExtent, width)
	}
	if !(height >= 0) || math.IsInf(height, 1) {
		return nil, fmt.Errorf("%w: height %v", ErrExtent, height)
	}
	maxX := x + width
	maxY := y + height
	var out []H
	ix.grid.eachCandidate(x, y, maxX, maxY, func(h H) {
		p, ok := ix.pos.get(h)
		if !ok {
			return
		}
		if p.X >= x && p.X <= maxX && p.Y >= y && p.Y <= maxY {
			out = append(out, h)
		}
	})
	return out, nil
}
