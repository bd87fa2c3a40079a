// Package world holds the mutable simulation state: the entity pool, the
// component stores, and the spatial index that mirrors every actor's
// position. Accessed only from the game loop goroutine — no locks.
package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gridsim/server/internal/component"
	"github.com/gridsim/server/internal/core/ecs"
	"github.com/gridsim/server/internal/core/event"
	"github.com/gridsim/server/internal/spatial"
)

// State wires the ECS, the event bus, and the spatial index together.
// Systems reach through it; nothing else mutates the grid directly.
type State struct {
	ECS         *ecs.World
	Bus         *event.Bus
	Grid        *spatial.Index[ecs.Entity]
	Transforms  *ecs.Store[component.Transform]
	Motions     *ecs.Store[component.Motion]
	Perceptions *ecs.Store[component.Perception]
	Archetypes  *ecs.Store[component.Archetype]

	log *zap.Logger
}

// indexRemover adapts the spatial index to the ECS cleanup interface so a
// destroyed entity leaves the grid in the same flush that clears its
// components.
type indexRemover struct {
	ix *spatial.Index[ecs.Entity]
}

func (r indexRemover) Remove(e ecs.Entity) {
	r.ix.RemoveEntity(e)
}

// NewState builds an empty world over the given partition config.
func NewState(cfg spatial.Config, log *zap.Logger) (*State, error) {
	if log == nil {
		log = zap.NewNop()
	}
	grid, err := spatial.New[ecs.Entity](cfg, log)
	if err != nil {
		return nil, fmt.Errorf("spatial index: %w", err)
	}

	s := &State{
		ECS:         ecs.NewWorld(),
		Bus:         event.NewBus(),
		Grid:        grid,
		Transforms:  ecs.NewStore[component.Transform](),
		Motions:     ecs.NewStore[component.Motion](),
		Perceptions: ecs.NewStore[component.Perception](),
		Archetypes:  ecs.NewStore[component.Archetype](),
		log:         log,
	}
	s.ECS.Attach(s.Transforms)
	s.ECS.Attach(s.Motions)
	s.ECS.Attach(s.Perceptions)
	s.ECS.Attach(s.Archetypes)
	s.ECS.Attach(indexRemover{ix: grid})
	return s, nil
}

// Spawn creates an actor at (x, y) and registers it with the grid.
func (s *State) Spawn(arch string, x, y float64, motion component.Motion, perception float64) (ecs.Entity, error) {
	e := s.ECS.Create()
	if err := s.Grid.UpdateEntity(e, x, y); err != nil {
		s.ECS.Defer(e)
		s.ECS.FlushDestroyed()
		return 0, fmt.Errorf("spawn %q at (%v, %v): %w", arch, x, y, err)
	}
	s.Transforms.Set(e, &component.Transform{X: x, Y: y})
	s.Motions.Set(e, &motion)
	s.Archetypes.Set(e, &component.Archetype{Name: arch})
	if perception > 0 {
		s.Perceptions.Set(e, &component.Perception{
			Radius: perception,
			Known:  make(map[ecs.Entity]struct{}),
		})
	}
	return e, nil
}

// Despawn queues an actor for end-of-tick removal. The cleanup flush takes
// it out of every store and the grid together.
func (s *State) Despawn(e ecs.Entity) {
	s.ECS.Defer(e)
}

// Nearby returns the actors within radius of (x, y), grid-accelerated.
func (s *State) Nearby(x, y, radius float64) []ecs.Entity {
	got, err := s.Grid.QueryRadius(spatial.Position{X: x, Y: y}, radius)
	if err != nil {
		s.log.Warn("nearby query rejected",
			zap.Float64("x", x), zap.Float64("y", y),
			zap.Float64("radius", radius), zap.Error(err))
		return nil
	}
	return got
}

// InRect returns the actors inside the axis-aligned box, inclusive bounds.
func (s *State) InRect(x, y, w, h float64) []ecs.Entity {
	got, err := s.Grid.QueryRect(x, y, w, h)
	if err != nil {
		s.log.Warn("rect query rejected", zap.Error(err))
		return nil
	}
	return got
}

// ActorCount returns the number of live actors.
func (s *State) ActorCount() int {
	return s.ECS.Live()
}
