package component

import "github.com/gridsim/server/internal/core/ecs"

// Transform is an actor's world position. The movement system writes it and
// mirrors every change into the spatial index the same tick.
type Transform struct {
	X float64
	Y float64
}

// Motion is an actor's current velocity plus its archetype speed cap.
type Motion struct {
	VX    float64
	VY    float64
	Speed float64 // units per second, upper bound for scripted steering
}

// Perception marks an actor as an observer. Known carries the entities seen
// last scan so the visibility system can diff enter/leave.
type Perception struct {
	Radius float64
	Known  map[ecs.Entity]struct{}
}

// Archetype names the template an actor was spawned from.
type Archetype struct {
	Name string
}
