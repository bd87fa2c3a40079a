package event

import "github.com/gridsim/server/internal/core/ecs"

// ProximityEnter fires when a subject entity first appears within an
// observer's perception radius.
type ProximityEnter struct {
	Observer ecs.Entity
	Subject  ecs.Entity
}

// ProximityLeave fires when a previously perceived subject is no longer
// within the observer's perception radius (moved away or despawned).
type ProximityLeave struct {
	Observer ecs.Entity
	Subject  ecs.Entity
}
