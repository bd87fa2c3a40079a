package system

import (
	"time"

	coresys "github.com/gridsim/server/internal/core/system"
	"github.com/gridsim/server/internal/world"
)

// CleanupSystem flushes deferred despawns at tick end. The flush removes an
// actor from every component store and the spatial index together, so no
// query in the next tick can see a half-removed actor.
type CleanupSystem struct {
	state *world.State
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{state: ws}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.state.ECS.FlushDestroyed()
}
