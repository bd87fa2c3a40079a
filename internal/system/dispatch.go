package system

import (
	"time"

	coresys "github.com/gridsim/server/internal/core/system"
	"github.com/gridsim/server/internal/world"
)

// EventDispatchSystem rotates the event bus at tick start and delivers last
// tick's events to subscribers. Must run before every other system, hence
// PreUpdate.
type EventDispatchSystem struct {
	state *world.State
}

func NewEventDispatchSystem(ws *world.State) *EventDispatchSystem {
	return &EventDispatchSystem{state: ws}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.state.Bus.SwapBuffers()
	s.state.Bus.DispatchAll()
}
