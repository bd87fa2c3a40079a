package system

import (
	"time"

	"github.com/gridsim/server/internal/component"
	"github.com/gridsim/server/internal/core/ecs"
	"github.com/gridsim/server/internal/core/event"
	coresys "github.com/gridsim/server/internal/core/system"
	"github.com/gridsim/server/internal/spatial"
	"github.com/gridsim/server/internal/world"
)

// VisibilitySystem scans each observer's surroundings with a radius query
// and diffs the result against what the observer already knew, emitting
// ProximityEnter/ProximityLeave events for the deltas. Runs in PostUpdate,
// after the movement pass has refreshed the index, every `interval` ticks.
type VisibilitySystem struct {
	state    *world.State
	interval int
	ticks    int
}

func NewVisibilitySystem(ws *world.State, interval int) *VisibilitySystem {
	if interval < 1 {
		interval = 1
	}
	return &VisibilitySystem{state: ws, interval: interval}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *VisibilitySystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.interval {
		return
	}
	s.ticks = 0

	ecs.Each2(s.state.Transforms, s.state.Perceptions, func(observer ecs.Entity, tf *component.Transform, per *component.Perception) {
		nearby, err := s.state.Grid.QueryRadius(spatial.Position{X: tf.X, Y: tf.Y}, per.Radius)
		if err != nil {
			return
		}

		current := make(map[ecs.Entity]struct{}, len(nearby))
		for _, subject := range nearby {
			if subject == observer {
				continue
			}
			current[subject] = struct{}{}
			if _, known := per.Known[subject]; !known {
				event.Emit(s.state.Bus, event.ProximityEnter{Observer: observer, Subject: subject})
			}
		}
		for subject := range per.Known {
			if _, still := current[subject]; !still {
				event.Emit(s.state.Bus, event.ProximityLeave{Observer: observer, Subject: subject})
			}
		}
		per.Known = current
	})
}
