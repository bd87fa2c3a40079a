package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/gridsim/server/internal/component"
	"github.com/gridsim/server/internal/core/ecs"
	coresys "github.com/gridsim/server/internal/core/system"
	"github.com/gridsim/server/internal/scripting"
	"github.com/gridsim/server/internal/spatial"
	"github.com/gridsim/server/internal/world"
)

// MovementSystem is the per-tick position feed: it integrates every actor's
// velocity and pushes the result into the spatial index. Most actors stay in
// their cell between ticks, which is exactly the index's cheap path.
//
// When a script engine is present, Lua gets to re-steer each actor every
// steerEvery ticks; its answer is clamped to the archetype speed cap.
type MovementSystem struct {
	state      *world.State
	script     *scripting.Engine // nil disables scripted steering
	bounds     spatial.Bounds
	steerEvery int
	tick       int
	log        *zap.Logger
}

func NewMovementSystem(ws *world.State, script *scripting.Engine, bounds spatial.Bounds, steerEvery int, log *zap.Logger) *MovementSystem {
	if steerEvery < 1 {
		steerEvery = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MovementSystem{
		state:      ws,
		script:     script,
		bounds:     bounds,
		steerEvery: steerEvery,
		log:        log,
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	s.tick++
	step := dt.Seconds()
	steerTick := s.tick%s.steerEvery == 0

	ecs.Each2(s.state.Transforms, s.state.Motions, func(e ecs.Entity, tf *component.Transform, mo *component.Motion) {
		if s.script != nil && steerTick {
			s.steer(e, tf, mo)
		}

		tf.X += mo.VX * step
		tf.Y += mo.VY * step
		s.bounce(tf, mo)

		if err := s.state.Grid.UpdateEntity(e, tf.X, tf.Y); err != nil {
			// Only non-finite coordinates are rejected; a scripted velocity
			// could smuggle one in.
			s.log.Warn("position update rejected", zap.Uint64("entity", uint64(e)), zap.Error(err))
		}
	})
}

// steer asks Lua for a new velocity and clamps it to the speed cap.
func (s *MovementSystem) steer(e ecs.Entity, tf *component.Transform, mo *component.Motion) {
	neighbors := 0
	if per, ok := s.state.Perceptions.Get(e); ok {
		neighbors = len(per.Known)
	}
	arch := ""
	if a, ok := s.state.Archetypes.Get(e); ok {
		arch = a.Name
	}

	cmd, ok := s.script.Steer(scripting.SteerContext{
		Archetype: arch,
		Tick:      s.tick,
		X:         tf.X,
		Y:         tf.Y,
		VX:        mo.VX,
		VY:        mo.VY,
		Speed:     mo.Speed,
		Neighbors: neighbors,
	})
	if !ok {
		return
	}
	vx, vy := cmd.VX, cmd.VY
	if !finite(vx) || !finite(vy) {
		s.log.Warn("lua steer returned non-finite velocity", zap.String("archetype", arch))
		return
	}
	if mag := math.Hypot(vx, vy); mag > mo.Speed && mag > 0 {
		scale := mo.Speed / mag
		vx *= scale
		vy *= scale
	}
	mo.VX = vx
	mo.VY = vy
}

// bounce reflects actors off the declared world edges. The index itself
// never enforces bounds; containment is purely a simulation choice.
func (s *MovementSystem) bounce(tf *component.Transform, mo *component.Motion) {
	if s.bounds.Width <= 0 || s.bounds.Height <= 0 {
		return
	}
	maxX := s.bounds.X + s.bounds.Width
	maxY := s.bounds.Y + s.bounds.Height
	if tf.X < s.bounds.X {
		tf.X = s.bounds.X
		mo.VX = -mo.VX
	} else if tf.X > maxX {
		tf.X = maxX
		mo.VX = -mo.VX
	}
	if tf.Y < s.bounds.Y {
		tf.Y = s.bounds.Y
		mo.VY = -mo.VY
	} else if tf.Y > maxY {
		tf.Y = maxY
		mo.VY = -mo.VY
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
