package system

import (
	"testing"
	"time"

	"github.com/gridsim/server/internal/component"
	"github.com/gridsim/server/internal/core/event"
	"github.com/gridsim/server/internal/spatial"
	"github.com/gridsim/server/internal/world"
)

func newTestWorld(t *testing.T) *world.State {
	t.Helper()
	cfg := spatial.Config{
		CellSize: 100,
		Bounds:   spatial.Bounds{Width: 1000, Height: 1000},
	}
	ws, err := world.NewState(cfg, nil)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return ws
}

func TestMovementIntegratesAndUpdatesGrid(t *testing.T) {
	ws := newTestWorld(t)
	e, err := ws.Spawn("scout", 50, 50, component.Motion{VX: 100, VY: 0, Speed: 100}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	mv := NewMovementSystem(ws, nil, spatial.Bounds{Width: 1000, Height: 1000}, 1, nil)
	mv.Update(time.Second)

	tf, _ := ws.Transforms.Get(e)
	if tf.X != 150 || tf.Y != 50 {
		t.Fatalf("position = (%v, %v), want (150, 50)", tf.X, tf.Y)
	}
	// The grid must track the move across the cell boundary.
	if got := ws.Nearby(150, 50, 1); len(got) != 1 || got[0] != e {
		t.Errorf("index not updated, Nearby = %v", got)
	}
	if got := ws.Nearby(50, 50, 1); len(got) != 0 {
		t.Errorf("old cell still reports the actor: %v", got)
	}
}

func TestMovementBouncesAtBounds(t *testing.T) {
	ws := newTestWorld(t)
	e, err := ws.Spawn("scout", 990, 500, component.Motion{VX: 50, VY: 0, Speed: 50}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	mv := NewMovementSystem(ws, nil, spatial.Bounds{Width: 1000, Height: 1000}, 1, nil)
	mv.Update(time.Second)

	tf, _ := ws.Transforms.Get(e)
	mo, _ := ws.Motions.Get(e)
	if tf.X != 1000 {
		t.Errorf("X = %v, want clamp at 1000", tf.X)
	}
	if mo.VX != -50 {
		t.Errorf("VX = %v, want reflected -50", mo.VX)
	}
}

func TestVisibilityEmitsEnterAndLeave(t *testing.T) {
	ws := newTestWorld(t)
	observer, err := ws.Spawn("scout", 100, 100, component.Motion{}, 200)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	subject, err := ws.Spawn("drifter", 150, 100, component.Motion{}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	var enters []event.ProximityEnter
	event.Subscribe(ws.Bus, func(ev event.ProximityEnter) { enters = append(enters, ev) })
	var left []event.ProximityLeave
	event.Subscribe(ws.Bus, func(ev event.ProximityLeave) { left = append(left, ev) })

	vis := NewVisibilitySystem(ws, 1)
	dispatch := NewEventDispatchSystem(ws)

	vis.Update(0)
	dispatch.Update(0)
	if len(enters) != 1 || enters[0].Observer != observer || enters[0].Subject != subject {
		t.Fatalf("enters = %+v, want one %v->%v", enters, observer, subject)
	}

	// Still in range: no repeat enter.
	vis.Update(0)
	dispatch.Update(0)
	if len(enters) != 1 {
		t.Fatalf("enter must fire once, got %d", len(enters))
	}

	// Move the subject out of range.
	tf, _ := ws.Transforms.Get(subject)
	tf.X = 900
	if err := ws.Grid.UpdateEntity(subject, tf.X, tf.Y); err != nil {
		t.Fatalf("UpdateEntity: %v", err)
	}
	vis.Update(0)
	dispatch.Update(0)
	if len(left) != 1 || left[0].Observer != observer || left[0].Subject != subject {
		t.Fatalf("left = %+v, want one %v->%v", left, observer, subject)
	}
}

func TestVisibilityExcludesSelf(t *testing.T) {
	ws := newTestWorld(t)
	e, err := ws.Spawn("scout", 0, 0, component.Motion{}, 100)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	vis := NewVisibilitySystem(ws, 1)
	vis.Update(0)

	per, _ := ws.Perceptions.Get(e)
	if _, self := per.Known[e]; self {
		t.Errorf("observer must never know itself")
	}
	if len(per.Known) != 0 {
		t.Errorf("Known = %v, want empty", per.Known)
	}
}

func TestVisibilityRespectsInterval(t *testing.T) {
	ws := newTestWorld(t)
	observer, err := ws.Spawn("scout", 0, 0, component.Motion{}, 100)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, err := ws.Spawn("drifter", 10, 0, component.Motion{}, 0); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	vis := NewVisibilitySystem(ws, 3)
	vis.Update(0)
	vis.Update(0)
	per, _ := ws.Perceptions.Get(observer)
	if len(per.Known) != 0 {
		t.Fatalf("scan must not run before the interval elapses")
	}
	vis.Update(0)
	if len(per.Known) != 1 {
		t.Errorf("scan must run on the interval tick, Known = %v", per.Known)
	}
}

func TestCleanupFlushesDespawns(t *testing.T) {
	ws := newTestWorld(t)
	e, err := ws.Spawn("scout", 50, 50, component.Motion{}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	ws.Despawn(e)

	NewCleanupSystem(ws).Update(0)
	if ws.ECS.Alive(e) {
		t.Errorf("actor must be gone after the cleanup pass")
	}
	if got := ws.Nearby(50, 50, 1); len(got) != 0 {
		t.Errorf("grid still reports the actor: %v", got)
	}
}
