package ecs

// World owns the entity pool, the set of removable stores, and a deferred
// destruction queue. Destruction is queued during the tick and flushed by
// the cleanup system at tick end, so systems never iterate a store while
// entities vanish under them.
type World struct {
	pool       *Pool
	removables []Removable
	destroy    []Entity
}

func NewWorld() *World {
	return &World{
		pool:       NewPool(),
		removables: make([]Removable, 0, 8),
		destroy:    make([]Entity, 0, 64),
	}
}

// Attach registers a store (or any other per-entity resource) for bulk
// cleanup on destroy.
func (w *World) Attach(r Removable) {
	w.removables = append(w.removables, r)
}

func (w *World) Create() Entity {
	return w.pool.Create()
}

func (w *World) Alive(e Entity) bool {
	return w.pool.Alive(e)
}

func (w *World) Live() int {
	return w.pool.Live()
}

// Defer queues an entity for end-of-tick destruction. Queueing the same
// entity twice is harmless; the second flush pass sees a stale handle.
func (w *World) Defer(e Entity) {
	w.destroy = append(w.destroy, e)
}

// FlushDestroyed removes queued entities from every attached resource and
// releases their handles.
func (w *World) FlushDestroyed() {
	for _, e := range w.destroy {
		if !w.pool.Alive(e) {
			continue
		}
		for _, r := range w.removables {
			r.Remove(e)
		}
		w.pool.Destroy(e)
	}
	w.destroy = w.destroy[:0]
}
