package ecs

// Entity packs a 32-bit slot index in the low half and a 32-bit generation
// in the high half. Destroying an entity bumps its slot's generation, so a
// handle held from before the destroy stops validating. The zero value is
// never issued by a Pool and is safe to use as "no entity".
type Entity uint64

func makeEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) index() uint32      { return uint32(e) }
func (e Entity) generation() uint32 { return uint32(e >> 32) }

// IsZero reports whether e is the reserved null handle.
func (e Entity) IsZero() bool { return e == 0 }

// Pool hands out entity handles. Freed slots are recycled with a bumped
// generation rather than reused verbatim.
type Pool struct {
	generations []uint32
	free        []uint32
}

func NewPool() *Pool {
	// Slot 0 is burned at generation 1 so that Entity(0) is never live.
	return &Pool{generations: []uint32{1}}
}

func (p *Pool) Create() Entity {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return makeEntity(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	return makeEntity(idx, 0)
}

func (p *Pool) Alive(e Entity) bool {
	idx := e.index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == e.generation()
}

// Destroy releases the handle's slot. Stale handles are ignored.
func (p *Pool) Destroy(e Entity) {
	idx := e.index()
	if int(idx) >= len(p.generations) || p.generations[idx] != e.generation() {
		return
	}
	p.generations[idx]++
	p.free = append(p.free, idx)
}

// Live returns the number of currently allocated entities.
func (p *Pool) Live() int {
	return len(p.generations) - len(p.free) - 1
}
