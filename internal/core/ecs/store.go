package ecs

// Removable lets the World strip an entity's data from every registered
// store (and any other per-entity resource) when the entity is destroyed.
type Removable interface {
	Remove(e Entity)
}

// Store is a typed component map. Plain generics, no reflection.
type Store[T any] struct {
	data map[Entity]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{data: make(map[Entity]*T, 128)}
}

func (s *Store[T]) Set(e Entity, c *T) {
	s.data[e] = c
}

func (s *Store[T]) Get(e Entity) (*T, bool) {
	c, ok := s.data[e]
	return c, ok
}

func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.data[e]
	return ok
}

func (s *Store[T]) Remove(e Entity) {
	delete(s.data, e)
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Each(fn func(Entity, *T)) {
	for e, c := range s.data {
		fn(e, c)
	}
}

// Each2 visits entities present in both stores, iterating the smaller one.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(Entity, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for e, a := range sa.data {
			if b, ok := sb.data[e]; ok {
				fn(e, a, b)
			}
		}
		return
	}
	for e, b := range sb.data {
		if a, ok := sa.data[e]; ok {
			fn(e, a, b)
		}
	}
}
