package system

import "time"

// Phase orders system execution within a tick. The movement pass (Update)
// always finishes before anything issues spatial queries (PostUpdate) —
// that ordering guarantee belongs to the scheduler, not to the index.
type Phase int

const (
	PhasePreUpdate  Phase = iota // deliver last tick's events
	PhaseUpdate                  // movement + scripted steering
	PhasePostUpdate              // visibility queries, stats
	PhaseCleanup                 // flush destroyed entities
)

// System is implemented by every tick system.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
