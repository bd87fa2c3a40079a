package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/gridsim/server/internal/core/system"
	"github.com/gridsim/server/internal/world"
)

// StatsSystem logs grid occupancy every `interval` ticks. TotalCells grows
// monotonically between reconfigurations (emptied cells are kept), so its
// trend is also a cheap proxy for how much of the world actors have roamed.
type StatsSystem struct {
	state    *world.State
	interval int
	ticks    int
	log      *zap.Logger
}

func NewStatsSystem(ws *world.State, interval int, log *zap.Logger) *StatsSystem {
	if interval < 1 {
		interval = 1
	}
	return &StatsSystem{state: ws, interval: interval, log: log}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *StatsSystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.interval {
		return
	}
	s.ticks = 0

	st := s.state.Grid.Stats()
	s.log.Info("grid occupancy",
		zap.Int("actors", s.state.ActorCount()),
		zap.Int("total_cells", st.TotalCells),
		zap.Int("occupied_cells", st.OccupiedCells),
		zap.Int("total_entities", st.TotalEntities),
		zap.Float64("avg_per_cell", st.AverageEntitiesPerCell))
}
