// Real-time stepping: every tick advances each skier's explicit state by
// a delta time. State transitions are the points where the traffic
// tracker's intended/entered/exited events fire, in skier iteration
// order for the tick.
package engine

import (
	"log/slog"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
)

// SpawnArrivals adds freshly rolled skiers to the live population.
func (s *Simulation) SpawnArrivals(count int) {
	arrivals := s.Spawner.SpawnBatch(count)
	s.Skiers = append(s.Skiers, arrivals...)
	if count > 0 {
		slog.Debug("skiers arrived", "count", count, "total", len(s.Skiers))
	}
}

// TickMinute advances every skier by one sim-minute. Wired as the
// engine's per-tick callback.
func (s *Simulation) TickMinute(tick uint64) {
	s.LastTick = tick
	for _, sk := range s.Skiers {
		if sk.Departed {
			continue
		}
		s.stepSkier(sk, 1, tick)
	}
}

// TickDay compacts the departed population and logs a daily report.
func (s *Simulation) TickDay(tick uint64) {
	live := s.Skiers[:0]
	departed := 0
	for _, sk := range s.Skiers {
		if sk.Departed {
			departed++
			continue
		}
		live = append(live, sk)
	}
	s.Skiers = live

	slog.Info("daily report",
		"tick", tick,
		"on_mountain", len(s.Skiers),
		"departed", departed,
		"avg_satisfaction", s.AverageSatisfaction(),
	)
}

// stepSkier advances one skier's state machine by dt sim-minutes.
func (s *Simulation) stepSkier(sk *skiers.Skier, dt float64, tick uint64) {
	cfg := s.Cfg
	sk.Needs.Accrue(dt, cfg)
	sk.StateMinutes += dt

	switch sk.State {
	case skiers.StateAtBase:
		s.stepAtBase(sk, tick)

	case skiers.StateWalkingToLift:
		if sk.StateMinutes >= cfg.WalkMinutes {
			sk.Needs.Session.WalkingDistance += cfg.WalkMinutes * 60 // ~1 m/s
			sk.State = skiers.StateInQueue
			sk.StateMinutes = 0
		}

	case skiers.StateInQueue:
		sk.Needs.Session.WaitMinutes += dt
		s.Tracker.OnLiftWait(dt)
		if sk.StateMinutes >= s.queueMinutes(sk.CurrentLiftID) {
			sk.Satisfaction.RecordWait(sk.StateMinutes, cfg)
			s.Tracker.OnLiftEntered(sk.CurrentLiftID)
			sk.State = skiers.StateRidingLift
			sk.StateMinutes = 0
		}

	case skiers.StateRidingLift:
		sk.Needs.Rest(dt, cfg)
		if sk.StateMinutes >= cfg.LiftMinutes {
			s.Tracker.OnLiftExited(sk.CurrentLiftID)
			sk.Goal.Advance()
			s.beginNextStep(sk)
		}

	case skiers.StateSkiingTrail:
		if sk.StateMinutes >= cfg.SkiMinutes {
			s.Tracker.OnTrailCompleted(sk.CurrentTrailID)
			s.completeRun(sk, sk.CurrentTrailID, nil)
			sk.Goal.Advance()
			s.beginNextStep(sk)
		}

	case skiers.StateAtAmenity:
		sk.Needs.Rest(dt, cfg)
		if sk.StateMinutes >= cfg.LodgeMinutes {
			s.lodgeGuests--
			sk.Needs.ResolveAtLodge(s.Economy.LodgePrice, s.Economy.LodgeBasePrice)
			sk.State = skiers.StateAtBase
			sk.StateMinutes = 0
		}
	}
}

// stepAtBase decides what a skier standing at the base does next.
func (s *Simulation) stepAtBase(sk *skiers.Skier, tick uint64) {
	// Urgent needs first.
	if sk.Needs.HasUrgent(s.Cfg) {
		if s.lodgeGuests < s.Cfg.LodgeCapacity {
			s.lodgeGuests++
			sk.State = skiers.StateAtAmenity
			sk.StateMinutes = 0
			return
		}
		sk.Needs.Session.UnfulfilledNeeds++
	}

	if sk.Goal == nil || sk.Goal.Complete {
		goal := s.Planner.ChooseGoal(sk)
		sk.Goal = goal
		if goal.Type == skiers.GoalReturnToBase || goal.Type == skiers.GoalLeaveResort {
			sk.Departed = true
			s.recordEvent(tick, "skier", "skier %d departs after %d runs", sk.ID, sk.RunsCompleted)
			return
		}
	}
	s.beginNextStep(sk)
}

// beginNextStep fires the intent event for the skier's next plan step and
// moves them into the matching state. An exhausted plan drops the skier
// back to the base to pick a new goal next tick.
func (s *Simulation) beginNextStep(sk *skiers.Skier) {
	step, ok := sk.Goal.CurrentStep()
	if !ok {
		if sk.Goal != nil {
			sk.Goal.Complete = true
		}
		sk.State = skiers.StateAtBase
		sk.StateMinutes = 0
		return
	}

	switch step.Type {
	case skiers.StepRideLift:
		s.Tracker.OnLiftIntended(step.EntityID)
		sk.CurrentLiftID = step.EntityID
		sk.State = skiers.StateWalkingToLift
	case skiers.StepSkiTrail:
		s.Tracker.OnTrailIntended(step.EntityID)
		s.Tracker.OnTrailEntered(step.EntityID)
		sk.CurrentTrailID = step.EntityID
		sk.State = skiers.StateSkiingTrail
	}
	sk.StateMinutes = 0
}
