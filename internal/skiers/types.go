// Package skiers provides the visitor agent data model: skill levels,
// discrete movement states, needs, satisfaction, and goal plans.
package skiers

import (
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
)

// SkierID is a unique identifier for a skier agent.
type SkierID uint64

// SkillLevel orders skier ability. Indexes align with resort.Difficulty:
// a skill "matches" the difficulty at the same index.
type SkillLevel uint8

const (
	SkillBeginner SkillLevel = iota
	SkillIntermediate
	SkillAdvanced
	SkillExpert
)

// NumSkills is the number of skill levels.
const NumSkills = 4

// SkillName returns a display name for a skill level.
func SkillName(s SkillLevel) string {
	switch s {
	case SkillBeginner:
		return "Beginner"
	case SkillIntermediate:
		return "Intermediate"
	case SkillAdvanced:
		return "Advanced"
	case SkillExpert:
		return "Expert"
	}
	return "Unknown"
}

// State is a skier's discrete movement state. Agents are tokens moving
// through graph nodes, not continuous trajectories.
type State uint8

const (
	StateAtBase State = iota
	StateWalkingToLift
	StateInQueue
	StateRidingLift
	StateSkiingTrail
	StateAtAmenity
)

// StateName returns a display name for a skier state.
func StateName(s State) string {
	switch s {
	case StateAtBase:
		return "AtBase"
	case StateWalkingToLift:
		return "WalkingToLift"
	case StateInQueue:
		return "InQueue"
	case StateRidingLift:
		return "RidingLift"
	case StateSkiingTrail:
		return "SkiingTrail"
	case StateAtAmenity:
		return "AtAmenity"
	}
	return "Unknown"
}

// GoalType enumerates what a skier is currently trying to do.
type GoalType uint8

const (
	GoalNone GoalType = iota
	GoalSkiPreferredTrail
	GoalSkiSpecificTrail
	GoalRideLift
	GoalWaitInQueue
	GoalReturnToBase
	GoalLeaveResort
)

// StepType enumerates plan step kinds.
type StepType uint8

const (
	StepRideLift StepType = iota
	StepSkiTrail
)

// PlanStep is one hop of an ordered action plan.
type PlanStep struct {
	Type     StepType        `json:"type"`
	EntityID resort.EntityID `json:"entity_id"`
	Name     string          `json:"name"`
}

// Goal is a skier's current objective plus the plan to reach it. Created
// fresh each time an agent needs an objective; consumed step by step.
type Goal struct {
	Type             GoalType        `json:"type"`
	DestinationTrail resort.EntityID `json:"destination_trail,omitempty"`
	Steps            []PlanStep      `json:"steps,omitempty"`
	StepIndex        int             `json:"step_index"`
	Priority         float64         `json:"priority"`
	Complete         bool            `json:"complete"`
}

// CurrentStep returns the active plan step, or false when the plan is
// exhausted.
func (g *Goal) CurrentStep() (PlanStep, bool) {
	if g == nil || g.StepIndex < 0 || g.StepIndex >= len(g.Steps) {
		return PlanStep{}, false
	}
	return g.Steps[g.StepIndex], true
}

// Advance moves to the next step, marking the goal complete at the end.
func (g *Goal) Advance() {
	g.StepIndex++
	if g.StepIndex >= len(g.Steps) {
		g.Complete = true
	}
}

// Skier is a visitor agent. Mutated every simulation step by the decision
// engine and the state-transition handlers.
type Skier struct {
	ID    SkierID    `json:"id"`
	Skill SkillLevel `json:"skill"`

	State          State           `json:"state"`
	CurrentLiftID  resort.EntityID `json:"current_lift_id,omitempty"`
	CurrentTrailID resort.EntityID `json:"current_trail_id,omitempty"`

	RunsCompleted int `json:"runs_completed"`
	DesiredRuns   int `json:"desired_runs"`

	Needs        Needs        `json:"needs"`
	Satisfaction Satisfaction `json:"satisfaction"`

	Goal *Goal `json:"goal,omitempty"`

	// StateMinutes counts sim-minutes spent in the current state, used by
	// the real-time stepper to time transitions.
	StateMinutes float64 `json:"state_minutes"`

	Departed bool `json:"departed"`
}
