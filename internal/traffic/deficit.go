// Package traffic maintains live occupancy, capacity, and pending-intent
// counters per trail and lift, and derives a self-balancing deficit score
// after every state-changing event. Positive deficit means under-used.
//
// The signal is self-damping: steering agents toward a high-deficit entity
// raises its load share and shrinks its own deficit, so no central
// controller is needed to prevent runaway.
package traffic

import (
	"sync"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
)

// recentChoiceWindow is the ring buffer size per category used for the
// anti-herding "recent popularity" fraction.
const recentChoiceWindow = 8

// Info is the per-entity counter set.
type Info struct {
	Capacity      float64 `json:"capacity"`
	Occupancy     int     `json:"occupancy"`
	PendingIntent int     `json:"pending_intent"`
	Deficit       float64 `json:"deficit"`
}

// EffectiveLoad is occupancy plus committed-but-not-yet-arrived intent.
func (i Info) EffectiveLoad() int {
	return i.Occupancy + i.PendingIntent
}

// category holds one entity class (all trails, or all lifts).
type category struct {
	entities map[resort.EntityID]*Info

	recent    [recentChoiceWindow]resort.EntityID
	recentLen int
	recentPos int
}

func newCategory() *category {
	return &category{entities: make(map[resort.EntityID]*Info)}
}

func (c *category) get(id resort.EntityID) *Info {
	info, ok := c.entities[id]
	if !ok {
		return nil
	}
	return info
}

func (c *category) pushRecent(id resort.EntityID) {
	c.recent[c.recentPos] = id
	c.recentPos = (c.recentPos + 1) % recentChoiceWindow
	if c.recentLen < recentChoiceWindow {
		c.recentLen++
	}
}

func (c *category) recentPopularity(id resort.EntityID) float64 {
	if c.recentLen == 0 {
		return 0
	}
	n := 0
	for i := 0; i < c.recentLen; i++ {
		if c.recent[i] == id {
			n++
		}
	}
	return float64(n) / float64(c.recentLen)
}

// recompute refreshes every entity's deficit from the aggregate state.
// With zero total load (empty resort) the deficit falls back to the pure
// capacity share; with zero total capacity it is zero.
func (c *category) recompute() {
	totalCap := 0.0
	totalLoad := 0
	for _, info := range c.entities {
		totalCap += info.Capacity
		totalLoad += info.EffectiveLoad()
	}
	for _, info := range c.entities {
		if totalCap <= 0 {
			info.Deficit = 0
			continue
		}
		targetShare := info.Capacity / totalCap
		if totalLoad <= 0 {
			info.Deficit = targetShare
			continue
		}
		currentShare := float64(info.EffectiveLoad()) / float64(totalLoad)
		info.Deficit = targetShare - currentShare
	}
}

// Tracker owns the trail and lift categories. All mutating calls are
// serialized; the deficit recomputation never reads a half-updated set.
type Tracker struct {
	mu     sync.Mutex
	trails *category
	lifts  *category

	// WaitMinutes accumulates reported lift waits — the hook for future
	// first-class queue accounting.
	WaitMinutes float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{trails: newCategory(), lifts: newCategory()}
}

// RegisterTrail starts tracking a trail with the given capacity.
func (t *Tracker) RegisterTrail(id resort.EntityID, capacity float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trails.entities[id] = &Info{Capacity: capacity}
	t.trails.recompute()
}

// RegisterLift starts tracking a lift with the given capacity.
func (t *Tracker) RegisterLift(id resort.EntityID, capacity float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lifts.entities[id] = &Info{Capacity: capacity}
	t.lifts.recompute()
}

// UnregisterTrail stops tracking a trail (infrastructure removed).
func (t *Tracker) UnregisterTrail(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.trails.entities, id)
	t.trails.recompute()
}

// UnregisterLift stops tracking a lift.
func (t *Tracker) UnregisterLift(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lifts.entities, id)
	t.lifts.recompute()
}

// intend increments pending intent before the agent physically starts, so
// the next agent's decision already sees the commitment, and records the
// choice in the category's ring buffer.
func intend(c *category, id resort.EntityID) {
	if info := c.get(id); info != nil {
		info.PendingIntent++
	}
	c.pushRecent(id)
	c.recompute()
}

// enter converts one unit of pending intent into occupancy. Net zero to
// effective load: intent and occupancy are two phases of one commitment.
func enter(c *category, id resort.EntityID) {
	if info := c.get(id); info != nil {
		if info.PendingIntent > 0 {
			info.PendingIntent--
		}
		info.Occupancy++
	}
	c.recompute()
}

// leave decrements occupancy, clamped at zero.
func leave(c *category, id resort.EntityID) {
	if info := c.get(id); info != nil {
		if info.Occupancy > 0 {
			info.Occupancy--
		}
	}
	c.recompute()
}

// OnTrailIntended records a skier committing to ski a trail.
func (t *Tracker) OnTrailIntended(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	intend(t.trails, id)
}

// OnTrailEntered records a skier starting down a trail.
func (t *Tracker) OnTrailEntered(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	enter(t.trails, id)
}

// OnTrailCompleted records a skier finishing a trail.
func (t *Tracker) OnTrailCompleted(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	leave(t.trails, id)
}

// OnLiftIntended records a skier committing to ride a lift.
func (t *Tracker) OnLiftIntended(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	intend(t.lifts, id)
}

// OnLiftEntered records a skier boarding a lift.
func (t *Tracker) OnLiftEntered(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	enter(t.lifts, id)
}

// OnLiftExited records a skier leaving a lift at the top.
func (t *Tracker) OnLiftExited(id resort.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	leave(t.lifts, id)
}

// OnLiftWait accumulates reported queue time. Queue delay is not yet a
// first-class resource; this feeds the satisfaction wait penalty only.
func (t *Tracker) OnLiftWait(minutes float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.WaitMinutes += minutes
}

// GetTrailDeficit returns a trail's current deficit score.
func (t *Tracker) GetTrailDeficit(id resort.EntityID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if info := t.trails.get(id); info != nil {
		return info.Deficit
	}
	return 0
}

// GetLiftDeficit returns a lift's current deficit score.
func (t *Tracker) GetLiftDeficit(id resort.EntityID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if info := t.lifts.get(id); info != nil {
		return info.Deficit
	}
	return 0
}

// TrailInfo returns a copy of a trail's counters.
func (t *Tracker) TrailInfo(id resort.EntityID) (Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if info := t.trails.get(id); info != nil {
		return *info, true
	}
	return Info{}, false
}

// LiftInfo returns a copy of a lift's counters.
func (t *Tracker) LiftInfo(id resort.EntityID) (Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if info := t.lifts.get(id); info != nil {
		return *info, true
	}
	return Info{}, false
}

// TrailPopularity returns the fraction of recent trail choices that picked
// this trail — the anti-herding input for the decision layer.
func (t *Tracker) TrailPopularity(id resort.EntityID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trails.recentPopularity(id)
}

// LiftPopularity returns the fraction of recent lift choices for this lift.
func (t *Tracker) LiftPopularity(id resort.EntityID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lifts.recentPopularity(id)
}

// CrowdingRatio returns effectiveLoad / capacity for a trail, the UI's
// crowding readout. Zero capacity yields zero.
func (t *Tracker) CrowdingRatio(id resort.EntityID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := t.trails.get(id)
	if info == nil || info.Capacity <= 0 {
		return 0
	}
	return float64(info.EffectiveLoad()) / info.Capacity
}

// LiftCrowdingRatio returns effectiveLoad / capacity for a lift.
func (t *Tracker) LiftCrowdingRatio(id resort.EntityID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := t.lifts.get(id)
	if info == nil || info.Capacity <= 0 {
		return 0
	}
	return float64(info.EffectiveLoad()) / info.Capacity
}
