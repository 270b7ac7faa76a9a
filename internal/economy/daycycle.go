// Package economy is the day-cycle collaborator the flow simulation talks
// to: it supplies the visitor-count target for batch days and receives the
// satisfaction-derived visitor-rate multiplier back.
package economy

// DayCycle is the shared state object between the economy bookkeeping and
// the flow simulation. The core reads VisitorTarget and LodgePrice and
// writes VisitorRateMultiplier after each simulated day.
type DayCycle struct {
	VisitorTarget int `json:"visitor_target"`

	// VisitorRateMultiplier scales tomorrow's arrivals. Written by the
	// simulation from the day's average satisfaction.
	VisitorRateMultiplier float64 `json:"visitor_rate_multiplier"`

	// LodgePrice is today's lodge price; LodgeBasePrice is the baseline
	// visitors judge it against.
	LodgePrice     float64 `json:"lodge_price"`
	LodgeBasePrice float64 `json:"lodge_base_price"`

	Day int `json:"day"`
}

// NewDayCycle starts the bookkeeping with a neutral multiplier.
func NewDayCycle(visitorTarget int, lodgeBasePrice float64) *DayCycle {
	return &DayCycle{
		VisitorTarget:         visitorTarget,
		VisitorRateMultiplier: 1.0,
		LodgePrice:            lodgeBasePrice,
		LodgeBasePrice:        lodgeBasePrice,
	}
}

// TodaysVisitors returns the arrival count after the rate multiplier.
func (d *DayCycle) TodaysVisitors() int {
	n := int(float64(d.VisitorTarget) * d.VisitorRateMultiplier)
	if n < 0 {
		n = 0
	}
	return n
}

// RecordDaySatisfaction writes the satisfaction-derived multiplier back.
// Average satisfaction of 0.5 is neutral; the multiplier is clamped to
// [0.5, 1.5] so one bad day never empties the resort.
func (d *DayCycle) RecordDaySatisfaction(avg float64) {
	m := 0.5 + avg
	if m < 0.5 {
		m = 0.5
	}
	if m > 1.5 {
		m = 1.5
	}
	d.VisitorRateMultiplier = m
	d.Day++
}
