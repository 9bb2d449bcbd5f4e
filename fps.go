package krasue

import "time"

// RateCounter measures how often an event happens, reporting roughly once per
// Window. Call Tick each time the event happens, e.g. from OnDraw. Unlike
// ebiten.ActualFPS it only sees frames the scheduler actually drew.
type RateCounter struct {
	Window time.Duration

	start time.Time
	count int
}

// NewRateCounter returns a counter reporting every window.
func NewRateCounter(window time.Duration) *RateCounter {
	return &RateCounter{Window: window}
}

// Tick records one event at now. When at least Window has passed since the
// last report it returns the events per second over that span and true.
func (c *RateCounter) Tick(now time.Time) (float64, bool) {
	if c.start.IsZero() {
		c.start = now
	}
	c.count++
	span := now.Sub(c.start)
	if span < c.Window || span <= 0 {
		return 0, false
	}
	rate := float64(c.count) / span.Seconds()
	c.start = now
	c.count = 0
	return rate, true
}
