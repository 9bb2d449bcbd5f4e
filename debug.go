package krasue

import "time"

// InvocationStats counts frames handled by the frame loop.
type InvocationStats struct {
	FramesRendered int // frames where OnDraw ran
	FramesSkipped  int // frames the scheduler withheld
}

// Stats returns the frame counters.
func (inv *Invocation) Stats() InvocationStats {
	return inv.stats
}

// debugLog records timing and draw-call stats for one rendered frame.
func (inv *Invocation) debugLog(drawTime time.Duration, fs FrameStats) {
	Logger().Debug("frame",
		"draw", drawTime,
		"draw_calls", fs.DrawCalls,
		"instances", fs.Instances,
		"uploads", fs.Uploads,
		"uploaded_bytes", fs.UploadedBytes,
		"rendered", inv.stats.FramesRendered,
		"skipped", inv.stats.FramesSkipped)
}
