package krasue

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RenderBehavior selects how often the frame loop draws.
type RenderBehavior uint8

const (
	RenderEachFrame    RenderBehavior = iota // draw on every tick
	RenderConservative                       // draw at most once per interval
)

// String returns the configuration name of the behavior.
func (b RenderBehavior) String() string {
	switch b {
	case RenderEachFrame:
		return "each_frame"
	case RenderConservative:
		return "conservative"
	default:
		return fmt.Sprintf("RenderBehavior(%d)", uint8(b))
	}
}

// ParseRenderBehavior accepts "each_frame" or "conservative". Dashes and case
// are ignored.
func ParseRenderBehavior(s string) (RenderBehavior, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "each_frame", "eachframe", "":
		return RenderEachFrame, nil
	case "conservative":
		return RenderConservative, nil
	}
	return 0, fmt.Errorf("krasue: unknown render behavior %q", s)
}

// UnmarshalYAML decodes a behavior name.
func (b *RenderBehavior) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRenderBehavior(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalYAML encodes the behavior by name.
func (b RenderBehavior) MarshalYAML() (any, error) {
	return b.String(), nil
}

// FrameScheduler decides once per tick whether the frame should be drawn. The
// behavior is fixed at construction.
type FrameScheduler struct {
	behavior RenderBehavior
	interval time.Duration
	acc      time.Duration
}

// NewFrameScheduler creates a scheduler. interval is only used by
// RenderConservative; a non-positive interval draws every tick.
func NewFrameScheduler(behavior RenderBehavior, interval time.Duration) *FrameScheduler {
	return &FrameScheduler{behavior: behavior, interval: interval}
}

// Behavior returns the scheduler's render behavior.
func (s *FrameScheduler) Behavior() RenderBehavior { return s.behavior }

// Interval returns the conservative render interval.
func (s *FrameScheduler) Interval() time.Duration { return s.interval }

// ShouldRender advances the scheduler by elapsed and reports whether this tick
// should draw. In conservative mode the accumulated time resets to zero after
// each authorized draw; time beyond the interval is dropped.
func (s *FrameScheduler) ShouldRender(elapsed time.Duration) bool {
	if s.behavior != RenderConservative || s.interval <= 0 {
		return true
	}
	if elapsed > 0 {
		s.acc += elapsed
	}
	if s.acc < s.interval {
		return false
	}
	s.acc = 0
	return true
}
