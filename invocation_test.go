package krasue

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

type fakeFrameBackend struct {
	*fakeBackend
	binds  int
	resets int
}

func (f *fakeFrameBackend) Bind(*ebiten.Image)     { f.binds++ }
func (f *fakeFrameBackend) FrameStats() FrameStats { return FrameStats{DrawCalls: len(f.draws)} }
func (f *fakeFrameBackend) ResetFrameStats()       { f.resets++ }

func newTestInvocation(cfg Config) (*Invocation, *fakeFrameBackend) {
	fb := &fakeFrameBackend{fakeBackend: newFakeBackend()}
	inv := newInvocation(cfg, NewImageRegistry(), fb)
	inv.quitPressed = func() bool { return false }
	return inv, fb
}

// countingHooks records how often each hook ran.
type countingHooks struct {
	updates, draws int
	drawErr        error
}

func (h *countingHooks) OnUpdate(*Invocation) error { h.updates++; return nil }
func (h *countingHooks) OnDraw(*Invocation) error   { h.draws++; return h.drawErr }

func conservativeConfig(interval time.Duration) Config {
	cfg := DefaultConfig()
	cfg.Behavior = RenderConservative
	cfg.Interval = interval
	return cfg
}

func TestInvocationEachFrameDrawsEveryTick(t *testing.T) {
	inv, fb := newTestInvocation(DefaultConfig())
	hooks := &countingHooks{}
	inv.hooks = hooks

	for i := 0; i < 5; i++ {
		if err := inv.tick(time.Millisecond); err != nil {
			t.Fatal(err)
		}
		if err := inv.drawFrame(nil); err != nil {
			t.Fatal(err)
		}
	}
	if hooks.updates != 5 || hooks.draws != 5 {
		t.Errorf("updates/draws = %d/%d, want 5/5", hooks.updates, hooks.draws)
	}
	if len(fb.clears) != 5 {
		t.Errorf("clears = %d, want 5", len(fb.clears))
	}
	if st := inv.Stats(); st.FramesRendered != 5 || st.FramesSkipped != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestInvocationConservativeSkipsDraws(t *testing.T) {
	inv, _ := newTestInvocation(conservativeConfig(100 * time.Millisecond))
	hooks := &countingHooks{}
	inv.hooks = hooks

	// First frame is always drawn, then 40ms ticks draw on every third tick.
	var drawn []bool
	for i := 0; i < 7; i++ {
		if err := inv.tick(40 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
		before := hooks.draws
		if err := inv.drawFrame(nil); err != nil {
			t.Fatal(err)
		}
		drawn = append(drawn, hooks.draws > before)
	}

	want := []bool{true, false, true, false, false, true, false}
	for i := range want {
		if drawn[i] != want[i] {
			t.Fatalf("drawn = %v, want %v", drawn, want)
		}
	}
	if hooks.updates != 7 {
		t.Errorf("updates = %d, want 7", hooks.updates)
	}
	if st := inv.Stats(); st.FramesRendered != 3 || st.FramesSkipped != 4 {
		t.Errorf("stats = %+v, want 3 rendered / 4 skipped", st)
	}
}

func TestInvocationDrawErrorSurfacesFromUpdate(t *testing.T) {
	inv, _ := newTestInvocation(DefaultConfig())
	boom := errors.New("boom")
	inv.hooks = &countingHooks{drawErr: boom}

	inv.Draw(nil)
	if err := inv.Update(); !errors.Is(err, boom) {
		t.Errorf("Update = %v, want boom", err)
	}
}

func TestInvocationUpdateErrorWrapped(t *testing.T) {
	inv, _ := newTestInvocation(DefaultConfig())
	boom := errors.New("boom")
	inv.hooks = HookFuncs{Update: func(*Invocation) error { return boom }}
	err := inv.tick(0)
	if !errors.Is(err, boom) {
		t.Fatalf("tick = %v, want boom", err)
	}
	if !strings.Contains(err.Error(), "update") {
		t.Errorf("error %q should name the update phase", err)
	}
}

func TestInvocationUpdateMeasuresElapsed(t *testing.T) {
	inv, _ := newTestInvocation(conservativeConfig(100 * time.Millisecond))
	hooks := &countingHooks{}
	inv.hooks = hooks
	inv.stats.FramesRendered = 1 // past the forced first frame

	clock := time.Unix(0, 0)
	inv.now = func() time.Time { return clock }

	if err := inv.Update(); err != nil {
		t.Fatal(err)
	}
	if inv.renderPending {
		t.Error("first Update has no elapsed time and should not authorize a draw")
	}
	clock = clock.Add(150 * time.Millisecond)
	if err := inv.Update(); err != nil {
		t.Fatal(err)
	}
	if !inv.renderPending {
		t.Error("Update after 150ms should authorize a draw")
	}
}

func TestInvocationClearColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClearColor = [3]int{32, 64, 64}
	inv, fb := newTestInvocation(cfg)

	if err := inv.drawFrame(nil); err != nil {
		t.Fatal(err)
	}
	want := ColorFromRGB(32, 64, 64)
	if len(fb.clears) != 1 || fb.clears[0] != want {
		t.Errorf("clears = %v, want [%v]", fb.clears, want)
	}

	inv.SetClearColor(300, -5, 255)
	if got := inv.ClearColor(); got != (Color{1, 0, 1, 1}) {
		t.Errorf("clamped clear color = %v", got)
	}
}

func TestInvocationBatchesShareBackend(t *testing.T) {
	inv, fb := newTestInvocation(DefaultConfig())
	b := inv.NewSpriteBatch()
	b.Add(0, 1, 2, 1, 0)
	if err := b.Inscribe(); err != nil {
		t.Fatal(err)
	}
	inv.hooks = HookFuncs{Draw: func(*Invocation) error { return b.Draw() }}
	if err := inv.drawFrame(nil); err != nil {
		t.Fatal(err)
	}
	if len(fb.draws) != 1 {
		t.Errorf("draws = %d, want 1", len(fb.draws))
	}
	if fb.binds != 2 || fb.resets != 1 {
		t.Errorf("binds/resets = %d/%d, want 2/1", fb.binds, fb.resets)
	}
}

func TestNewInvocationValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if _, err := NewInvocation(cfg); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestInvocationEscapeTerminates(t *testing.T) {
	inv, _ := newTestInvocation(DefaultConfig())
	hooks := &countingHooks{}
	inv.hooks = hooks
	inv.quitPressed = func() bool { return true }
	if err := inv.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
	if hooks.updates != 0 {
		t.Error("OnUpdate should not run once quitting")
	}
}

func TestInvocationLayout(t *testing.T) {
	inv, _ := newTestInvocation(DefaultConfig())
	w, h := inv.Layout(1920, 1080)
	if w != 640 || h != 480 {
		t.Errorf("Layout = %d, %d; want 640, 480", w, h)
	}
}

func TestInvocationRegisterImage(t *testing.T) {
	inv, _ := newTestInvocation(DefaultConfig())
	a := inv.RegisterImage("a", image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	b := inv.RegisterImage("b", image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if a != 0 || b != 1 || inv.RegisterImage("a", nil) != a {
		t.Errorf("indices = %d, %d; want 0, 1 with stable re-registration", a, b)
	}
	if inv.Images().Len() != 2 {
		t.Errorf("Images().Len() = %d, want 2", inv.Images().Len())
	}
}

func TestInvocationLogsEveryDrawError(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	inv, _ := newTestInvocation(DefaultConfig())
	first := errors.New("first")
	second := errors.New("second")
	hooks := &countingHooks{drawErr: first}
	inv.hooks = hooks

	inv.Draw(nil)
	hooks.drawErr = second
	inv.Draw(nil)

	if n := strings.Count(buf.String(), "frame draw failed"); n != 2 {
		t.Errorf("logged %d draw failures, want 2:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "second") {
		t.Error("second failure missing from the log")
	}
	if err := inv.Update(); !errors.Is(err, first) {
		t.Errorf("Update = %v, want the first draw error", err)
	}
}
