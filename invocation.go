package krasue

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Hooks receives the per-tick callbacks of an Invocation. OnUpdate runs every
// tick; OnDraw runs only on ticks the frame scheduler authorizes.
type Hooks interface {
	OnUpdate(inv *Invocation) error
	OnDraw(inv *Invocation) error
}

// HookFuncs adapts plain functions to Hooks. Nil fields are no-ops.
type HookFuncs struct {
	Update func(inv *Invocation) error
	Draw   func(inv *Invocation) error
}

// OnUpdate implements Hooks.
func (h HookFuncs) OnUpdate(inv *Invocation) error {
	if h.Update == nil {
		return nil
	}
	return h.Update(inv)
}

// OnDraw implements Hooks.
func (h HookFuncs) OnDraw(inv *Invocation) error {
	if h.Draw == nil {
		return nil
	}
	return h.Draw(inv)
}

// frameBackend is the Backend plus the per-frame controls the loop needs.
type frameBackend interface {
	Backend
	Bind(target *ebiten.Image)
	FrameStats() FrameStats
	ResetFrameStats()
}

// Invocation is the process-scoped rendering context: it owns the image
// registry, the backend and the frame scheduler, and drives the frame loop
// through Ebitengine. Create one at startup, register images and build sprite
// batches, then call Run.
type Invocation struct {
	cfg        Config
	images     *ImageRegistry
	backend    frameBackend
	scheduler  *FrameScheduler
	clearColor Color
	hooks      Hooks

	now           func() time.Time
	quitPressed   func() bool
	last          time.Time
	renderPending bool
	err           error

	stats InvocationStats
}

// NewInvocation validates cfg and creates the rendering context.
func NewInvocation(cfg Config) (*Invocation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	images := NewImageRegistry()
	return newInvocation(cfg, images, NewEbitenBackend(images)), nil
}

func newInvocation(cfg Config, images *ImageRegistry, backend frameBackend) *Invocation {
	return &Invocation{
		cfg:        cfg,
		images:     images,
		backend:    backend,
		scheduler:  NewFrameScheduler(cfg.Behavior, cfg.Interval),
		clearColor: ColorFromRGB(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2]),
		hooks:      HookFuncs{},
		now:        time.Now,
		quitPressed: func() bool {
			return ebiten.IsKeyPressed(ebiten.KeyEscape)
		},
	}
}

// Config returns the configuration the invocation was created with, with the
// current title.
func (inv *Invocation) Config() Config { return inv.cfg }

// Images returns the image registry.
func (inv *Invocation) Images() *ImageRegistry { return inv.images }

// Backend returns the backend sprite batches draw through.
func (inv *Invocation) Backend() Backend { return inv.backend }

// Scheduler returns the frame scheduler.
func (inv *Invocation) Scheduler() *FrameScheduler { return inv.scheduler }

// LoadImage loads an image file into the registry. The same path always
// yields the same index.
func (inv *Invocation) LoadImage(path string) (int, error) {
	return inv.images.LoadImage(path)
}

// RegisterImage adds an in-memory image under name and returns its index.
func (inv *Invocation) RegisterImage(name string, img image.Image) int {
	return inv.images.RegisterImage(name, img)
}

// NewSpriteBatch creates an empty batch bound to this invocation's backend.
func (inv *Invocation) NewSpriteBatch() *SpriteBatch {
	return NewSpriteBatch(inv.backend)
}

// SetClearColor sets the color the frame is cleared to before OnDraw. Channels
// are 8-bit values clamped to [0, 255].
func (inv *Invocation) SetClearColor(r, g, b int) {
	inv.clearColor = ColorFromRGB(r, g, b)
}

// ClearColor returns the current clear color.
func (inv *Invocation) ClearColor() Color { return inv.clearColor }

// SetTitle sets the window title.
func (inv *Invocation) SetTitle(title string) {
	inv.cfg.Title = title
	ebiten.SetWindowTitle(title)
}

// Run opens the window and drives hooks until the window is closed, Escape is
// pressed, or a hook returns an error.
func (inv *Invocation) Run(hooks Hooks) error {
	if hooks != nil {
		inv.hooks = hooks
	}

	ebiten.SetWindowSize(inv.cfg.Width, inv.cfg.Height)
	ebiten.SetWindowTitle(inv.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	if inv.cfg.TPS > 0 {
		ebiten.SetTPS(inv.cfg.TPS)
	}
	// Skipped frames must keep the last drawn image on screen.
	ebiten.SetScreenClearedEveryFrame(inv.cfg.Behavior == RenderEachFrame)

	inv.images.Page()

	Logger().Info("window opened",
		"title", inv.cfg.Title, "width", inv.cfg.Width, "height", inv.cfg.Height,
		"behavior", inv.cfg.Behavior, "interval", inv.cfg.Interval)

	if err := ebiten.RunGame(inv); err != nil {
		return fmt.Errorf("krasue: run: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (inv *Invocation) Update() error {
	if inv.err != nil {
		err := inv.err
		inv.err = nil
		return err
	}
	if inv.quitPressed() {
		return ebiten.Termination
	}

	now := inv.now()
	var elapsed time.Duration
	if !inv.last.IsZero() {
		elapsed = now.Sub(inv.last)
	}
	inv.last = now
	return inv.tick(elapsed)
}

// tick runs the scheduler and the update hook. The first frame is always
// drawn so the window never starts blank.
func (inv *Invocation) tick(elapsed time.Duration) error {
	if inv.scheduler.ShouldRender(elapsed) || inv.stats.FramesRendered == 0 {
		inv.renderPending = true
	}
	if err := inv.hooks.OnUpdate(inv); err != nil {
		return fmt.Errorf("krasue: update: %w", err)
	}
	return nil
}

// Draw implements ebiten.Game. Every failure is logged; the first one is
// returned from the next Update.
func (inv *Invocation) Draw(screen *ebiten.Image) {
	err := inv.drawFrame(screen)
	if err == nil {
		return
	}
	Logger().Warn("frame draw failed", "error", err)
	if inv.err == nil {
		inv.err = err
	}
}

func (inv *Invocation) drawFrame(target *ebiten.Image) error {
	if inv.cfg.Behavior != RenderEachFrame && !inv.renderPending {
		inv.stats.FramesSkipped++
		return nil
	}
	inv.renderPending = false

	inv.backend.Bind(target)
	defer inv.backend.Bind(nil)
	inv.backend.ResetFrameStats()

	var t0 time.Time
	if inv.cfg.Debug {
		t0 = time.Now()
	}

	if err := inv.backend.Clear(inv.clearColor); err != nil {
		return fmt.Errorf("krasue: draw: %w", err)
	}
	if err := inv.hooks.OnDraw(inv); err != nil {
		return fmt.Errorf("krasue: draw: %w", err)
	}
	inv.stats.FramesRendered++

	if inv.cfg.Debug {
		inv.debugLog(time.Since(t0), inv.backend.FrameStats())
	}
	return nil
}

// Layout implements ebiten.Game. The logical screen keeps the configured size.
func (inv *Invocation) Layout(outsideWidth, outsideHeight int) (int, int) {
	return inv.cfg.Width, inv.cfg.Height
}
