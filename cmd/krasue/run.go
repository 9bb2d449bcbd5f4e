package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/krasue"
	"github.com/schollz/progressbar/v3"
	"github.com/tanema/gween/ease"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

// loadConfig resolves the config file and flag overrides into a validated
// Config.
func loadConfig(ctx *cli.Context) (krasue.Config, error) {
	cfg := krasue.DefaultConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = krasue.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet("behavior") {
		b, err := krasue.ParseRenderBehavior(ctx.String("behavior"))
		if err != nil {
			return cfg, err
		}
		cfg.Behavior = b
	}
	if ctx.IsSet("interval") {
		cfg.Interval = ctx.Duration("interval")
	}
	return cfg, cfg.Validate()
}

// PrintConfig writes the effective configuration to stdout.
func PrintConfig(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// Run opens the demo window.
func Run(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	count := ctx.Int("sprites")
	if count < 0 {
		return errors.New("sprite count must not be negative")
	}

	inv, err := krasue.NewInvocation(cfg)
	if err != nil {
		return err
	}

	images, err := loadImages(inv, ctx.StringSlice("image"))
	if err != nil {
		return err
	}

	seed := uint64(ctx.Int64("seed"))
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sc, err := newSpinScene(inv, images, count, rand.New(rand.NewPCG(seed, seed>>1)))
	if err != nil {
		return err
	}

	logger.Info("starting", "sprites", count, "images", len(images), "seed", seed)
	return inv.Run(sc)
}

func loadImages(inv *krasue.Invocation, paths []string) ([]int, error) {
	if len(paths) == 0 {
		return generateShapes(inv), nil
	}

	bar := progressbar.Default(int64(len(paths)), "loading images")
	defer bar.Close()

	out := make([]int, 0, len(paths))
	for _, p := range paths {
		idx, err := inv.LoadImage(p)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
		bar.Add(1)
	}
	return out, nil
}

// generateShapes registers a few solid discs and squares so the demo runs
// without any assets.
func generateShapes(inv *krasue.Invocation) []int {
	palette := []color.NRGBA{
		{0xe0, 0x6c, 0x75, 0xff},
		{0x98, 0xc3, 0x79, 0xff},
		{0x61, 0xaf, 0xef, 0xff},
		{0xe5, 0xc0, 0x7b, 0xff},
	}
	var out []int
	for i, c := range palette {
		out = append(out,
			inv.RegisterImage(fmt.Sprintf("disc-%d", i), disc(16, c)),
			inv.RegisterImage(fmt.Sprintf("square-%d", i), square(12, c)),
		)
	}
	return out
}

func disc(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

func square(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// spinScene scatters sprites over the window and keeps each one spinning.
// Every eighth sprite also drifts towards a new random spot.
type spinScene struct {
	batch  *krasue.SpriteBatch
	rng    *rand.Rand
	width  float64
	height float64
	title  string

	handles []krasue.Handle
	spins   []*krasue.TweenGroup
	drifts  map[krasue.Handle]*krasue.TweenGroup
	fps     *krasue.RateCounter
}

func newSpinScene(inv *krasue.Invocation, images []int, count int, rng *rand.Rand) (*spinScene, error) {
	cfg := inv.Config()
	sc := &spinScene{
		batch:  inv.NewSpriteBatch(),
		rng:    rng,
		width:  float64(cfg.Width),
		height: float64(cfg.Height),
		title:  cfg.Title,
		drifts: make(map[krasue.Handle]*krasue.TweenGroup),
		fps:    krasue.NewRateCounter(time.Second),
	}

	for i := 0; i < count; i++ {
		img := images[rng.IntN(len(images))]
		h := sc.batch.Add(img, rng.Float64()*sc.width, rng.Float64()*sc.height, 0.5+rng.Float64(), 0)
		sc.handles = append(sc.handles, h)

		spin, err := sc.newSpin(h)
		if err != nil {
			return nil, err
		}
		sc.spins = append(sc.spins, spin)

		if i%8 == 0 {
			if sc.drifts[h], err = sc.newDrift(h); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.batch.Inscribe(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *spinScene) newSpin(h krasue.Handle) (*krasue.TweenGroup, error) {
	s, err := sc.batch.Sprite(h)
	if err != nil {
		return nil, err
	}
	s.Rotation = 0
	if err := sc.batch.Set(h, s); err != nil {
		return nil, err
	}
	return krasue.TweenRotation(sc.batch, h, 360, 1+3*sc.rng.Float32(), ease.Linear)
}

func (sc *spinScene) newDrift(h krasue.Handle) (*krasue.TweenGroup, error) {
	return krasue.TweenPosition(sc.batch, h,
		sc.rng.Float64()*sc.width, sc.rng.Float64()*sc.height,
		2+2*sc.rng.Float32(), ease.InOutQuad)
}

// OnUpdate advances every tween by one tick.
func (sc *spinScene) OnUpdate(inv *krasue.Invocation) error {
	dt := 1 / float32(ebiten.TPS())
	for i, g := range sc.spins {
		if err := g.Update(dt); err != nil {
			return err
		}
		if !g.Done {
			continue
		}
		next, err := sc.newSpin(sc.handles[i])
		if err != nil {
			return err
		}
		sc.spins[i] = next
	}
	for h, g := range sc.drifts {
		if err := g.Update(dt); err != nil {
			return err
		}
		if !g.Done {
			continue
		}
		next, err := sc.newDrift(h)
		if err != nil {
			return err
		}
		sc.drifts[h] = next
	}
	return nil
}

// OnDraw draws the batch and refreshes the title with the draw rate next to
// Ebitengine's update rate.
func (sc *spinScene) OnDraw(inv *krasue.Invocation) error {
	if err := sc.batch.Draw(); err != nil {
		return err
	}
	if rate, ok := sc.fps.Tick(time.Now()); ok {
		inv.SetTitle(fmt.Sprintf("%s (%.0f draws/s, %.0f TPS, %d sprites)",
			sc.title, rate, ebiten.ActualTPS(), sc.batch.Len()))
	}
	return nil
}
