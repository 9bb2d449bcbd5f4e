package krasue

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type spriteField uint8

const (
	fieldX spriteField = iota
	fieldY
	fieldScale
	fieldRotation
)

func (s *Sprite) field(f spriteField) *float64 {
	switch f {
	case fieldX:
		return &s.X
	case fieldY:
		return &s.Y
	case fieldScale:
		return &s.Scale
	default:
		return &s.Rotation
	}
}

// TweenGroup animates up to 2 fields of one sprite in a batch. Create one via
// TweenPosition, TweenScale or TweenRotation and call Update(dt) each tick. The
// group writes the new record back with SpriteBatch.Set, which marks the batch
// dirty. If the sprite is removed, the group stops.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	fields [2]spriteField
	count  int
	batch  *SpriteBatch
	handle Handle
	Done   bool
}

// Update advances all tweens by dt seconds and stores the values on the sprite.
func (g *TweenGroup) Update(dt float32) error {
	if g.Done {
		return nil
	}

	s, err := g.batch.Sprite(g.handle)
	if err != nil {
		g.Done = true
		return nil
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*s.field(g.fields[i]) = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	return g.batch.Set(g.handle, s)
}

func newTweenGroup(b *SpriteBatch, h Handle, duration float32, fn ease.TweenFunc, fields []spriteField, to []float64) (*TweenGroup, error) {
	s, err := b.Sprite(h)
	if err != nil {
		return nil, err
	}
	g := &TweenGroup{count: len(fields), batch: b, handle: h}
	for i, f := range fields {
		g.fields[i] = f
		g.tweens[i] = gween.New(float32(*s.field(f)), float32(to[i]), duration, fn)
	}
	return g, nil
}

// TweenPosition creates a TweenGroup that moves the sprite to (toX, toY) over
// duration seconds using the easing function.
func TweenPosition(b *SpriteBatch, h Handle, toX, toY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	return newTweenGroup(b, h, duration, fn, []spriteField{fieldX, fieldY}, []float64{toX, toY})
}

// TweenScale creates a TweenGroup that animates the sprite's scale.
func TweenScale(b *SpriteBatch, h Handle, to float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	return newTweenGroup(b, h, duration, fn, []spriteField{fieldScale}, []float64{to})
}

// TweenRotation creates a TweenGroup that animates the sprite's rotation, in
// degrees.
func TweenRotation(b *SpriteBatch, h Handle, to float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	return newTweenGroup(b, h, duration, fn, []spriteField{fieldRotation}, []float64{to})
}
