package krasue

import "fmt"

const defaultBatchCap = 64

// SpriteBatch is an ordered group of sprites drawn with one instanced draw
// call. Sprites are added and removed on the CPU side; Inscribe packs them into
// a backend buffer and Draw submits that buffer.
//
// A SpriteBatch is not safe for concurrent use.
type SpriteBatch struct {
	backend Backend

	sprites []Sprite
	handles *HandleTable

	packed  []byte
	buf     BufferID
	bufSize int

	committed bool
	dirty     bool
}

// NewSpriteBatch creates an empty, uncommitted batch drawing through backend.
func NewSpriteBatch(backend Backend) *SpriteBatch {
	return &SpriteBatch{
		backend: backend,
		sprites: make([]Sprite, 0, defaultBatchCap),
		handles: NewHandleTable(),
	}
}

// Add appends a sprite to the end of the batch and returns its handle. The
// image index is not validated here; a bad index surfaces from the backend at
// Inscribe or Draw time.
func (b *SpriteBatch) Add(image int, x, y, scale, rotation float64) Handle {
	return b.AddSprite(Sprite{Image: image, X: x, Y: y, Scale: scale, Rotation: rotation})
}

// AddSprite appends s to the end of the batch and returns its handle.
func (b *SpriteBatch) AddSprite(s Sprite) Handle {
	h := b.handles.Assign()
	b.handles.Bind(h, len(b.sprites))
	b.sprites = append(b.sprites, s)
	b.touch()
	return h
}

// Remove deletes the sprite named by h. Every later sprite moves one slot
// forward so the draw order of the remaining sprites is unchanged. The handle
// is never handed out again.
func (b *SpriteBatch) Remove(h Handle) error {
	pos, err := b.handles.Lookup(h)
	if err != nil {
		return fmt.Errorf("krasue: remove: %w", err)
	}

	copy(b.sprites[pos:], b.sprites[pos+1:])
	b.sprites = b.sprites[:len(b.sprites)-1]

	b.handles.Unbind(h)
	for i := pos; i < len(b.sprites); i++ {
		b.handles.Bind(b.handles.Owner(i+1), i)
	}
	b.handles.Truncate(len(b.sprites))

	b.touch()
	return nil
}

// Set replaces the record of the sprite named by h in place.
func (b *SpriteBatch) Set(h Handle, s Sprite) error {
	pos, err := b.handles.Lookup(h)
	if err != nil {
		return fmt.Errorf("krasue: set: %w", err)
	}
	b.sprites[pos] = s
	b.touch()
	return nil
}

// Sprite returns the current record of the sprite named by h.
func (b *SpriteBatch) Sprite(h Handle) (Sprite, error) {
	pos, err := b.handles.Lookup(h)
	if err != nil {
		return Sprite{}, fmt.Errorf("krasue: sprite: %w", err)
	}
	return b.sprites[pos], nil
}

// Handles returns the live handles in draw order.
func (b *SpriteBatch) Handles() []Handle {
	out := make([]Handle, len(b.sprites))
	for i := range out {
		out[i] = b.handles.Owner(i)
	}
	return out
}

// Len returns the number of live sprites.
func (b *SpriteBatch) Len() int {
	return len(b.sprites)
}

// Committed reports whether Inscribe has succeeded at least once.
func (b *SpriteBatch) Committed() bool {
	return b.committed
}

// Dirty reports whether the batch changed since the last Inscribe.
func (b *SpriteBatch) Dirty() bool {
	return b.dirty
}

func (b *SpriteBatch) touch() {
	if b.committed {
		b.dirty = true
	}
}

// Inscribe packs every live sprite into the batch's backend buffer, allocating
// it on first use and resizing it when the sprite count changed. Each call
// re-derives the whole buffer from the current sprites.
func (b *SpriteBatch) Inscribe() error {
	b.packed = PackInstances(b.packed, b.sprites)
	size := len(b.packed)

	if b.buf == NoBuffer || size != b.bufSize {
		buf, err := b.backend.AllocateBuffer(b.buf, size)
		if err != nil {
			return fmt.Errorf("krasue: inscribe: %w", err)
		}
		b.buf = buf
		b.bufSize = size
	}
	if err := b.backend.Upload(b.buf, b.packed, 0); err != nil {
		return fmt.Errorf("krasue: inscribe: %w", err)
	}

	b.committed = true
	b.dirty = false
	Logger().Debug("sprite batch inscribed", "buffer", b.buf, "sprites", len(b.sprites), "bytes", size)
	return nil
}

// Draw submits the batch with a single instanced draw call. A batch modified
// since its last Inscribe is re-inscribed first, so Draw never shows stale
// sprites. Draw fails with ErrNotCommitted until Inscribe has succeeded once.
func (b *SpriteBatch) Draw() error {
	if !b.committed {
		return fmt.Errorf("krasue: draw: %w", ErrNotCommitted)
	}
	if b.dirty {
		if err := b.Inscribe(); err != nil {
			return err
		}
	}
	if err := b.backend.DrawInstanced(b.buf, len(b.sprites)); err != nil {
		return fmt.Errorf("krasue: draw: %w", err)
	}
	return nil
}

// Dispose releases the backend buffer. The batch keeps its sprites and can be
// inscribed again, which allocates a new buffer.
func (b *SpriteBatch) Dispose() error {
	if b.buf == NoBuffer {
		return nil
	}
	err := b.backend.ReleaseBuffer(b.buf)
	b.buf = NoBuffer
	b.bufSize = 0
	b.committed = false
	b.dirty = false
	if err != nil {
		return fmt.Errorf("krasue: dispose: %w", err)
	}
	return nil
}
