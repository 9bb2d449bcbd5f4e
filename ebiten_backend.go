package krasue

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameStats counts backend work since the last ResetFrameStats.
type FrameStats struct {
	DrawCalls     int
	Instances     int
	Uploads       int
	UploadedBytes int
}

// EbitenBackend implements Backend on top of Ebitengine.
//
// Ebitengine exposes no raw GPU buffers, so instance buffers are kept as byte
// slices. DrawInstanced expands every instance into a textured quad and submits
// all of them with a single DrawTriangles32 call against the registry's atlas
// page.
type EbitenBackend struct {
	images *ImageRegistry

	buffers map[BufferID][]byte
	nextID  BufferID

	target *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32

	stats FrameStats
}

// NewEbitenBackend creates a backend that resolves sprite images in images.
func NewEbitenBackend(images *ImageRegistry) *EbitenBackend {
	return &EbitenBackend{
		images:  images,
		buffers: make(map[BufferID][]byte),
	}
}

// Bind sets the image that Clear and DrawInstanced render into. Pass nil to
// unbind.
func (e *EbitenBackend) Bind(target *ebiten.Image) {
	e.target = target
}

// FrameStats returns the counters accumulated since the last reset.
func (e *EbitenBackend) FrameStats() FrameStats {
	return e.stats
}

// ResetFrameStats zeroes the counters.
func (e *EbitenBackend) ResetFrameStats() {
	e.stats = FrameStats{}
}

// AllocateBuffer implements Backend. Resizing keeps the existing prefix.
func (e *EbitenBackend) AllocateBuffer(buf BufferID, size int) (BufferID, error) {
	if size < 0 {
		return buf, fmt.Errorf("allocate %d bytes: %w", size, ErrBufferBounds)
	}
	if buf == NoBuffer {
		e.nextID++
		e.buffers[e.nextID] = make([]byte, size)
		return e.nextID, nil
	}

	data, ok := e.buffers[buf]
	if !ok {
		return buf, fmt.Errorf("resize buffer %d: %w", buf, ErrUnknownBuffer)
	}
	if size <= cap(data) {
		e.buffers[buf] = data[:size]
		return buf, nil
	}
	grown := make([]byte, size)
	copy(grown, data)
	e.buffers[buf] = grown
	return buf, nil
}

// Upload implements Backend.
func (e *EbitenBackend) Upload(buf BufferID, data []byte, offset int) error {
	dst, ok := e.buffers[buf]
	if !ok {
		return fmt.Errorf("upload to buffer %d: %w", buf, ErrUnknownBuffer)
	}
	if offset < 0 || offset+len(data) > len(dst) {
		return fmt.Errorf("upload %d bytes at %d into buffer %d of %d bytes: %w",
			len(data), offset, buf, len(dst), ErrBufferBounds)
	}
	copy(dst[offset:], data)
	e.stats.Uploads++
	e.stats.UploadedBytes += len(data)
	return nil
}

// ReleaseBuffer implements Backend.
func (e *EbitenBackend) ReleaseBuffer(buf BufferID) error {
	if _, ok := e.buffers[buf]; !ok {
		return fmt.Errorf("release buffer %d: %w", buf, ErrUnknownBuffer)
	}
	delete(e.buffers, buf)
	return nil
}

// Clear implements Backend.
func (e *EbitenBackend) Clear(c Color) error {
	if e.target == nil {
		return fmt.Errorf("clear: %w", ErrNoTarget)
	}
	e.target.Fill(c.toRGBA())
	return nil
}

// DrawInstanced implements Backend. Drawing zero instances succeeds without
// submitting anything.
func (e *EbitenBackend) DrawInstanced(buf BufferID, count int) error {
	data, ok := e.buffers[buf]
	if !ok {
		return fmt.Errorf("draw buffer %d: %w", buf, ErrUnknownBuffer)
	}
	if count < 0 || count*InstanceStride > len(data) {
		return fmt.Errorf("draw %d instances from buffer %d of %d bytes: %w",
			count, buf, len(data), ErrBufferBounds)
	}
	if count == 0 {
		return nil
	}
	if e.target == nil {
		return fmt.Errorf("draw: %w", ErrNoTarget)
	}

	e.verts = e.verts[:0]
	e.inds = e.inds[:0]
	for i := 0; i < count; i++ {
		s := UnpackInstance(data[i*InstanceStride:])
		cell, ok := e.images.Cell(s.Image)
		if !ok {
			return fmt.Errorf("draw instance %d: image %d: %w", i, s.Image, ErrUnknownImage)
		}
		e.verts, e.inds = appendInstanceQuad(e.verts, e.inds, cell, s)
	}

	page := e.images.Page()
	if page == nil {
		return fmt.Errorf("draw: atlas page: %w", ErrUnknownImage)
	}

	var op ebiten.DrawTrianglesOptions
	op.Filter = ebiten.FilterLinear
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	e.target.DrawTriangles32(e.verts, e.inds, page, &op)

	e.stats.DrawCalls++
	e.stats.Instances += count
	return nil
}

// appendInstanceQuad appends 4 vertices and 6 indices for one sprite instance.
// The quad is centered on (s.X, s.Y), sized to the source cell times s.Scale,
// and rotated by s.Rotation degrees.
func appendInstanceQuad(verts []ebiten.Vertex, inds []uint32, cell image.Rectangle, s Sprite) ([]ebiten.Vertex, []uint32) {
	hw := float64(cell.Dx()) / 2 * s.Scale
	hh := float64(cell.Dy()) / 2 * s.Scale
	sin, cos := math.Sincos(s.Rotation * math.Pi / 180)

	// TL, TR, BL, BR
	lx := [4]float64{-hw, hw, -hw, hw}
	ly := [4]float64{-hh, -hh, hh, hh}

	x0, y0 := float32(cell.Min.X), float32(cell.Min.Y)
	x1, y1 := float32(cell.Max.X), float32(cell.Max.Y)
	sx := [4]float32{x0, x1, x0, x1}
	sy := [4]float32{y0, y0, y1, y1}

	base := uint32(len(verts))
	for i := 0; i < 4; i++ {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(lx[i]*cos - ly[i]*sin + s.X),
			DstY:   float32(lx[i]*sin + ly[i]*cos + s.Y),
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}
