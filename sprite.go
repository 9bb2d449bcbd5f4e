package krasue

import (
	"encoding/binary"
	"math"
)

// Sprite is one transform record in a SpriteBatch.
//
// X and Y are the sprite center in screen pixels, origin at the top-left with Y
// increasing downward. Rotation is in degrees; positive values turn the sprite
// clockwise on screen.
type Sprite struct {
	Image    int // image registry index
	X, Y     float64
	Scale    float64
	Rotation float64
}

// NewSprite returns a sprite of the given image at the origin, unscaled and
// unrotated.
func NewSprite(image int) Sprite {
	return Sprite{Image: image, Scale: 1}
}

// InstanceStride is the size in bytes of one packed sprite instance:
//
//	float32 X | float32 Y | float32 Scale | float32 Rotation | uint32 Image
//
// All fields are little endian.
const InstanceStride = 20

// PackInstances appends the packed form of sprites to dst[:0] and returns the
// result. The output depends only on the sprite values.
func PackInstances(dst []byte, sprites []Sprite) []byte {
	dst = dst[:0]
	for i := range sprites {
		s := &sprites[i]
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s.X)))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s.Y)))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s.Scale)))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s.Rotation)))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(s.Image))
	}
	return dst
}

// UnpackInstance decodes the first InstanceStride bytes of b.
func UnpackInstance(b []byte) Sprite {
	_ = b[InstanceStride-1]
	return Sprite{
		X:        float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		Y:        float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		Scale:    float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
		Rotation: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[12:]))),
		Image:    int(binary.LittleEndian.Uint32(b[16:])),
	}
}
