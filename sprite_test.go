package krasue

import (
	"bytes"
	"testing"
)

func TestNewSpriteDefaults(t *testing.T) {
	s := NewSprite(3)
	if s.Image != 3 || s.X != 0 || s.Y != 0 || s.Scale != 1 || s.Rotation != 0 {
		t.Errorf("NewSprite(3) = %+v", s)
	}
}

func TestPackInstancesLayout(t *testing.T) {
	sprites := []Sprite{
		{Image: 1, X: 10, Y: 20, Scale: 0.5, Rotation: 90},
		{Image: 65536, X: -3, Y: 4.25, Scale: 2, Rotation: -45},
	}
	packed := PackInstances(nil, sprites)
	if len(packed) != 2*InstanceStride {
		t.Fatalf("len = %d, want %d", len(packed), 2*InstanceStride)
	}
	for i, want := range sprites {
		if got := UnpackInstance(packed[i*InstanceStride:]); got != want {
			t.Errorf("instance %d = %+v, want %+v", i, got, want)
		}
	}

	// X = 10.0 as float32 little endian: 0x41200000
	if !bytes.Equal(packed[0:4], []byte{0x00, 0x00, 0x20, 0x41}) {
		t.Errorf("X bytes = % x", packed[0:4])
	}
	// Image index sits in the last 4 bytes.
	if !bytes.Equal(packed[16:20], []byte{1, 0, 0, 0}) {
		t.Errorf("image bytes = % x", packed[16:20])
	}
}

func TestPackInstancesReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 4*InstanceStride)
	out := PackInstances(buf, []Sprite{NewSprite(0)})
	if &out[0] != &buf[:1][0] {
		t.Error("PackInstances should reuse dst capacity")
	}
	out = PackInstances(out, nil)
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}
