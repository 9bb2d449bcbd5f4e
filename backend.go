package krasue

// BufferID names a backend-side instance buffer. The zero value NoBuffer never
// refers to an allocated buffer.
type BufferID uint32

// NoBuffer is the BufferID of a batch that has not allocated yet.
const NoBuffer BufferID = 0

// Backend is the capability set a SpriteBatch needs from the graphics layer.
//
// Uploads made before DrawInstanced must be visible to that draw.
type Backend interface {
	// AllocateBuffer allocates a buffer of size bytes when buf is NoBuffer,
	// otherwise resizes buf. It returns the id to use from then on.
	AllocateBuffer(buf BufferID, size int) (BufferID, error)

	// Upload copies data into buf starting at offset.
	Upload(buf BufferID, data []byte, offset int) error

	// DrawInstanced draws the first count instances stored in buf with a
	// single draw submission.
	DrawInstanced(buf BufferID, count int) error

	// Clear fills the current frame target with c.
	Clear(c Color) error

	// ReleaseBuffer frees buf.
	ReleaseBuffer(buf BufferID) error
}
