package krasue

import "errors"

var (
	// ErrUnknownHandle is returned when a sprite handle was never assigned by
	// the batch or has already been removed.
	ErrUnknownHandle = errors.New("unknown sprite handle")

	// ErrNotCommitted is returned by SpriteBatch.Draw before the first
	// successful Inscribe.
	ErrNotCommitted = errors.New("sprite batch not inscribed")

	// ErrUnknownImage is returned by a backend when an instance references an
	// image index the registry does not hold.
	ErrUnknownImage = errors.New("unknown image")

	// ErrUnknownBuffer is returned when a buffer id was never allocated or has
	// been released.
	ErrUnknownBuffer = errors.New("unknown buffer")

	// ErrBufferBounds is returned when an upload or draw would read or write
	// past the end of a buffer.
	ErrBufferBounds = errors.New("buffer access out of bounds")

	// ErrNoTarget is returned when drawing or clearing without a bound frame
	// target.
	ErrNoTarget = errors.New("no render target bound")
)
