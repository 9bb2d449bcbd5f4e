// Package krasue is a small GPU-driven 2D sprite renderer for [Ebitengine].
//
// Sprites are plain transform records collected in a [SpriteBatch]. A batch is
// packed into one instance buffer and drawn with one draw call, instead of one
// call per sprite.
//
// # Quick start
//
//	inv, err := krasue.NewInvocation(krasue.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	ghost, err := inv.LoadImage("ghost.png")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	batch := inv.NewSpriteBatch()
//	batch.Add(ghost, 320, 240, 1, 0)
//	if err := batch.Inscribe(); err != nil {
//		log.Fatal(err)
//	}
//
//	err = inv.Run(krasue.HookFuncs{
//		Draw: func(*krasue.Invocation) error { return batch.Draw() },
//	})
//
// # Batch lifecycle
//
// [SpriteBatch.Add] and [SpriteBatch.Remove] edit the CPU-side sprite list and
// return or consume stable [Handle] values. Handles are never reused, and
// removing a sprite keeps the others in their draw order. [SpriteBatch.Inscribe]
// commits the list to the backend buffer. [SpriteBatch.Draw] submits it, first
// re-inscribing if the batch changed since the last commit.
//
// # Frame pacing
//
// [RenderEachFrame] draws on every tick. [RenderConservative] draws at most once
// per configured interval; update hooks still run every tick. See
// [FrameScheduler].
//
// # Backends
//
// Batches only talk to the [Backend] interface. [EbitenBackend] is the
// implementation used by [Invocation]; every registered image is packed into a
// single atlas page so each batch draws from one texture.
//
// [Ebitengine]: https://ebitengine.org
package krasue
