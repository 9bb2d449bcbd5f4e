// Package ecs keeps a krasue sprite batch in step with a [Donburi] world.
//
// Entities carrying [SpriteComponent] get a sprite in the batch. Call
// [SpriteSync.Sync] once per tick, after your systems ran and before the batch
// is drawn:
//
//	sync := ecs.NewSpriteSync(world, batch)
//	// each tick
//	if err := sync.Sync(); err != nil {
//		return err
//	}
//
// Additions and removals are published as [SpriteEventType] events.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
