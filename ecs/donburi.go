package ecs

import (
	"fmt"
	"slices"

	"github.com/phanxgames/krasue"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// SpriteComponent marks an entity as drawn by the synced batch.
var SpriteComponent = donburi.NewComponentType[krasue.Sprite]()

// SpriteEventKind says what happened to an entity's sprite.
type SpriteEventKind uint8

const (
	SpriteAdded   SpriteEventKind = iota // entity gained a sprite in the batch
	SpriteRemoved                        // entity's sprite left the batch
)

// SpriteEvent is published for every sprite the sync adds or removes.
type SpriteEvent struct {
	Kind   SpriteEventKind
	Entity donburi.Entity
	Handle krasue.Handle
}

// SpriteEventType is the Donburi event type for SpriteEvent.
var SpriteEventType = events.NewEventType[SpriteEvent]()

// SpriteSync mirrors SpriteComponent values into a SpriteBatch.
type SpriteSync struct {
	world donburi.World
	batch *krasue.SpriteBatch
	query *donburi.Query

	handles map[donburi.Entity]krasue.Handle
	last    map[donburi.Entity]krasue.Sprite
	seen    map[donburi.Entity]struct{}
	gone    []donburi.Entity
	added   []pendingSprite
	changed []pendingSprite
}

type pendingSprite struct {
	entity donburi.Entity
	sprite krasue.Sprite
}

// NewSpriteSync creates a sync between world and batch.
func NewSpriteSync(world donburi.World, batch *krasue.SpriteBatch) *SpriteSync {
	return &SpriteSync{
		world:   world,
		batch:   batch,
		query:   donburi.NewQuery(filter.Contains(SpriteComponent)),
		handles: make(map[donburi.Entity]krasue.Handle),
		last:    make(map[donburi.Entity]krasue.Sprite),
		seen:    make(map[donburi.Entity]struct{}),
	}
}

// Handle returns the batch handle of entity's sprite.
func (s *SpriteSync) Handle(entity donburi.Entity) (krasue.Handle, bool) {
	h, ok := s.handles[entity]
	return h, ok
}

// Len returns the number of synced entities.
func (s *SpriteSync) Len() int {
	return len(s.handles)
}

// Sync adds sprites for new entities, copies changed component values into
// the batch, and removes sprites whose entity was destroyed or lost the
// component. New entities are appended in query order.
//
// Sync is all or nothing: every handle it will touch is checked before the
// batch is modified, so a failed Sync leaves the batch, the sync state and
// the event queue unchanged.
func (s *SpriteSync) Sync() error {
	clear(s.seen)
	s.added = s.added[:0]
	s.changed = s.changed[:0]

	s.query.Each(s.world, func(entry *donburi.Entry) {
		e := entry.Entity()
		sp := *SpriteComponent.Get(entry)
		s.seen[e] = struct{}{}

		if _, ok := s.handles[e]; !ok {
			s.added = append(s.added, pendingSprite{entity: e, sprite: sp})
			return
		}
		if s.last[e] != sp {
			s.changed = append(s.changed, pendingSprite{entity: e, sprite: sp})
		}
	})

	s.gone = s.gone[:0]
	for e := range s.handles {
		if _, ok := s.seen[e]; !ok {
			s.gone = append(s.gone, e)
		}
	}
	slices.SortFunc(s.gone, func(a, b donburi.Entity) int {
		return int(s.handles[a]) - int(s.handles[b])
	})

	for _, p := range s.changed {
		if _, err := s.batch.Sprite(s.handles[p.entity]); err != nil {
			return fmt.Errorf("ecs: sync entity %v: %w", p.entity, err)
		}
	}
	for _, e := range s.gone {
		if _, err := s.batch.Sprite(s.handles[e]); err != nil {
			return fmt.Errorf("ecs: sync entity %v: %w", e, err)
		}
	}

	// Handles were verified above, so the batch calls below cannot fail.
	for _, p := range s.changed {
		s.batch.Set(s.handles[p.entity], p.sprite)
		s.last[p.entity] = p.sprite
	}
	for _, e := range s.gone {
		h := s.handles[e]
		s.batch.Remove(h)
		delete(s.handles, e)
		delete(s.last, e)
		SpriteEventType.Publish(s.world, SpriteEvent{Kind: SpriteRemoved, Entity: e, Handle: h})
	}
	for _, p := range s.added {
		h := s.batch.AddSprite(p.sprite)
		s.handles[p.entity] = h
		s.last[p.entity] = p.sprite
		SpriteEventType.Publish(s.world, SpriteEvent{Kind: SpriteAdded, Entity: p.entity, Handle: h})
	}
	return nil
}
