package bingo

import (
	"iter"
	"maps"
	"math"
	"reflect"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// World owns entity id allocation and one component storage per component
// type. It is not safe for concurrent use; callers must serialise access.
type World struct {
	registry        storageRegistry
	log             *zap.Logger
	events          *EventBus
	initialCapacity int
	nextEntityID    uint32
	id              WorldID
}

// Option configures a World.
type Option func(*World) error

// WithFirstEntityID sets the first id CreateEntity returns. It must not be 0.
func WithFirstEntityID(id uint32) Option {
	return func(w *World) error {
		if id == 0 {
			return eris.Wrap(ErrInvalidEntity, "first entity id must be non-zero")
		}
		w.nextEntityID = id
		return nil
	}
}

// WithInitialCapacity sets how many components each new storage holds before
// its dense arrays grow.
func WithInitialCapacity(n int) Option {
	return func(w *World) error {
		if n < 1 {
			return eris.Errorf("bingo: initial capacity %d must be positive", n)
		}
		w.initialCapacity = n
		return nil
	}
}

// WithLogger sets the logger used for diagnostic records on cold paths such
// as storage creation and growth.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) error {
		if log != nil {
			w.log = log
		}
		return nil
	}
}

// WithEventBus makes the world publish EntityCreated, ComponentAdded and
// ComponentRemoved on bus.
func WithEventBus(bus *EventBus) Option {
	return func(w *World) error {
		w.events = bus
		return nil
	}
}

// NewWorld creates a World and registers it in the process-wide world table.
//
// Parameters:
//   - opts: Options applied in order. The defaults are: first entity id 1,
//     one sparse page worth of initial storage capacity, a no-op logger and no
//     event bus.
//
// Returns:
//   - The new World, or the first option error. ErrWorldLimit once every
//     WorldID is in use.
func NewWorld(opts ...Option) (*World, error) {
	w := &World{
		registry:        newStorageRegistry(),
		log:             zap.NewNop(),
		initialCapacity: int(pageSize),
		nextEntityID:    1,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if err := registerWorld(w); err != nil {
		return nil, err
	}
	w.log.Debug("world registered",
		zap.Uint16("world", uint16(w.id)),
		zap.Uint32("first_entity", w.nextEntityID))
	return w, nil
}

// ID returns the world's id in the world table.
func (w *World) ID() WorldID {
	return w.id
}

// NextEntityID returns the id the next CreateEntity call will issue.
func (w *World) NextEntityID() uint32 {
	return w.nextEntityID
}

// CreateEntity issues a new entity. Ids increase monotonically and 0 is never
// issued. It panics once the id space is exhausted.
func (w *World) CreateEntity() Entity {
	if w.nextEntityID == math.MaxUint32 {
		panic("bingo: entity ids exhausted")
	}
	e := Entity{ID: w.nextEntityID, world: w.id}
	w.nextEntityID++
	if w.events != nil {
		Publish(w.events, EntityCreated{Entity: e})
	}
	return e
}

// CreateEntityWithID returns the handle for a caller-chosen id. Ids at or
// beyond NextEntityID move the allocator past them so they are never issued
// again by CreateEntity.
func (w *World) CreateEntityWithID(id uint32) (Entity, error) {
	if id == 0 || id == math.MaxUint32 {
		return Entity{}, eris.Wrapf(ErrInvalidEntity, "cannot issue entity %d", id)
	}
	if id >= w.nextEntityID {
		w.nextEntityID = id + 1
	}
	e := Entity{ID: id, world: w.id}
	if w.events != nil {
		Publish(w.events, EntityCreated{Entity: e})
	}
	return e, nil
}

// IsIssued returns nil when e belongs to w and its id was issued by w. It
// returns ErrInvalidEntity for id 0 or an id beyond the allocator, and
// ErrInvalidWorld for an entity of another world.
func (w *World) IsIssued(e Entity) error {
	if e.ID == 0 {
		return eris.Wrap(ErrInvalidEntity, "entity 0 is never issued")
	}
	if e.world != w.id {
		return eris.Wrapf(ErrInvalidWorld, "entity %d belongs to world %d, not %d", e.ID, e.world, w.id)
	}
	if e.ID >= w.nextEntityID {
		return eris.Wrapf(ErrInvalidEntity, "entity %d was not issued by world %d", e.ID, w.id)
	}
	return nil
}

// ComponentTypes yields every component type that was added to an entity of
// this world at least once, in no particular order.
func (w *World) ComponentTypes() iter.Seq[reflect.Type] {
	return maps.Keys(w.registry.added)
}

// ComponentTypeCount returns the number of types ComponentTypes yields.
func (w *World) ComponentTypeCount() int {
	return len(w.registry.added)
}

// RemoveAll removes every component e has, running each OnDestroy hook.
func (w *World) RemoveAll(e Entity) error {
	if err := w.IsIssued(e); err != nil {
		return err
	}
	for _, s := range w.registry.storages {
		if !s.has(e) {
			continue
		}
		if err := s.remove(e); err != nil {
			return err
		}
		if w.events != nil {
			Publish(w.events, ComponentRemoved{Entity: e, Type: s.Type()})
		}
	}
	return nil
}

// Add attaches v to e as its component of type T.
//
// Parameters:
//   - w: The World that issued e.
//   - e: The entity to modify.
//   - v: The component value, copied into the storage.
//
// Returns:
//   - ErrInvalidWorld or ErrInvalidEntity if e was not issued by w.
//   - ErrDuplicateComponent if e already has a T; nothing changes.
func Add[T Component](w *World, e Entity, v T) error {
	if err := w.IsIssued(e); err != nil {
		return err
	}
	s := storageFor[T](w)
	if err := s.Add(e, v); err != nil {
		return err
	}
	w.registry.markAdded(s.typ)
	if w.events != nil {
		Publish(w.events, ComponentAdded{Entity: e, Type: s.typ})
	}
	return nil
}

// Remove detaches e's component of type T after running its OnDestroy hook.
//
// Returns:
//   - ErrInvalidWorld or ErrInvalidEntity if e was not issued by w.
//   - ErrMissingComponent if e has no T.
func Remove[T Component](w *World, e Entity) error {
	if err := w.IsIssued(e); err != nil {
		return err
	}
	s := storageFor[T](w)
	if err := s.Remove(e); err != nil {
		return err
	}
	if w.events != nil {
		Publish(w.events, ComponentRemoved{Entity: e, Type: s.typ})
	}
	return nil
}

// Get returns a pointer to e's component of type T. The pointer is valid
// until the next Add or Remove of a T in w. This is the checked form; use
// StorageOf(w).Get inside hot loops where presence is already known.
func Get[T Component](w *World, e Entity) (*T, error) {
	if err := w.IsIssued(e); err != nil {
		return nil, err
	}
	return storageFor[T](w).Lookup(e)
}

// Has reports whether e has a component of type T. Entities not issued by w
// never have components.
func Has[T Component](w *World, e Entity) bool {
	if w.IsIssued(e) != nil {
		return false
	}
	return storageFor[T](w).Has(e)
}

// EntitiesWith returns every entity that has a component of type T. The
// slice aliases live storage: writing to it corrupts the storage, and it is
// invalidated by the next Add or Remove of a T. Index k corresponds to index
// k of ComponentsOf. Use StorageOf(w).All or a Filter to iterate, and
// slices.Clone for a snapshot that outlives mutations.
func EntitiesWith[T Component](w *World) []Entity {
	return storageFor[T](w).Entities()
}

// ComponentsOf returns the components of type T, parallel to EntitiesWith.
// Elements may be updated in place; the same invalidation rule applies.
func ComponentsOf[T Component](w *World) []T {
	return storageFor[T](w).Values()
}

// StorageOf returns w's storage for T, for callers that iterate or access
// components without the per-call validation the World functions perform.
func StorageOf[T Component](w *World) *Storage[T] {
	return storageFor[T](w)
}
