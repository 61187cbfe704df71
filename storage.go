package bingo

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Storage holds every component of type T in one world as a sparse set:
// a paged sparse index from entity id to slot, and two parallel dense arrays
// holding the values and their owners.
//
// Slot 0 of both dense arrays is a sentinel. It is never mapped to an entity
// and always holds the zero value, so the occupied range is [1, count).
//
// A Storage is not safe for concurrent use. Pointers returned by Get and
// the slices returned by Entities and Values are only valid until the next
// Add or Remove on the same storage.
type Storage[T Component] struct {
	dense   []T
	owners  []Entity
	sparse  pagedIndex
	typ     reflect.Type
	log     *zap.Logger
	version uint64 // bumped by every Add and Remove
	count   uint32 // occupied slots including the sentinel
}

// NewStorage creates an empty storage with room for capacity components
// before the dense arrays have to grow.
func NewStorage[T Component](capacity int, log *zap.Logger) *Storage[T] {
	if capacity < 1 {
		capacity = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	// one extra for the sentinel
	return &Storage[T]{
		dense:  make([]T, capacity+1),
		owners: make([]Entity, capacity+1),
		typ:    typeOf[T](),
		log:    log,
		count:  1,
	}
}

// Type returns the component type held by the storage.
func (s *Storage[T]) Type() reflect.Type {
	return s.typ
}

// Len returns the number of live components.
func (s *Storage[T]) Len() int {
	return int(s.count) - 1
}

// Version returns a counter that changes on every structural mutation.
func (s *Storage[T]) Version() uint64 {
	return s.version
}

// Has reports whether e has a component in this storage.
func (s *Storage[T]) Has(e Entity) bool {
	i := s.sparse.lookup(e.ID)
	return i != 0 && s.owners[i].ID != 0
}

// Add appends v as e's component.
//
// Returns:
//   - ErrInvalidEntity if e is the zero entity.
//   - ErrDuplicateComponent if e already has a component of type T. The
//     storage is left unchanged.
func (s *Storage[T]) Add(e Entity, v T) error {
	if e.ID == 0 {
		return eris.Wrapf(ErrInvalidEntity, "add %s to entity 0", s.typ)
	}
	if s.Has(e) {
		return eris.Wrapf(ErrDuplicateComponent, "entity %d already has %s", e.ID, s.typ)
	}
	i := s.count
	if int(i) == len(s.dense) {
		s.dense = grow(s.dense, int(i)+1)
		s.owners = grow(s.owners, int(i)+1)
		s.log.Debug("component storage grown",
			zap.Stringer("type", s.typ),
			zap.Int("capacity", len(s.dense)-1))
	}
	s.dense[i] = v
	s.owners[i] = e
	if s.sparse.assign(e.ID, i) {
		s.log.Debug("sparse page table grown",
			zap.Stringer("type", s.typ),
			zap.Int("pages", s.sparse.pageCount()),
			zap.Uint32("entity", e.ID))
	}
	s.count++
	s.version++
	return nil
}

// Remove deletes e's component. The component's OnDestroy hook runs first,
// then the last occupied slot is moved into the freed one. A hook that adds
// or removes components of type T panics with ErrStorageMutated and the
// removal is abandoned.
//
// Returns ErrMissingComponent if e has no component of type T.
func (s *Storage[T]) Remove(e Entity) error {
	if !s.Has(e) {
		return eris.Wrapf(ErrMissingComponent, "entity %d has no %s", e.ID, s.typ)
	}
	i := s.sparse.lookup(e.ID)
	v := s.version
	s.dense[i].OnDestroy(s.owners[i])
	if s.version != v {
		panic(eris.Wrapf(ErrStorageMutated, "OnDestroy of %s for entity %d", s.typ, e.ID))
	}

	s.count--
	last := s.count
	moved := s.owners[last]
	s.dense[i] = s.dense[last]
	s.owners[i] = moved
	s.sparse.assign(moved.ID, i)

	var zero T
	s.dense[last] = zero
	s.owners[last] = Entity{}
	// after the move so that removing the last slot still clears it
	s.sparse.clear(e.ID)
	s.version++
	return nil
}

// Get returns a pointer to e's component without checking that it exists.
// Calling Get for an entity without the component is a contract violation:
// the result points at the sentinel slot. Use Has or Lookup first.
func (s *Storage[T]) Get(e Entity) *T {
	return &s.dense[s.sparse.lookup(e.ID)]
}

// Lookup is the checked form of Get. It costs one extra branch per call.
func (s *Storage[T]) Lookup(e Entity) (*T, error) {
	if !s.Has(e) {
		return nil, eris.Wrapf(ErrMissingComponent, "entity %d has no %s", e.ID, s.typ)
	}
	return &s.dense[s.sparse.lookup(e.ID)], nil
}

// Entities returns the owners of every live component. Index k matches index
// k of Values. The order is insertion order as changed by swap-removal.
func (s *Storage[T]) Entities() []Entity {
	return s.owners[1:s.count:s.count]
}

// Values returns the live component values, parallel to Entities. Elements
// may be modified in place.
func (s *Storage[T]) Values() []T {
	return s.dense[1:s.count:s.count]
}

// All yields every (entity, component) pair. Adding or removing components of
// type T from the loop body panics with ErrStorageMutated; collect the
// entities first and mutate after the loop.
func (s *Storage[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		v := s.version
		for i := uint32(1); i < s.count; i++ {
			if !yield(s.owners[i], &s.dense[i]) {
				return
			}
			if s.version != v {
				panic(eris.Wrapf(ErrStorageMutated, "%s", s.typ))
			}
		}
	}
}

// slot returns the dense slot mapped to id, 0 when absent.
func (s *Storage[T]) slot(id uint32) uint32 {
	return s.sparse.lookup(id)
}

// has and remove satisfy componentStorage.
func (s *Storage[T]) has(e Entity) bool { return s.Has(e) }

func (s *Storage[T]) remove(e Entity) error { return s.Remove(e) }
