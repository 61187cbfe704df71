package bingo

import (
	"reflect"

	"go.uber.org/zap"
)

// componentStorage is the type-erased view of a Storage the world uses for
// bookkeeping that spans component types.
type componentStorage interface {
	Type() reflect.Type
	Len() int
	has(e Entity) bool
	remove(e Entity) error
}

// storageRegistry owns one storage per component type for a single world.
// Types get a dense id on first use; storages are indexed by that id.
type storageRegistry struct {
	typeIDs  map[reflect.Type]uint32
	storages []componentStorage
	added    map[reflect.Type]struct{} // types that were added at least once
}

func newStorageRegistry() storageRegistry {
	return storageRegistry{
		typeIDs:  make(map[reflect.Type]uint32, 16),
		storages: make([]componentStorage, 0, 16),
		added:    make(map[reflect.Type]struct{}, 16),
	}
}

// storageFor returns w's storage for T, creating it on first use.
func storageFor[T Component](w *World) *Storage[T] {
	t := typeOf[T]()
	if id, ok := w.registry.typeIDs[t]; ok {
		return w.registry.storages[id].(*Storage[T])
	}
	s := NewStorage[T](w.initialCapacity, w.log)
	id := uint32(len(w.registry.storages))
	w.registry.typeIDs[t] = id
	w.registry.storages = append(w.registry.storages, s)
	w.log.Debug("component storage created",
		zap.Uint16("world", uint16(w.id)),
		zap.Stringer("type", t),
		zap.Uint32("type_id", id))
	return s
}

// markAdded records that a component of type t was added.
func (r *storageRegistry) markAdded(t reflect.Type) {
	r.added[t] = struct{}{}
}
