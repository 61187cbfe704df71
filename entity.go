package bingo

import "strconv"

// WorldID identifies a World in the process-wide world table.
type WorldID uint16

// Entity is an opaque handle to an entity in a World. It carries no data of
// its own; components are attached through the world.
//
// The zero Entity, and any Entity with ID 0, is invalid. Two handles denote
// the same entity when their IDs are equal; use Equal rather than == when
// handles from different sources may be compared.
type Entity struct {
	// ID is the entity's number within its world, never 0 for an issued
	// entity.
	ID    uint32
	world WorldID
}

// WorldID returns the id of the world that issued e.
func (e Entity) WorldID() WorldID {
	return e.world
}

// World resolves the world that issued e.
func (e Entity) World() (*World, error) {
	return LookupWorld(e.world)
}

// IsZero reports whether e is the invalid sentinel entity.
func (e Entity) IsZero() bool {
	return e.ID == 0
}

// Equal compares by ID only.
func (e Entity) Equal(other Entity) bool {
	return e.ID == other.ID
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.ID), 10)
}

// AddComponent attaches v to e in e's own world. See Add.
func AddComponent[T Component](e Entity, v T) error {
	w, err := e.World()
	if err != nil {
		return err
	}
	return Add(w, e, v)
}

// RemoveComponent detaches e's component of type T. See Remove.
func RemoveComponent[T Component](e Entity) error {
	w, err := e.World()
	if err != nil {
		return err
	}
	return Remove[T](w, e)
}

// GetComponent returns a pointer to e's component of type T. See Get.
func GetComponent[T Component](e Entity) (*T, error) {
	w, err := e.World()
	if err != nil {
		return nil, err
	}
	return Get[T](w, e)
}

// HasComponent reports whether e has a component of type T. It is false for
// entities whose world cannot be resolved.
func HasComponent[T Component](e Entity) bool {
	w, err := e.World()
	if err != nil {
		return false
	}
	return Has[T](w, e)
}
