package bingo

import "github.com/rotisserie/eris"

// Errors returned by World, Storage and the entity-scoped helpers. They are
// always wrapped with call context, so match them with errors.Is.
var (
	// ErrDuplicateComponent is returned by Add when the entity already has a
	// component of the requested type.
	ErrDuplicateComponent = eris.New("bingo: duplicate component")
	// ErrMissingComponent is returned by Remove and the checked getters when
	// the entity has no component of the requested type.
	ErrMissingComponent = eris.New("bingo: missing component")
	// ErrInvalidEntity is returned for id 0 or an id the world never issued.
	ErrInvalidEntity = eris.New("bingo: invalid entity")
	// ErrInvalidWorld is returned when a world id is not registered or an
	// entity is used with a world that does not own it.
	ErrInvalidWorld = eris.New("bingo: invalid world")
	// ErrWorldLimit is returned by NewWorld once every WorldID is taken.
	ErrWorldLimit = eris.New("bingo: too many worlds")
	// ErrStorageMutated is the panic value raised by Storage.All and
	// Filter.Next when components of the iterated type are added or removed
	// mid-iteration, and by Storage.Remove when an OnDestroy hook does the
	// same to its own storage.
	ErrStorageMutated = eris.New("bingo: storage mutated during iteration")
)
