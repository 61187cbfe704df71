package bingo

import (
	"iter"
	"slices"

	"github.com/rotisserie/eris"
)

// EntityBuffer is a growable list of entity handles, typically used to
// collect the results of a pass over a storage so the storage can be
// mutated afterwards. The zero value is ready to use.
type EntityBuffer struct {
	entities []Entity
}

// NewEntityBuffer creates a buffer with room for capacity handles.
func NewEntityBuffer(capacity int) *EntityBuffer {
	return &EntityBuffer{entities: make([]Entity, 0, capacity)}
}

// Add appends e.
func (b *EntityBuffer) Add(e Entity) {
	b.entities = append(b.entities, e)
}

// Remove deletes the first handle equal to e, moving the last handle into
// its place. It returns ErrInvalidEntity when e is not in the buffer.
func (b *EntityBuffer) Remove(e Entity) error {
	i := slices.IndexFunc(b.entities, e.Equal)
	if i < 0 {
		return eris.Wrapf(ErrInvalidEntity, "entity %d is not buffered", e.ID)
	}
	b.RemoveAt(i)
	return nil
}

// RemoveAt deletes the handle at index i by moving the last handle into it.
// It panics if i is out of range.
func (b *EntityBuffer) RemoveAt(i int) {
	last := len(b.entities) - 1
	b.entities[i] = b.entities[last]
	b.entities[last] = Entity{}
	b.entities = b.entities[:last]
}

// At returns the handle at index i.
func (b *EntityBuffer) At(i int) Entity {
	return b.entities[i]
}

// Len returns the number of buffered handles.
func (b *EntityBuffer) Len() int {
	return len(b.entities)
}

// Entities returns the buffered handles. The slice aliases the buffer.
func (b *EntityBuffer) Entities() []Entity {
	return b.entities
}

// All yields index and handle pairs.
func (b *EntityBuffer) All() iter.Seq2[int, Entity] {
	return slices.All(b.entities)
}

// Reset empties the buffer, keeping its capacity.
func (b *EntityBuffer) Reset() {
	clear(b.entities)
	b.entities = b.entities[:0]
}
