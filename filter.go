package bingo

import "github.com/rotisserie/eris"

// Filter is a cursor over every entity that has a component of type T. It
// walks the storage's dense arrays directly.
//
// Adding or removing a T while a Filter is positioned makes the next call to
// Next panic with ErrStorageMutated. Call Reset after mutating to start a new
// pass.
type Filter[T Component] struct {
	storage *Storage[T]
	version uint64
	cur     uint32 // current dense slot, 0 before the first Next
}

// NewFilter creates a Filter over w's storage for T.
//
// Example:
//
//	f := bingo.NewFilter[Position](world)
//	for f.Next() {
//	    p := f.Get()
//	    p.X += 1
//	}
func NewFilter[T Component](w *World) *Filter[T] {
	f := &Filter[T]{storage: storageFor[T](w)}
	f.Reset()
	return f
}

// Reset rewinds the filter to before the first entity.
func (f *Filter[T]) Reset() {
	f.cur = 0
	f.version = f.storage.version
}

// Next advances to the next entity and reports whether there is one.
func (f *Filter[T]) Next() bool {
	if f.storage.version != f.version {
		panic(eris.Wrapf(ErrStorageMutated, "%s", f.storage.typ))
	}
	if f.cur+1 >= f.storage.count {
		return false
	}
	f.cur++
	return true
}

// Entity returns the current entity. Only valid after Next returned true.
func (f *Filter[T]) Entity() Entity {
	return f.storage.owners[f.cur]
}

// Get returns the current entity's component. Only valid after Next returned
// true.
func (f *Filter[T]) Get() *T {
	return &f.storage.dense[f.cur]
}

// Len returns the number of entities the filter walks.
func (f *Filter[T]) Len() int {
	return f.storage.Len()
}

// Entities returns the owners view of the underlying storage. See
// Storage.Entities for its lifetime.
func (f *Filter[T]) Entities() []Entity {
	return f.storage.Entities()
}
