// Package bingo implements a sparse-set Entity Component System. Every
// component type gets its own densely packed array per world, so iterating
// all entities with a component is a plain slice scan.
package bingo

import "reflect"

// Component is the capability every component type must provide.
//
// OnDestroy is called exactly once, immediately before the value is removed
// from its storage, with the owning entity. It must not fail; a panicking
// hook aborts the removal and leaves the storage untouched. It must not add
// or remove components of its own type: doing so panics with
// ErrStorageMutated. Components of other types may be changed freely.
type Component interface {
	OnDestroy(owner Entity)
}

// NoDestroy can be embedded in components that have nothing to release.
type NoDestroy struct{}

// OnDestroy does nothing.
func (NoDestroy) OnDestroy(Entity) {}

// typeOf returns the identity used to key component storages.
func typeOf[T Component]() reflect.Type {
	return reflect.TypeFor[T]()
}
