package bingo

// Builder creates entities that start with a component of type T.
type Builder[T Component] struct {
	world   *World
	storage *Storage[T]
}

// NewBuilder returns a Builder for w. The storage for T is resolved once.
func NewBuilder[T Component](w *World) *Builder[T] {
	return &Builder[T]{world: w, storage: storageFor[T](w)}
}

// NewEntity creates an entity holding comp.
func (b *Builder[T]) NewEntity(comp T) Entity {
	e := b.world.CreateEntity()
	// a fresh entity cannot already hold a T
	if err := Add(b.world, e, comp); err != nil {
		panic(err)
	}
	return e
}

// NewEntities creates count entities, each holding a copy of comp.
func (b *Builder[T]) NewEntities(count int, comp T) []Entity {
	if count == 0 {
		return nil
	}
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = b.NewEntity(comp)
	}
	return ents
}

// Get returns e's component, or nil when e has none.
func (b *Builder[T]) Get(e Entity) *T {
	if b.world.IsIssued(e) != nil || !b.storage.Has(e) {
		return nil
	}
	return b.storage.Get(e)
}

// Set overwrites e's component, adding it when e has none.
func (b *Builder[T]) Set(e Entity, comp T) error {
	if p := b.Get(e); p != nil {
		*p = comp
		return nil
	}
	return Add(b.world, e, comp)
}

// SetBatch calls Set for every entity and stops at the first error.
func (b *Builder[T]) SetBatch(entities []Entity, comp T) error {
	for _, e := range entities {
		if err := b.Set(e, comp); err != nil {
			return err
		}
	}
	return nil
}
