package bingo

import "reflect"

// EventBus is a synchronous, type-keyed publish/subscribe hub. A World given
// a bus with WithEventBus publishes its lifecycle events on it; applications
// may publish their own event types on the same bus.
//
// Handlers run on the publishing goroutine, in subscription order. A handler
// must not add or remove components of the type named by the event it is
// handling if that storage is being iterated.
type EventBus struct {
	eventTypeIDs map[reflect.Type]int
	handlers     [][]any
}

// EntityCreated is published by CreateEntity and CreateEntityWithID.
type EntityCreated struct {
	Entity Entity
}

// ComponentAdded is published after a component was stored.
type ComponentAdded struct {
	Entity Entity
	Type   reflect.Type
}

// ComponentRemoved is published after a component's OnDestroy hook ran and
// its slot was compacted.
type ComponentRemoved struct {
	Entity Entity
	Type   reflect.Type
}

// Subscribe registers handler for events of type T.
//
// Parameters:
//   - bus: The EventBus to subscribe to.
//   - handler: Called with every published T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.eventTypeID(reflect.TypeFor[T]())
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish delivers event to every handler subscribed to T. Publishing a type
// nobody subscribed to is a map lookup and nothing else.
func Publish[T any](bus *EventBus, event T) {
	id, ok := bus.eventTypeIDs[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, h := range bus.handlers[id] {
		h.(func(T))(event)
	}
}

// eventTypeID retrieves or assigns an id for the event type.
func (bus *EventBus) eventTypeID(t reflect.Type) int {
	if bus.eventTypeIDs == nil {
		bus.eventTypeIDs = make(map[reflect.Type]int)
	}
	if id, ok := bus.eventTypeIDs[t]; ok {
		return id
	}
	id := len(bus.handlers)
	bus.eventTypeIDs[t] = id
	bus.handlers = append(bus.handlers, make([]any, 0, 4))
	return id
}
