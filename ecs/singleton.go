package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry pins one singleton value on the heap so Singleton accessors
// can hand out a stable pointer.
type singletonEntry struct {
	dataPtr unsafe.Pointer
	value   reflect.Value
}

// AddSingleton stores a single instance of the component's type, detached from
// any entity. Adding a type twice overwrites the previous value in place, so
// cached pointers keep observing the current state.
func (s *Storage) AddSingleton(component any) {
	compType := reflect.TypeOf(component)
	compValue := reflect.ValueOf(component)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
		compValue = compValue.Elem()
	}

	if entry, ok := s.singletons[compType]; ok {
		entry.value.Elem().Set(compValue)
		return
	}

	boxed := reflect.New(compType)
	boxed.Elem().Set(compValue)
	s.singletons[compType] = &singletonEntry{
		dataPtr: boxed.UnsafePointer(),
		value:   boxed,
	}
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// Singleton provides access to a single component instance that is not tied
// to any entity: global game state, configuration, event queues.
type Singleton[T any] struct {
	storage       *Storage
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton returns an accessor for T on the given storage. If the
// singleton does not exist yet it is created from the optional initializer
// (zero value otherwise), so the singleton is guaranteed to exist afterwards.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	var zero T
	componentType := reflect.TypeOf(zero)

	entry := storage.getSingletonEntry(componentType)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
		entry = storage.getSingletonEntry(componentType)
	}

	return &Singleton[T]{
		storage:       storage,
		componentPtr:  entry.dataPtr,
		componentType: componentType,
	}
}

// Init wires the accessor to a storage. Called by the Scheduler when it finds
// a Singleton field on a registered system.
func (s *Singleton[T]) Init(storage *Storage) {
	var zero T
	s.storage = storage
	s.componentType = reflect.TypeOf(zero)
	s.updateCache()
}

// Get returns a pointer to the singleton, or nil if it was never added.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// Exists reports whether the singleton has been added to storage.
func (s *Singleton[T]) Exists() bool {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return s.componentPtr != nil
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(s.componentType); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}
