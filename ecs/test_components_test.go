package ecs

// Shared component types for the package tests.

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	HP int
}

type Frozen struct{}

func newTestStorage() *Storage {
	registry := NewComponentRegistry()
	RegisterComponent[Position](registry)
	RegisterComponent[Velocity](registry)
	RegisterComponent[Health](registry)
	RegisterComponent[Frozen](registry)
	return NewStorage(registry)
}
