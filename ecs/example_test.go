package ecs_test

import (
	"fmt"

	"github.com/plus3/panelpop/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Movement struct {
	Pos *Position
	Vel *Velocity
}

func Example() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)

	storage := ecs.NewStorage(registry)
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})

	view := ecs.NewView[Movement](storage)
	for item := range view.Values() {
		item.Pos.X += item.Vel.DX
	}

	pos, _ := ecs.ReadComponent[Position](storage, id)
	fmt.Println(pos.X)
	// Output: 3
}

type mover struct {
	Moving ecs.Query[Movement]
}

func (m *mover) Execute(frame *ecs.UpdateFrame) {
	for item := range m.Moving.Values() {
		item.Pos.X += item.Vel.DX * frame.DeltaTime
		item.Pos.Y += item.Vel.DY * frame.DeltaTime
	}
}

func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)

	storage := ecs.NewStorage(registry)
	id := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&mover{})

	for i := 0; i < 3; i++ {
		scheduler.Once(1)
	}

	pos, _ := ecs.ReadComponent[Position](storage, id)
	fmt.Println(pos.X, pos.Y)
	// Output: 3 6
}
