package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsSpawnOnFlush(t *testing.T) {
	storage := newTestStorage()
	commands := newCommands()

	commands.Spawn(Position{X: 1})
	assert.Equal(t, 0, storage.Stats().EntityCount, "spawn must not apply before flush")

	commands.Flush(storage)
	assert.Equal(t, 1, storage.Stats().EntityCount)
}

func TestCommandsDeleteOnFlush(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})

	commands := newCommands()
	commands.Delete(id)

	_, ok := ReadComponent[Position](storage, id)
	require.True(t, ok, "delete must not apply before flush")

	commands.Flush(storage)
	_, ok = ReadComponent[Position](storage, id)
	assert.False(t, ok)
}

func TestCommandsDropMutationsOnDeletedEntity(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})

	commands := newCommands()
	commands.AddComponent(id, Velocity{})
	commands.RemoveComponent(id, reflect.TypeFor[Position]())
	commands.Delete(id)

	commands.Flush(storage)
	assert.Equal(t, 0, storage.Stats().EntityCount)
}

func TestCommandsAddComponentPatchesRef(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 3})
	ref := storage.CreateEntityRef(id)

	commands := newCommands()
	commands.AddComponent(id, Velocity{DX: 1})
	commands.Flush(storage)

	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.True(t, storage.HasComponent(resolved, reflect.TypeFor[Velocity]()))
}

func TestCommandsDefersRunLast(t *testing.T) {
	storage := newTestStorage()
	commands := newCommands()

	var countAtDefer int
	commands.Defer(func() {
		countAtDefer = storage.Stats().EntityCount
	})
	commands.Spawn(Position{})

	commands.Flush(storage)
	assert.Equal(t, 1, countAtDefer, "defer must observe the applied spawn")
}

func TestCommandsBufferResetsAfterFlush(t *testing.T) {
	storage := newTestStorage()
	commands := newCommands()

	commands.Spawn(Position{})
	commands.Flush(storage)
	commands.Flush(storage)

	assert.Equal(t, 1, storage.Stats().EntityCount, "second flush must be a no-op")
}
