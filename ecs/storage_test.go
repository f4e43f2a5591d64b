package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnAndGetComponent(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 3})

	pos, ok := ReadComponent[Position](storage, id)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, *pos)

	vel, ok := ReadComponent[Velocity](storage, id)
	require.True(t, ok)
	assert.Equal(t, 3.0, vel.DX)
}

func TestComponentPointersAreLive(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 1})

	pos, ok := ReadComponent[Position](storage, id)
	require.True(t, ok)
	pos.X = 42

	again, ok := ReadComponent[Position](storage, id)
	require.True(t, ok)
	assert.Equal(t, 42.0, again.X)
}

func TestSameComponentSetSharesArchetype(t *testing.T) {
	storage := newTestStorage()

	a := storage.Spawn(Position{}, Velocity{})
	// Component order must not matter.
	b := storage.Spawn(Velocity{}, Position{})
	c := storage.Spawn(Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())
}

func TestDelete(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 7})
	storage.Delete(id)

	_, ok := ReadComponent[Position](storage, id)
	assert.False(t, ok)
	assert.Equal(t, 0, storage.Stats().EntityCount)
}

func TestAddComponentMovesEntity(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 5})
	newId := storage.AddComponent(id, Velocity{DX: 1})

	assert.NotEqual(t, id.ArchetypeId(), newId.ArchetypeId())

	pos, ok := ReadComponent[Position](storage, newId)
	require.True(t, ok)
	assert.Equal(t, 5.0, pos.X)

	vel, ok := ReadComponent[Velocity](storage, newId)
	require.True(t, ok)
	assert.Equal(t, 1.0, vel.DX)

	// The old slot is gone.
	_, ok = ReadComponent[Position](storage, id)
	assert.False(t, ok)
}

func TestRemoveComponent(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 5}, Velocity{DX: 1})
	newId := storage.RemoveComponent(id, reflect.TypeFor[Velocity]())

	pos, ok := ReadComponent[Position](storage, newId)
	require.True(t, ok)
	assert.Equal(t, 5.0, pos.X)
	assert.False(t, storage.HasComponent(newId, reflect.TypeFor[Velocity]()))
}

func TestRemoveLastComponentDeletesEntity(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{})
	newId := storage.RemoveComponent(id, reflect.TypeFor[Position]())

	assert.Equal(t, EntityId(0), newId)
	assert.Equal(t, 0, storage.Stats().EntityCount)
}

func TestEntityRefFollowsArchetypeMove(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 9})
	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)

	newId := storage.AddComponent(id, Velocity{})
	assert.Equal(t, newId, ref.Id)

	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)

	pos, ok := ReadComponent[Position](storage, resolved)
	require.True(t, ok)
	assert.Equal(t, 9.0, pos.X)
}

func TestEntityRefDiesWithEntity(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	storage.Delete(id)

	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)
}

func TestCreateEntityRefReturnsSameRef(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{})
	a := storage.CreateEntityRef(id)
	b := storage.CreateEntityRef(id)

	assert.Same(t, a, b)
}

func TestCompactRewritesRefs(t *testing.T) {
	storage := newTestStorage()

	var refs []*EntityRef
	var ids []EntityId
	for i := 0; i < 10; i++ {
		id := storage.Spawn(Position{X: float64(i)})
		ids = append(ids, id)
		refs = append(refs, storage.CreateEntityRef(id))
	}

	// Punch holes, then compact.
	for i := 0; i < 10; i += 2 {
		storage.Delete(ids[i])
	}
	storage.Compact()

	for i := 1; i < 10; i += 2 {
		resolved, ok := storage.ResolveEntityRef(refs[i])
		require.True(t, ok, "ref %d should survive compaction", i)

		pos, ok := ReadComponent[Position](storage, resolved)
		require.True(t, ok)
		assert.Equal(t, float64(i), pos.X)
	}
	assert.Equal(t, 5, storage.Stats().EntityCount)
}

func TestStats(t *testing.T) {
	storage := newTestStorage()

	storage.Spawn(Position{})
	storage.Spawn(Position{}, Velocity{})
	storage.AddSingleton(Health{HP: 1})

	stats := storage.Stats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
}

func TestSpawnRejectsReferenceKinds(t *testing.T) {
	storage := newTestStorage()

	assert.Panics(t, func() {
		storage.Spawn(map[string]int{})
	})
	assert.Panics(t, func() {
		storage.Spawn()
	})
}
