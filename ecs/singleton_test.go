package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingletonCreatesOnFirstAccess(t *testing.T) {
	storage := newTestStorage()

	s := NewSingleton[Health](storage, Health{HP: 100})
	require.True(t, s.Exists())
	assert.Equal(t, 100, s.Get().HP)
}

func TestSingletonDefaultsToZeroValue(t *testing.T) {
	storage := newTestStorage()

	s := NewSingleton[Health](storage)
	assert.Equal(t, 0, s.Get().HP)
}

func TestSingletonSharedAcrossAccessors(t *testing.T) {
	storage := newTestStorage()

	a := NewSingleton[Health](storage)
	b := NewSingleton[Health](storage)

	a.Get().HP = 7
	assert.Equal(t, 7, b.Get().HP)
	assert.Same(t, a.Get(), b.Get())
}

func TestAddSingletonOverwritesInPlace(t *testing.T) {
	storage := newTestStorage()

	s := NewSingleton[Health](storage, Health{HP: 1})
	ptr := s.Get()

	storage.AddSingleton(Health{HP: 42})

	// Cached pointers must observe the new value.
	assert.Equal(t, 42, ptr.HP)
	assert.Same(t, ptr, s.Get())
}
