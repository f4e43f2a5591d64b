package ecs

// StorageStats is a point-in-time census of a Storage.
type StorageStats struct {
	ArchetypeCount int
	EntityCount    int
	SingletonCount int
}

// Stats counts archetypes, live entities, and singletons.
func (s *Storage) Stats() StorageStats {
	stats := StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}
	for _, archetype := range s.archetypes {
		stats.EntityCount += archetype.Len()
	}
	return stats
}
