package ecs

// EntityId packs the owning archetype ID into the upper 32 bits and the
// storage index into the lower 32 bits. The zero value is never a live entity.
type EntityId uint64

// NewEntityId builds an EntityId from an archetype ID and a storage index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the ID.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the storage index half of the ID.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable handle to an entity. Unlike a raw EntityId it survives
// archetype moves (AddComponent/RemoveComponent) and storage compaction: the
// storage rewrites Id in place. A deleted entity leaves the ref with Id == 0.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
