package ecs

// EntityManager is the front door: entity allocation/generation bookkeeping
// plus every component-mutation operation, delegating structural changes to
// ArchetypeManager and typed storage to ComponentMetadataRegistry /
// SharedComponentManager / SingletonComponentRegistry. Grounded on
// _examples/original_source/source/ecs/core/EntityManager.hpp.
type EntityManager struct {
	components *ComponentMetadataRegistry
	archetypes *ArchetypeManager
	shared     *SharedComponentManager
	singletons *SingletonComponentRegistry
	versions   *VersionManager

	metas     []entityMeta // dense by index; index 0 reserved (UndefinedEntity)
	freeList  []uint32
	nextIndex uint32
}

func newEntityManager(components *ComponentMetadataRegistry, archetypes *ArchetypeManager, shared *SharedComponentManager, singletons *SingletonComponentRegistry, versions *VersionManager) *EntityManager {
	return &EntityManager{
		components: components,
		archetypes: archetypes,
		shared:     shared,
		singletons: singletons,
		versions:   versions,
		metas:      make([]entityMeta, 1, 1024), // slot 0 unused
		nextIndex:  1,
	}
}

func (m *EntityManager) allocateIndex() uint32 {
	if n := len(m.freeList); n > 0 {
		idx := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		return idx
	}
	idx := m.nextIndex
	m.nextIndex++
	if int(idx) >= len(m.metas) {
		m.metas = append(m.metas, entityMeta{})
	}
	return idx
}

// CreateEntity allocates a fresh entity with no components (the empty
// aspect's archetype).
func (m *EntityManager) CreateEntity() Entity {
	idx := m.allocateIndex()
	meta := &m.metas[idx]
	meta.generation++
	meta.alive = true
	e := NewEntity(idx, meta.generation)
	m.archetypes.AddEntity(Aspect{}, e)
	meta.location, _ = m.archetypes.Location(e)
	return e
}

// CreateEntities bulk-allocates n entities with no components.
func (m *EntityManager) CreateEntities(n int) []Entity {
	entities := make([]Entity, n)
	for i := 0; i < n; i++ {
		idx := m.allocateIndex()
		meta := &m.metas[idx]
		meta.generation++
		meta.alive = true
		entities[i] = NewEntity(idx, meta.generation)
	}
	m.archetypes.AddEntities(Aspect{}, entities)
	for _, e := range entities {
		loc, _ := m.archetypes.Location(e)
		m.metas[e.Index()].location = loc
	}
	return entities
}

func (m *EntityManager) checkAlive(e Entity) {
	assertInvariant(!e.IsUndefined(), InvalidHandle, "entity is undefined")
	assertInvariant(int(e.Index()) < len(m.metas), InvalidHandle, "entity index %d out of range", e.Index())
	meta := &m.metas[e.Index()]
	assertInvariant(meta.alive && meta.generation == e.Generation(), InvalidHandle,
		"entity %v is stale (current generation %d)", e, meta.generation)
	// A swap-pop removal of another entity can move e without touching this
	// cache, so resync it before callers read meta.location.
	if loc, ok := m.archetypes.Location(e); ok {
		meta.location = loc
	}
}

// IsAlive reports whether e refers to a currently-live entity.
func (m *EntityManager) IsAlive(e Entity) bool {
	if e.IsUndefined() || int(e.Index()) >= len(m.metas) {
		return false
	}
	meta := &m.metas[e.Index()]
	return meta.alive && meta.generation == e.Generation()
}

// DestroyEntity removes e from storage and frees its index for reuse with a
// bumped generation.
func (m *EntityManager) DestroyEntity(e Entity) {
	m.checkAlive(e)
	m.archetypes.RemoveEntity(e)
	meta := &m.metas[e.Index()]
	meta.alive = false
	meta.location = entityLocation{}
	m.freeList = append(m.freeList, e.Index())
}

// DestroyEntities destroys a batch of entities.
func (m *EntityManager) DestroyEntities(entities []Entity) {
	alive := entities[:0]
	for _, e := range entities {
		if m.IsAlive(e) {
			alive = append(alive, e)
		}
	}
	m.archetypes.RemoveEntities(alive)
	for _, e := range alive {
		meta := &m.metas[e.Index()]
		meta.alive = false
		meta.location = entityLocation{}
		m.freeList = append(m.freeList, e.Index())
	}
}

func (m *EntityManager) refreshLocation(e Entity) entityLocation {
	loc, _ := m.archetypes.Location(e)
	m.metas[e.Index()].location = loc
	return loc
}

// AddComponent moves e to current∪{T} and placement-initializes the new
// slot with value.
func AddComponent[T any](m *EntityManager, e Entity, value T) {
	m.checkAlive(e)
	id := GetID[T](m.components)
	m.archetypes.AddComponents(e, []ComponentID{id})
	loc := m.refreshLocation(e)
	col := loc.archetype.ComponentIndex(id)
	ptr := loc.chunk.getMutableComponentDataPtrByIndex(col, loc.slot)
	*(*T)(ptr) = value
}

// RemoveComponent moves e to current\{T}, running T's destructor (if any)
// first via the normal structural-move destroy path.
func RemoveComponent[T any](m *EntityManager, e Entity) {
	m.checkAlive(e)
	id := GetID[T](m.components)
	m.archetypes.RemoveComponents(e, []ComponentID{id})
	m.refreshLocation(e)
}

// GetComponent returns a read-only pointer to e's T, or nil if e doesn't
// carry it.
func GetComponent[T any](m *EntityManager, e Entity) *T {
	m.checkAlive(e)
	id, ok := TryGetID[T](m.components)
	if !ok {
		return nil
	}
	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(id)
	if col < 0 {
		return nil
	}
	return (*T)(loc.chunk.getComponentDataPtrByIndex(col, loc.slot))
}

// GetMutableComponent returns a mutable pointer to e's T (marks modified),
// or nil if e doesn't carry it.
func GetMutableComponent[T any](m *EntityManager, e Entity) *T {
	m.checkAlive(e)
	id, ok := TryGetID[T](m.components)
	if !ok {
		return nil
	}
	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(id)
	if col < 0 {
		return nil
	}
	return (*T)(loc.chunk.getMutableComponentDataPtrByIndex(col, loc.slot))
}

// HasComponent reports whether e currently carries T.
func HasComponent[T any](m *EntityManager, e Entity) bool {
	m.checkAlive(e)
	id, ok := TryGetID[T](m.components)
	if !ok {
		return false
	}
	return m.metas[e.Index()].location.archetype.aspect.Contains(id)
}

// EnableComponent / DisableComponent toggle the per-slot enabled bit a
// query's WhereEnabled filter inspects.
func EnableComponent[T any](m *EntityManager, e Entity) {
	m.checkAlive(e)
	id := GetID[T](m.components)
	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(id)
	assertInvariant(col >= 0, AspectViolation, "entity %v does not carry %T", e, *new(T))
	loc.chunk.enableComponentByIndex(col, loc.slot)
}

func DisableComponent[T any](m *EntityManager, e Entity) {
	m.checkAlive(e)
	id := GetID[T](m.components)
	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(id)
	assertInvariant(col >= 0, AspectViolation, "entity %v does not carry %T", e, *new(T))
	loc.chunk.disableComponentByIndex(col, loc.slot)
}

// SetShared interns value and attaches the resulting handle as e's
// SharedComponent[T], moving e into the handle-bearing archetype the first
// time T is attached and decrementing any prior handle's refcount on
// replacement.
func SetShared[T comparable](m *EntityManager, e Entity, value T) {
	m.checkAlive(e)
	handleID := GetID[SharedComponent[T]](m.components)
	newHandle := GetSharedHandle(m.shared, value)

	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(handleID)
	if col < 0 {
		m.archetypes.AddComponents(e, []ComponentID{handleID})
		loc = m.refreshLocation(e)
		col = loc.archetype.ComponentIndex(handleID)
		ptr := loc.chunk.getMutableComponentDataPtrByIndex(col, loc.slot)
		*(*SharedComponent[T])(ptr) = SharedComponent[T]{Handle: newHandle}
		return
	}

	ptr := loc.chunk.getMutableComponentDataPtrByIndex(col, loc.slot)
	wrapper := (*SharedComponent[T])(ptr)
	old := wrapper.Handle
	wrapper.Handle = newHandle
	DecrementRef[T](m.shared, old)
}

// GetEntityShared returns e's currently-interned shared value for T
// (read-only). Named distinctly from shared_component.go's pool-level
// GetShared[T](mgr, handle) since Go cannot overload two top-level generic
// functions on differing first-parameter type alone.
func GetEntityShared[T comparable](m *EntityManager, e Entity) T {
	m.checkAlive(e)
	handleID := GetID[SharedComponent[T]](m.components)
	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(handleID)
	assertInvariant(col >= 0, AspectViolation, "entity %v has no shared %T", e, *new(T))
	ptr := loc.chunk.getComponentDataPtrByIndex(col, loc.slot)
	return GetShared[T](m.shared, (*SharedComponent[T])(ptr).Handle)
}

// GetMutableEntityShared performs copy-on-write on e's shared value, writes
// the (possibly new) handle back onto the entity, and returns a mutable
// pointer into the pool's dense storage.
func GetMutableEntityShared[T comparable](m *EntityManager, e Entity) *T {
	m.checkAlive(e)
	handleID := GetID[SharedComponent[T]](m.components)
	loc := m.metas[e.Index()].location
	col := loc.archetype.ComponentIndex(handleID)
	assertInvariant(col >= 0, AspectViolation, "entity %v has no shared %T", e, *new(T))
	ptr := loc.chunk.getMutableComponentDataPtrByIndex(col, loc.slot)
	wrapper := (*SharedComponent[T])(ptr)
	valuePtr, newHandle := GetMutableShared[T](m.shared, wrapper.Handle)
	wrapper.Handle = newHandle
	return valuePtr
}

// GetSingletonComponent returns (default-constructing on first use) the
// process-wide instance of T from the SingletonComponentRegistry.
func GetSingletonComponent[T any](m *EntityManager) *T {
	return Get[T](m.singletons)
}
