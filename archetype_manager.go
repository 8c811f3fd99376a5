package ecs

// ArchetypeManager owns every Archetype, maps aspect→archetype, and
// performs the structural-change machinery (creating entities, moving
// between archetypes, removing entities). Grounded on
// _examples/original_source/source/ecs/storage/ArchetypeManager.{hpp,cpp}.
type ArchetypeManager struct {
	reg          *ComponentMetadataRegistry
	aspects      *AspectRegistry
	versions     *VersionManager
	byAspect     map[string]*Archetype
	entityLoc    map[Entity]entityLocation
}

func newArchetypeManager(reg *ComponentMetadataRegistry, aspects *AspectRegistry, versions *VersionManager) *ArchetypeManager {
	return &ArchetypeManager{
		reg:       reg,
		aspects:   aspects,
		versions:  versions,
		byAspect:  make(map[string]*Archetype, 64),
		entityLoc: make(map[Entity]entityLocation, 1024),
	}
}

// getOrCreateArchetype returns the archetype for aspect, creating (and
// registering with the AspectRegistry/VersionManager) it on first request.
func (m *ArchetypeManager) getOrCreateArchetype(aspect Aspect) *Archetype {
	key := aspect.key()
	if a, ok := m.byAspect[key]; ok {
		return a
	}
	m.aspects.AddOrGet(aspect)
	a := newArchetype(aspect, m.reg)
	m.byAspect[key] = a
	m.versions.MakeDirty(aspect)
	return a
}

// EntityArchetype returns the archetype currently holding e.
func (m *ArchetypeManager) EntityArchetype(e Entity) *Archetype {
	loc, ok := m.entityLoc[e]
	assertInvariant(ok, InvalidHandle, "entity %v is not tracked by any archetype", e)
	return loc.archetype
}

// Location returns e's current (archetype, chunk, slot).
func (m *ArchetypeManager) Location(e Entity) (entityLocation, bool) {
	loc, ok := m.entityLoc[e]
	return loc, ok
}

func (m *ArchetypeManager) bumpIfTransitioned(a *Archetype, wasEmpty bool) {
	if wasEmpty != (a.Count() == 0) {
		m.versions.MakeDirty(a.aspect)
	}
}

// AddEntity inserts a freshly allocated entity into the archetype for
// aspect.
func (m *ArchetypeManager) AddEntity(aspect Aspect, e Entity) {
	a := m.getOrCreateArchetype(aspect)
	wasEmpty := a.Count() == 0
	loc := a.addEntity(e)
	m.entityLoc[e] = loc
	m.bumpIfTransitioned(a, wasEmpty)
}

// AddEntities bulk-inserts entities into the archetype for aspect.
func (m *ArchetypeManager) AddEntities(aspect Aspect, entities []Entity) {
	if len(entities) == 0 {
		return
	}
	a := m.getOrCreateArchetype(aspect)
	wasEmpty := a.Count() == 0
	locs := a.addEntities(entities)
	for i, e := range entities {
		m.entityLoc[e] = locs[i]
	}
	m.bumpIfTransitioned(a, wasEmpty)
}

// RemoveEntity removes e from its archetype and forgets its location.
func (m *ArchetypeManager) RemoveEntity(e Entity) {
	loc, ok := m.entityLoc[e]
	if !ok {
		return
	}
	a := loc.archetype
	wasEmpty := a.Count() == 0
	a.removeEntityAt(loc.chunk, loc.slot, Aspect{}, m.relocate)
	delete(m.entityLoc, e)
	m.bumpIfTransitioned(a, wasEmpty)
}

// RemoveEntities removes a batch of entities, grouped per source archetype.
func (m *ArchetypeManager) RemoveEntities(entities []Entity) {
	byArchetype := make(map[*Archetype][]entityLocation)
	for _, e := range entities {
		loc, ok := m.entityLoc[e]
		if !ok {
			continue
		}
		byArchetype[loc.archetype] = append(byArchetype[loc.archetype], loc)
		delete(m.entityLoc, e)
	}
	for a, locs := range byArchetype {
		wasEmpty := a.Count() == 0
		a.removeEntitiesGrouped(locs, Aspect{}, m.relocate)
		m.bumpIfTransitioned(a, wasEmpty)
	}
}

// relocate updates the bookkeeping entry for an entity that a swap-pop
// moved within its archetype (same archetype, new chunk/slot).
func (m *ArchetypeManager) relocate(e Entity, loc entityLocation) {
	m.entityLoc[e] = loc
}

// moveEntitiesBetweenArchetypes relocates entities from "from" to "to",
// moving only the aspect intersection's component values and leaving
// components unique to "to" uninitialized for the caller to fill in.
// Mirrors ArchetypeManager::moveEntitiesBetweenArchetypes step for step:
// bulk-allocate destination slots first, move the intersection, then
// remove from source with "to"'s aspect as the skip-destruction set so
// already-relocated components aren't double-destroyed.
func (m *ArchetypeManager) moveEntitiesBetweenArchetypes(from, to *Archetype, entities []Entity) []entityLocation {
	if from == to || len(entities) == 0 {
		out := make([]entityLocation, len(entities))
		for i, e := range entities {
			out[i] = m.entityLoc[e]
		}
		return out
	}

	srcLocs := make([]entityLocation, len(entities))
	for i, e := range entities {
		srcLocs[i] = m.entityLoc[e]
	}

	toWasEmpty := to.Count() == 0
	dstLocs := to.addEntities(entities)

	intersection := from.aspect.Intersection(to.aspect)
	for i := range entities {
		srcLoc := srcLocs[i]
		dstLoc := dstLocs[i]
		for _, id := range intersection.IDs() {
			srcCol := srcLoc.archetype.ComponentIndex(id)
			dstCol := dstLoc.archetype.ComponentIndex(id)
			meta := m.reg.meta(id)
			srcPtr := srcLoc.chunk.getComponentDataPtrByIndex(srcCol, srcLoc.slot)
			dstPtr := dstLoc.chunk.getMutableComponentDataPtrByIndex(dstCol, dstLoc.slot)
			meta.moveAndDestroy(dstPtr, srcPtr)
		}
		m.entityLoc[entities[i]] = dstLoc
	}

	fromWasEmpty := from.Count() == 0
	from.removeEntitiesGrouped(srcLocs, to.aspect, m.relocate)

	m.bumpIfTransitioned(from, fromWasEmpty)
	m.bumpIfTransitioned(to, toWasEmpty)

	return dstLocs
}

// MoveEntity moves a single entity to toAspect.
func (m *ArchetypeManager) MoveEntity(e Entity, toAspect Aspect) entityLocation {
	loc, ok := m.entityLoc[e]
	assertInvariant(ok, InvalidHandle, "entity %v is not tracked", e)
	to := m.getOrCreateArchetype(toAspect)
	locs := m.moveEntitiesBetweenArchetypes(loc.archetype, to, []Entity{e})
	return locs[0]
}

// MoveEntities groups entities by current archetype and moves each group.
func (m *ArchetypeManager) MoveEntities(toAspect Aspect, entities []Entity) {
	to := m.getOrCreateArchetype(toAspect)
	byArchetype := make(map[*Archetype][]Entity)
	for _, e := range entities {
		loc, ok := m.entityLoc[e]
		if !ok {
			continue
		}
		byArchetype[loc.archetype] = append(byArchetype[loc.archetype], e)
	}
	for from, group := range byArchetype {
		m.moveEntitiesBetweenArchetypes(from, to, group)
	}
}

// AddComponents computes the target aspect (current ∪ ids) and moves e
// there; components unique to the target are left uninitialized (a reused
// slot may still hold an earlier occupant's bytes, so not necessarily zero)
// for the caller (EntityManager) to placement-initialize.
func (m *ArchetypeManager) AddComponents(e Entity, ids []ComponentID) entityLocation {
	loc, ok := m.entityLoc[e]
	assertInvariant(ok, InvalidHandle, "entity %v is not tracked", e)
	target := loc.archetype.aspect.Add(ids...)
	return m.MoveEntity(e, target)
}

// RemoveComponents computes the target aspect (current \ ids) and moves e
// there.
func (m *ArchetypeManager) RemoveComponents(e Entity, ids []ComponentID) entityLocation {
	loc, ok := m.entityLoc[e]
	assertInvariant(ok, InvalidHandle, "entity %v is not tracked", e)
	target := loc.archetype.aspect.Remove(ids...)
	return m.MoveEntity(e, target)
}

// shutdown destroys every remaining component in every archetype, matching
// the original's manager-teardown destruction pass.
func (m *ArchetypeManager) shutdown() {
	for _, a := range m.byAspect {
		a.destroyAllComponents()
	}
	m.byAspect = make(map[string]*Archetype)
	m.entityLoc = make(map[Entity]entityLocation)
}
