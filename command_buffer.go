package ecs

import "unsafe"

// commandKind tags one recorded entry in a CommandBuffer's log.
type commandKind uint8

const (
	cmdCreateEntity commandKind = iota
	cmdAddComponent
	cmdRemoveComponent
	cmdDestroyEntity
)

// componentPayload is a type-erased byte buffer for a deferred AddComponent
// command, tagged with the source ComponentMetadata so commit() can blit it
// into the destination chunk via metadata.moveAndDestroy without the
// command buffer needing a type parameter per entry.
type componentPayload struct {
	componentID ComponentID
	bytes       []byte
}

type command struct {
	kind      commandKind
	target    Entity // real entity, or a proxy (Generation()==proxyGeneration)
	payload   componentPayload
	removeID  ComponentID
}

// CommandBuffer records deferred structural commands during a system's
// update and applies them in one commit() pass. Proxy entities (generation
// U32::MAX) stand in for not-yet-allocated CreateEntity results so a system
// can reference "the entity I'm about to create" within the same buffer.
// Grounded on spec.md §4.11; no surviving C++ source for command buffers,
// so the implementation is original, following the teacher's struct-log +
// single-pass-replay style used elsewhere in this package.
type CommandBuffer struct {
	entities *EntityManager
	log      []command
	nextProxyIndex uint32
	committed bool
}

// NewCommandBuffer creates a buffer bound to an EntityManager. A fresh
// buffer must be obtained per system-update / per-scope; Commit consumes
// the log exactly once.
func NewCommandBuffer(entities *EntityManager) *CommandBuffer {
	return &CommandBuffer{entities: entities}
}

func (b *CommandBuffer) newProxy() Entity {
	idx := b.nextProxyIndex
	b.nextProxyIndex++
	return NewEntity(idx, proxyGeneration)
}

// CreateEntity records a deferred entity creation and returns a proxy
// handle other commands in this same buffer can target before commit.
func (b *CommandBuffer) CreateEntity() Entity {
	proxy := b.newProxy()
	b.log = append(b.log, command{kind: cmdCreateEntity, target: proxy})
	return proxy
}

// AddDeferredComponent records a deferred component attach targeting a real entity
// or a proxy from this buffer.
func AddDeferredComponent[T any](b *CommandBuffer, target Entity, value T) {
	id := GetID[T](b.entities.components)
	size := unsafe.Sizeof(value)
	bytes := make([]byte, size)
	if size > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&value)), size)
		copy(bytes, src)
	}
	b.log = append(b.log, command{
		kind:   cmdAddComponent,
		target: target,
		payload: componentPayload{componentID: id, bytes: bytes},
	})
}

// RemoveDeferredComponent records a deferred component removal.
func RemoveDeferredComponent[T any](b *CommandBuffer, target Entity) {
	id := GetID[T](b.entities.components)
	b.log = append(b.log, command{kind: cmdRemoveComponent, target: target, removeID: id})
}

// DestroyEntity records a deferred entity destruction.
func (b *CommandBuffer) DestroyEntity(target Entity) {
	b.log = append(b.log, command{kind: cmdDestroyEntity, target: target})
}

// resolveTarget maps a proxy entity to its real allocated counterpart, or returns
// e unchanged if it isn't a proxy.
func resolveTarget(e Entity, proxyToReal map[uint32]Entity) Entity {
	if e.IsProxy() {
		return proxyToReal[e.Index()]
	}
	return e
}

// Commit walks the log once to allocate real entities for every proxy, then
// walks it again executing every command in order with proxies translated
// to their real ids. Not reentrant: calling Commit twice on the same buffer
// panics.
func (b *CommandBuffer) Commit() {
	assertInvariant(!b.committed, AspectViolation, "command buffer already committed")
	b.committed = true

	proxyToReal := make(map[uint32]Entity, b.nextProxyIndex)
	for _, c := range b.log {
		if c.kind == cmdCreateEntity {
			proxyToReal[c.target.Index()] = b.entities.CreateEntity()
		}
	}

	reg := b.entities.components
	for _, c := range b.log {
		switch c.kind {
		case cmdCreateEntity:
			// already allocated in the first pass.
		case cmdAddComponent:
			target := resolveTarget(c.target, proxyToReal)
			m := b.entities
			m.checkAlive(target)
			m.archetypes.AddComponents(target, []ComponentID{c.payload.componentID})
			loc := m.refreshLocation(target)
			col := loc.archetype.ComponentIndex(c.payload.componentID)
			dst := loc.chunk.getMutableComponentDataPtrByIndex(col, loc.slot)
			meta := reg.meta(c.payload.componentID)
			if len(c.payload.bytes) > 0 {
				src := unsafe.Pointer(&c.payload.bytes[0])
				meta.moveAndDestroy(dst, src)
			}
		case cmdRemoveComponent:
			target := resolveTarget(c.target, proxyToReal)
			m := b.entities
			m.checkAlive(target)
			m.archetypes.RemoveComponents(target, []ComponentID{c.removeID})
			m.refreshLocation(target)
		case cmdDestroyEntity:
			target := resolveTarget(c.target, proxyToReal)
			if b.entities.IsAlive(target) {
				b.entities.DestroyEntity(target)
			}
		}
	}
}
