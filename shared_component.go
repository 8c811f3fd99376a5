package ecs

import (
	"reflect"
	"sync"
	"unsafe"
)

// SharedComponentHandle identifies an interned value in a
// TypedSharedComponentPool: the wrapper component's own ComponentID plus
// the value's slot index in that pool's dense storage.
type SharedComponentHandle struct {
	componentID ComponentID
	dataIndex   int32
}

// SharedComponent is the one-field handle component stored in chunks in
// place of the actual shared value (spec.md §3's SharedComponentHandle
// row).
type SharedComponent[T any] struct {
	Handle SharedComponentHandle
}

// sharedSlot is one entry in a shared pool's dense storage.
type sharedSlot[T any] struct {
	value    T
	refCount int32
	live     bool
}

// typedSharedPool is the per-type interning pool: dense value+refcount
// storage, a free list, and an interning map keyed by value equality.
// Grounded on
// _examples/original_source/source/ecs/storage/SharedComponentManager.{hpp,cpp}'s
// TypedSharedComponentPool<T> (there backed by a transparent-hash
// unordered_set<u32>; Go's comparable-keyed map plays the same role
// directly since T is required comparable here).
type typedSharedPool[T comparable] struct {
	mu        sync.Mutex
	slots     []sharedSlot[T]
	freeList  []int32
	interning map[T]int32
}

func newTypedSharedPool[T comparable]() *typedSharedPool[T] {
	return &typedSharedPool[T]{interning: make(map[T]int32, 16)}
}

func (p *typedSharedPool[T]) findOrCreateIndex(value T) int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx, ok := p.interning[value]; ok {
		return idx
	}
	var idx int32
	if n := len(p.freeList); n > 0 {
		idx = p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.slots[idx] = sharedSlot[T]{value: value, refCount: 0, live: true}
	} else {
		idx = int32(len(p.slots))
		p.slots = append(p.slots, sharedSlot[T]{value: value, refCount: 0, live: true})
	}
	p.interning[value] = idx
	return idx
}

func (p *typedSharedPool[T]) incrementRef(idx int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[idx].refCount++
}

// decrementRef drops the refcount; at zero it erases the interning entry,
// clears the value, and frees the slot.
func (p *typedSharedPool[T]) decrementRef(idx int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	slot := &p.slots[idx]
	slot.refCount--
	if slot.refCount <= 0 {
		delete(p.interning, slot.value)
		var zero T
		slot.value = zero
		slot.live = false
		p.freeList = append(p.freeList, idx)
	}
}

func (p *typedSharedPool[T]) get(idx int32) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.slots[idx].value
}

// getMutable implements copy-on-write: if refcount > 1, copy the value to a
// fresh slot, decrement the old handle, increment the new one, and return
// the new index; otherwise erase the (now-about-to-be-mutated) value from
// the interning set in place and return the same index, since continued
// interning-by-value would be incorrect once the caller mutates it.
func (p *typedSharedPool[T]) getMutable(idx int32) int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	slot := &p.slots[idx]
	if slot.refCount > 1 {
		var newIdx int32
		if n := len(p.freeList); n > 0 {
			newIdx = p.freeList[n-1]
			p.freeList = p.freeList[:n-1]
			p.slots[newIdx] = sharedSlot[T]{value: slot.value, refCount: 1, live: true}
		} else {
			newIdx = int32(len(p.slots))
			p.slots = append(p.slots, sharedSlot[T]{value: slot.value, refCount: 1, live: true})
			slot = &p.slots[idx] // re-fetch: append may have reallocated
		}
		slot.refCount--
		return newIdx
	}
	delete(p.interning, slot.value)
	return idx
}

func (p *typedSharedPool[T]) valuePtr(idx int32) *T {
	return &p.slots[idx].value
}

// SharedComponentManager owns one typedSharedPool per registered shared
// component type, type-erased behind a reflect.Type key so
// ComponentMetadata's generic destructor thunk can reach it without a type
// parameter.
type SharedComponentManager struct {
	reg   *ComponentMetadataRegistry
	pools map[reflect.Type]any // reflect.Type(T) -> *typedSharedPool[T]
	mu    sync.RWMutex
}

func newSharedComponentManager(reg *ComponentMetadataRegistry) *SharedComponentManager {
	return &SharedComponentManager{reg: reg, pools: make(map[reflect.Type]any, 16)}
}

// RegisterSharedComponent registers SharedComponent[T] as a plain (handle)
// component whose destructor decrements the shared value's refcount, and
// allocates T's interning pool.
func RegisterSharedComponent[T comparable](mgr *SharedComponentManager) ComponentID {
	t := reflect.TypeFor[T]()
	mgr.mu.Lock()
	if _, ok := mgr.pools[t]; !ok {
		mgr.pools[t] = newTypedSharedPool[T]()
	}
	mgr.mu.Unlock()

	p := mgr.pools[t].(*typedSharedPool[T])
	id := registerTyped[SharedComponent[T]](mgr.reg, KindShared)
	mgr.reg.setDestructor(id, func(ptr unsafe.Pointer) {
		h := (*SharedComponentHandle)(ptr)
		p.decrementRef(h.dataIndex)
	})
	return id
}

func pool[T comparable](mgr *SharedComponentManager) *typedSharedPool[T] {
	t := reflect.TypeFor[T]()
	mgr.mu.RLock()
	p, ok := mgr.pools[t]
	mgr.mu.RUnlock()
	assertInvariant(ok, NotRegistered, "shared component %s was never registered", t)
	return p.(*typedSharedPool[T])
}

// GetSharedHandle interns value (if not already present) and always
// increments the refcount of the returned handle — on both a cache hit and
// a miss. This always-increment-on-return contract is what lets every
// EntityManager caller (setShared's both branches, getMutableShared) stay
// refcount-conserving without needing to remember whether a particular
// internal path already bumped the count; see DESIGN.md for the resolved
// ambiguity against the original's asymmetric setShared.
func GetSharedHandle[T comparable](mgr *SharedComponentManager, value T) SharedComponentHandle {
	id := GetID[SharedComponent[T]](mgr.reg)
	p := pool[T](mgr)
	idx := p.findOrCreateIndex(value)
	p.incrementRef(idx)
	return SharedComponentHandle{componentID: id, dataIndex: idx}
}

// IncrementRef / DecrementRef adjust a handle's refcount directly.
func IncrementRef[T comparable](mgr *SharedComponentManager, h SharedComponentHandle) {
	pool[T](mgr).incrementRef(h.dataIndex)
}

func DecrementRef[T comparable](mgr *SharedComponentManager, h SharedComponentHandle) {
	pool[T](mgr).decrementRef(h.dataIndex)
}

// GetShared returns the interned value for h (read-only view).
func GetShared[T comparable](mgr *SharedComponentManager, h SharedComponentHandle) T {
	return pool[T](mgr).get(h.dataIndex)
}

// GetMutableShared performs copy-on-write and returns a mutable reference
// plus the (possibly new) handle the caller must store back onto the
// entity.
func GetMutableShared[T comparable](mgr *SharedComponentManager, h SharedComponentHandle) (*T, SharedComponentHandle) {
	p := pool[T](mgr)
	newIdx := p.getMutable(h.dataIndex)
	return p.valuePtr(newIdx), SharedComponentHandle{componentID: h.componentID, dataIndex: newIdx}
}
