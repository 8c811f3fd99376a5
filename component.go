package ecs

import (
	"reflect"
	"unsafe"
)

// ComponentID is a dense integer identity for a registered component type,
// assigned sequentially starting at 1; 0 is reserved for "invalid".
type ComponentID uint32

const invalidComponentID ComponentID = 0

// ComponentKind classifies how a registered type participates in the ECS,
// replacing the C++ concepts (t_plain_component / t_shared_component /
// t_singleton_component / t_event_component) with an explicit tag recorded
// at registration time — Go has no marker-base inheritance to dispatch on.
type ComponentKind uint8

const (
	KindPlain ComponentKind = iota
	KindShared
	KindSingleton
	// KindEvent is not a distinct storage kind: an event component is an
	// ordinary (KindPlain) component by convention (spec.md §6) carrying
	// an EventTag marker component alongside it. The kind exists only so
	// diagnostics can label a registration's intent.
	KindEvent
)

// moveAndDestroyFunc relocates the value at src into dst and leaves src in
// a destroyed state. For trivially relocatable types this degenerates to a
// raw copy with no meaningful "destroy" beyond zeroing.
type moveAndDestroyFunc func(dst, src unsafe.Pointer)

// destructorFunc runs any cleanup a component's removal requires (nil for
// trivially destructible types). Shared-component handles use this hook to
// decrement their pool refcount.
type destructorFunc func(ptr unsafe.Pointer)

// ComponentMetadata is immutable once registered.
type ComponentMetadata struct {
	ID                   ComponentID
	Type                 reflect.Type
	Name                 string
	Size                 uintptr
	Align                uintptr
	Kind                 ComponentKind
	TriviallyRelocatable bool
	moveAndDestroy       moveAndDestroyFunc
	destructor           destructorFunc
}

// ComponentMetadataRegistry assigns and stores ComponentMetadata, indexed
// densely by ComponentID. Registration is idempotent: registering the same
// Go type twice returns the existing ID. Unlike the teacher's package-level
// registry (which needed a ResetGlobalRegistry escape hatch for tests) this
// is owned per World, so independent worlds and parallel tests never share
// component ID spaces.
type ComponentMetadataRegistry struct {
	byType        map[reflect.Type]ComponentID
	metas         []ComponentMetadata // index 0 unused (invalidComponentID)
	maxComponents int
}

func newComponentMetadataRegistry(maxComponents int) *ComponentMetadataRegistry {
	return &ComponentMetadataRegistry{
		byType:        make(map[reflect.Type]ComponentID, 64),
		metas:         make([]ComponentMetadata, 1, maxComponents+1),
		maxComponents: maxComponents,
	}
}

// registerTyped records a new component type with the given kind and
// returns its stable ID, or the existing ID if T was already registered
// with the same kind.
func registerTyped[T any](reg *ComponentMetadataRegistry, kind ComponentKind) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := reg.byType[t]; ok {
		existing := reg.metas[id]
		assertInvariant(existing.Kind == kind, DuplicateRegistration,
			"component %s already registered as kind %d, cannot re-register as kind %d", t, existing.Kind, kind)
		return id
	}
	assertInvariant(len(reg.metas) <= reg.maxComponents, PoolExhausted,
		"MAX_COMPONENTS (%d) exceeded registering %s", reg.maxComponents, t)

	id := ComponentID(len(reg.metas))
	var zero T
	triviallyRelocatable := !typeHasPointers(t)

	meta := ComponentMetadata{
		ID:                   id,
		Type:                 t,
		Name:                 t.String(),
		Size:                 unsafe.Sizeof(zero),
		Align:                uintptr(t.Align()),
		Kind:                 kind,
		TriviallyRelocatable: triviallyRelocatable,
		moveAndDestroy: func(dst, src unsafe.Pointer) {
			d := (*T)(dst)
			s := (*T)(src)
			*d = *s
			var z T
			*s = z
		},
	}
	reg.metas = append(reg.metas, meta)
	reg.byType[t] = id
	return id
}

// typeHasPointers reports whether t (or any field/element reachable from
// it) contains a pointer-like kind, which disqualifies a type from the
// "trivially relocatable, no destroy step beyond the move" classification.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer, reflect.String:
		return true
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// setDestructor attaches a cleanup thunk to an already-registered type's
// metadata; used by SharedComponentManager to wire SharedComponent[T]'s
// refcount decrement without the metadata registry needing to know about
// shared pools.
func (reg *ComponentMetadataRegistry) setDestructor(id ComponentID, fn destructorFunc) {
	reg.metas[id].destructor = fn
}

// RegisterComponent registers a plain component type and returns its ID.
func RegisterComponent[T any](reg *ComponentMetadataRegistry) ComponentID {
	return registerTyped[T](reg, KindPlain)
}

// GetID returns the ComponentID for an already-registered type T, panicking
// with NotRegistered if T was never registered.
func GetID[T any](reg *ComponentMetadataRegistry) ComponentID {
	id, ok := TryGetID[T](reg)
	assertInvariant(ok, NotRegistered, "component %s was never registered", reflect.TypeFor[T]())
	return id
}

// TryGetID returns the ComponentID for T and whether it is registered.
func TryGetID[T any](reg *ComponentMetadataRegistry) (ComponentID, bool) {
	id, ok := reg.byType[reflect.TypeFor[T]()]
	return id, ok
}

func (reg *ComponentMetadataRegistry) meta(id ComponentID) *ComponentMetadata {
	assertInvariant(id != invalidComponentID && int(id) < len(reg.metas), InvalidHandle,
		"component ID %d out of range", id)
	return &reg.metas[id]
}
