package ecs

import (
	"sort"

	"github.com/spiteengine/ecs/internal/memalloc"
)

// Aspect is a sorted, duplicate-free set of ComponentIDs identifying a
// storage partition. The empty aspect is the unique DAG root ("no
// components"). Value semantics: copies are cheap and safe, but the
// AspectRegistry canonicalizes equivalent aspects to a single *aspectNode
// so pointer identity can be used once an aspect is registered. Backed by
// SBOVector so the common small-aspect case (most archetypes carry well
// under memalloc's inline capacity worth of component types) never
// touches the heap, matching spec.md's "used pervasively... for small
// aspects" directive.
type Aspect struct {
	ids memalloc.SBOVector[ComponentID]
}

// NewAspect sorts and dedupes ids into a canonical Aspect value.
func NewAspect(ids ...ComponentID) Aspect {
	cp := append([]ComponentID(nil), ids...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	var out memalloc.SBOVector[ComponentID]
	for i, id := range cp {
		if i == 0 || id != cp[i-1] {
			out.Push(id)
		}
	}
	return Aspect{ids: out}
}

// Len returns the number of components in the aspect.
func (a Aspect) Len() int { return a.ids.Len() }

// IDs returns the sorted, deduped component IDs. The caller must not
// mutate the returned slice.
func (a Aspect) IDs() []ComponentID { return a.ids.Slice() }

// Contains reports whether id is a member of a.
func (a Aspect) Contains(id ComponentID) bool {
	ids := a.ids.Slice()
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	return i < len(ids) && ids[i] == id
}

// ContainsAll reports whether a is a superset of (or equal to) other.
func (a Aspect) ContainsAll(other Aspect) bool {
	ids, oids := a.ids.Slice(), other.ids.Slice()
	if len(oids) > len(ids) {
		return false
	}
	j := 0
	for _, id := range ids {
		if j >= len(oids) {
			break
		}
		if id == oids[j] {
			j++
		}
	}
	return j == len(oids)
}

// IsProperSubsetOf reports whether a ⊊ other (a.ContainsAll-inverse, and
// strict).
func (a Aspect) IsProperSubsetOf(other Aspect) bool {
	return a.ids.Len() < other.ids.Len() && other.ContainsAll(a)
}

// Intersects reports whether a and other share any component ID.
func (a Aspect) Intersects(other Aspect) bool {
	ids, oids := a.ids.Slice(), other.ids.Slice()
	i, j := 0, 0
	for i < len(ids) && j < len(oids) {
		switch {
		case ids[i] == oids[j]:
			return true
		case ids[i] < oids[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Equal reports element-wise equality of the sorted sequences.
func (a Aspect) Equal(other Aspect) bool {
	ids, oids := a.ids.Slice(), other.ids.Slice()
	if len(ids) != len(oids) {
		return false
	}
	for i := range ids {
		if ids[i] != oids[i] {
			return false
		}
	}
	return true
}

// Add returns a new aspect with ids unioned in.
func (a Aspect) Add(ids ...ComponentID) Aspect {
	return NewAspect(append(append([]ComponentID(nil), a.ids.Slice()...), ids...)...)
}

// Remove returns a new aspect with ids removed.
func (a Aspect) Remove(ids ...ComponentID) Aspect {
	remove := make(map[ComponentID]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}
	var out memalloc.SBOVector[ComponentID]
	for _, id := range a.ids.Slice() {
		if _, skip := remove[id]; !skip {
			out.Push(id)
		}
	}
	return Aspect{ids: out}
}

// Intersection returns the sorted intersection of a and other.
func (a Aspect) Intersection(other Aspect) Aspect {
	ids, oids := a.ids.Slice(), other.ids.Slice()
	var out memalloc.SBOVector[ComponentID]
	i, j := 0, 0
	for i < len(ids) && j < len(oids) {
		switch {
		case ids[i] == oids[j]:
			out.Push(ids[i])
			i++
			j++
		case ids[i] < oids[j]:
			i++
		default:
			j++
		}
	}
	return Aspect{ids: out}
}

// mask builds the bitset256 used for fast archetype candidate filtering.
func (a Aspect) mask() bitset256 {
	var m bitset256
	for _, id := range a.ids.Slice() {
		m.set(int(id))
	}
	return m
}

// key returns a comparable value usable as a Go map key for this aspect's
// component set (canonicalization lookup in AspectRegistry).
func (a Aspect) key() string {
	// Component IDs are small dense integers; encode each as four
	// little-endian bytes so
	// the resulting string is a safe map key with no separator ambiguity.
	ids := a.ids.Slice()
	buf := make([]byte, len(ids)*4)
	for i, id := range ids {
		buf[i*4] = byte(id)
		buf[i*4+1] = byte(id >> 8)
		buf[i*4+2] = byte(id >> 16)
		buf[i*4+3] = byte(id >> 24)
	}
	return string(buf)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
