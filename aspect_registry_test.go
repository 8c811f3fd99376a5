package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAspectRegistryAddOrGetCanonicalizes(t *testing.T) {
	r := newAspectRegistry()
	n1 := r.AddOrGet(NewAspect(1, 2))
	n2 := r.AddOrGet(NewAspect(2, 1))
	assert.Same(t, n1, n2)
}

func TestAspectRegistryEmptyAspectIsRoot(t *testing.T) {
	r := newAspectRegistry()
	n := r.AddOrGet(Aspect{})
	assert.Same(t, r.root, n)
}

func TestAspectRegistryDescendantsDAGSafe(t *testing.T) {
	r := newAspectRegistry()
	// {1} < {1,2} and {1} < {1,3}; {1,2,3} is a descendant of both via
	// different parents, and must appear exactly once.
	r.AddOrGet(NewAspect(1))
	r.AddOrGet(NewAspect(1, 2))
	r.AddOrGet(NewAspect(1, 3))
	r.AddOrGet(NewAspect(1, 2, 3))

	desc := r.Descendants(NewAspect(1))
	seen := map[string]int{}
	for _, a := range desc {
		seen[a.key()]++
	}
	for k, count := range seen {
		assert.Equal(t, 1, count, "aspect %q visited more than once", k)
	}
	assert.Len(t, desc, 4) // {1}, {1,2}, {1,3}, {1,2,3}
}

func TestAspectRegistryAncestors(t *testing.T) {
	r := newAspectRegistry()
	r.AddOrGet(NewAspect(1))
	r.AddOrGet(NewAspect(1, 2))
	anc := r.Ancestors(NewAspect(1, 2))
	assert.Len(t, anc, 3) // {}, {1}, {1,2}
}

func TestAspectRegistryReparentsOnInsert(t *testing.T) {
	r := newAspectRegistry()
	// Insert the superset first, then the subset: the subset must be
	// spliced in between root and the superset.
	r.AddOrGet(NewAspect(1, 2, 3))
	mid := r.AddOrGet(NewAspect(1, 2))

	desc := r.Descendants(NewAspect(1, 2))
	assert.Len(t, desc, 2) // {1,2} and {1,2,3}

	found := false
	for _, c := range mid.children {
		if c.aspect.Equal(NewAspect(1, 2, 3)) {
			found = true
		}
	}
	assert.True(t, found, "expected {1,2,3} reparented under {1,2}")
}

func TestAspectRegistryDescendantsOfUnregisteredIsNil(t *testing.T) {
	r := newAspectRegistry()
	assert.Nil(t, r.Descendants(NewAspect(42)))
}
