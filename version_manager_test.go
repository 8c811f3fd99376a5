package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionManagerGetVersionDefaultsZero(t *testing.T) {
	r := newAspectRegistry()
	vm := newVersionManager(r)
	assert.Equal(t, uint64(0), vm.GetVersion(NewAspect(1)))
}

func TestVersionManagerMakeDirtyBumpsAncestors(t *testing.T) {
	r := newAspectRegistry()
	vm := newVersionManager(r)
	child := NewAspect(1, 2)
	parent := NewAspect(1)
	r.AddOrGet(parent)
	r.AddOrGet(child)

	vm.MakeDirty(child)
	childVersion := vm.GetVersion(child)
	parentVersion := vm.GetVersion(parent)
	assert.Equal(t, childVersion, parentVersion)
	assert.NotZero(t, childVersion)
}

func TestVersionManagerMakeDirtyIsMonotonic(t *testing.T) {
	r := newAspectRegistry()
	vm := newVersionManager(r)
	a := NewAspect(1)
	r.AddOrGet(a)

	vm.MakeDirty(a)
	v1 := vm.GetVersion(a)
	vm.MakeDirty(a)
	v2 := vm.GetVersion(a)
	assert.Greater(t, v2, v1)
}
