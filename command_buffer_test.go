package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBufferCreateAndAddComponent(t *testing.T) {
	m, reg, _ := newTestEntityManager(t)
	RegisterComponent[testPlain](reg)

	b := NewCommandBuffer(m)
	proxy := b.CreateEntity()
	AddDeferredComponent(b, proxy, testPlain{A: 5})
	b.Commit()

	var found bool
	for idx := uint32(1); idx < m.nextIndex; idx++ {
		e := NewEntity(idx, m.metas[idx].generation)
		if m.IsAlive(e) && HasComponent[testPlain](m, e) {
			found = true
			assert.Equal(t, int32(5), GetComponent[testPlain](m, e).A)
		}
	}
	assert.True(t, found, "expected a live entity carrying testPlain")
}

func TestCommandBufferRemoveComponent(t *testing.T) {
	m, reg, _ := newTestEntityManager(t)
	RegisterComponent[testPlain](reg)
	e := m.CreateEntity()
	AddComponent(m, e, testPlain{})

	b := NewCommandBuffer(m)
	RemoveDeferredComponent[testPlain](b, e)
	b.Commit()

	assert.False(t, HasComponent[testPlain](m, e))
}

func TestCommandBufferDestroyEntity(t *testing.T) {
	m, _, _ := newTestEntityManager(t)
	e := m.CreateEntity()

	b := NewCommandBuffer(m)
	b.DestroyEntity(e)
	b.Commit()

	assert.False(t, m.IsAlive(e))
}

func TestCommandBufferDoubleCommitPanics(t *testing.T) {
	m, _, _ := newTestEntityManager(t)
	b := NewCommandBuffer(m)
	b.Commit()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*Error)
		require.True(t, ok)
		assert.Equal(t, AspectViolation, err.Kind)
	}()
	b.Commit()
}

func TestCommandBufferProxyTargetedByMultipleCommands(t *testing.T) {
	m, reg, _ := newTestEntityManager(t)
	RegisterComponent[testPlain](reg)
	RegisterComponent[testWithPointer](reg)

	b := NewCommandBuffer(m)
	proxy := b.CreateEntity()
	AddDeferredComponent(b, proxy, testPlain{A: 1})
	AddDeferredComponent(b, proxy, testWithPointer{})
	b.Commit()

	var matched Entity
	for idx := uint32(1); idx < m.nextIndex; idx++ {
		e := NewEntity(idx, m.metas[idx].generation)
		if m.IsAlive(e) && HasComponent[testPlain](m, e) && HasComponent[testWithPointer](m, e) {
			matched = e
		}
	}
	require.NotEqual(t, UndefinedEntity, matched)
}
