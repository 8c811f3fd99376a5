package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPlain struct{ A, B int32 }
type testWithPointer struct{ P *int }

func TestRegisterComponentIdempotent(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id1 := RegisterComponent[testPlain](reg)
	id2 := RegisterComponent[testPlain](reg)
	assert.Equal(t, id1, id2)
}

func TestRegisterComponentDistinctTypes(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id1 := RegisterComponent[testPlain](reg)
	id2 := RegisterComponent[testWithPointer](reg)
	assert.NotEqual(t, id1, id2)
}

func TestGetIDNotRegisteredPanics(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*Error)
		require.True(t, ok)
		assert.Equal(t, NotRegistered, err.Kind)
	}()
	GetID[testPlain](reg)
}

func TestTryGetID(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	_, ok := TryGetID[testPlain](reg)
	assert.False(t, ok)
	RegisterComponent[testPlain](reg)
	id, ok := TryGetID[testPlain](reg)
	assert.True(t, ok)
	assert.NotZero(t, id)
}

func TestTriviallyRelocatableClassification(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	plainID := RegisterComponent[testPlain](reg)
	ptrID := RegisterComponent[testWithPointer](reg)
	assert.True(t, reg.meta(plainID).TriviallyRelocatable)
	assert.False(t, reg.meta(ptrID).TriviallyRelocatable)
}

func TestMaxComponentsExceededPanics(t *testing.T) {
	reg := newComponentMetadataRegistry(1)
	RegisterComponent[testPlain](reg)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*Error)
		require.True(t, ok)
		assert.Equal(t, PoolExhausted, err.Kind)
	}()
	RegisterComponent[testWithPointer](reg)
}

func TestDuplicateRegistrationDifferentKindPanics(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	registerTyped[testPlain](reg, KindPlain)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*Error)
		require.True(t, ok)
		assert.Equal(t, DuplicateRegistration, err.Kind)
	}()
	registerTyped[testPlain](reg, KindSingleton)
}
