package strintern

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternerGetOrCreateDedupes(t *testing.T) {
	in := NewInterner()
	id1 := in.GetOrCreate("player")
	id2 := in.GetOrCreate("player")
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, Undefined, id1)
}

func TestInternerDistinctStringsDistinctIDs(t *testing.T) {
	in := NewInterner()
	id1 := in.GetOrCreate("a")
	id2 := in.GetOrCreate("b")
	assert.NotEqual(t, id1, id2)
}

func TestInternerResolveRoundTrips(t *testing.T) {
	in := NewInterner()
	id := in.GetOrCreate("weapon.sword")
	s, ok := in.Resolve(id)
	assert.True(t, ok)
	assert.Equal(t, "weapon.sword", s)
}

func TestInternerResolveUndefined(t *testing.T) {
	in := NewInterner()
	_, ok := in.Resolve(Undefined)
	assert.False(t, ok)
}

func TestInternerResolveOutOfRange(t *testing.T) {
	in := NewInterner()
	_, ok := in.Resolve(HashedString(999))
	assert.False(t, ok)
}

func TestInternerConcurrentGetOrCreate(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	ids := make([]HashedString, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ids[idx] = in.GetOrCreate("shared-key")
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}
