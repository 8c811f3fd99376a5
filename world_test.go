package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type worldPos struct{ X, Y float64 }
type worldVel struct{ DX, DY float64 }

func TestNewWorldWiresSubsystems(t *testing.T) {
	w, err := NewWorld(WorldOptions{})
	require.NoError(t, err)
	assert.NotNil(t, w.Components)
	assert.NotNil(t, w.Archetypes)
	assert.NotNil(t, w.Entities)
	assert.NotNil(t, w.Queries)
	assert.NotNil(t, w.Scheduler)
	assert.Equal(t, 256, w.Config.MaxComponents)
	assert.Equal(t, 64, w.Config.ChunkCapacity)
}

func TestWorldEndToEndMovementSystem(t *testing.T) {
	w, err := NewWorld(WorldOptions{})
	require.NoError(t, err)

	RegisterComponent[worldPos](w.Components)
	RegisterComponent[worldVel](w.Components)

	e := w.Entities.CreateEntity()
	AddComponent(w.Entities, e, worldPos{})
	AddComponent(w.Entities, e, worldVel{DX: 2, DY: -1})

	q := NewQuery2[worldPos, worldVel](w.Components, w.Queries)
	q.Reset()
	for q.Next() {
		pos, vel := q.GetMutable()
		pos.X += vel.DX
		pos.Y += vel.DY
	}

	got := GetComponent[worldPos](w.Entities, e)
	assert.Equal(t, 2.0, got.X)
	assert.Equal(t, -1.0, got.Y)
}

func TestWorldUpdateResetsModificationTracking(t *testing.T) {
	w, err := NewWorld(WorldOptions{})
	require.NoError(t, err)
	RegisterComponent[worldPos](w.Components)

	e := w.Entities.CreateEntity()
	AddComponent(w.Entities, e, worldPos{})

	loc, _ := w.Archetypes.Location(e)
	col := loc.archetype.ComponentIndex(GetID[worldPos](w.Components))
	assert.True(t, loc.chunk.isModified(col, loc.slot))

	w.Update(1.0 / 60.0)
	assert.False(t, loc.chunk.isModified(col, loc.slot))
}

func TestWorldShutdownReportsNoLeaksWhenForced(t *testing.T) {
	w, err := NewWorld(WorldOptions{})
	require.NoError(t, err)
	errs := w.Shutdown(true)
	assert.Empty(t, errs)
}

func TestWorldDestroyEntityRemovesFromQuery(t *testing.T) {
	w, err := NewWorld(WorldOptions{})
	require.NoError(t, err)
	RegisterComponent[worldPos](w.Components)

	e := w.Entities.CreateEntity()
	AddComponent(w.Entities, e, worldPos{})
	w.Entities.DestroyEntity(e)

	q := NewQuery1[worldPos](w.Components, w.Queries)
	q.Reset()
	assert.False(t, q.Next())
}
