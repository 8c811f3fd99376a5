package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitset256SetHasClear(t *testing.T) {
	var b bitset256
	assert.False(t, b.has(5))
	b.set(5)
	assert.True(t, b.has(5))
	b.clear(5)
	assert.False(t, b.has(5))
}

func TestBitset256ContainsAllAndIntersects(t *testing.T) {
	var a, sub bitset256
	a.set(1)
	a.set(200)
	sub.set(1)
	assert.True(t, a.containsAll(sub))
	sub.set(250)
	assert.False(t, a.containsAll(sub))
	assert.True(t, a.intersects(sub))
}

func TestBitset256SetOutOfRangePanics(t *testing.T) {
	var b bitset256
	assert.Panics(t, func() { b.set(999) })
}

func TestBitset256OrAndAndNot(t *testing.T) {
	var a, c bitset256
	a.set(3)
	c.set(4)
	or := a.or(c)
	assert.True(t, or.has(3))
	assert.True(t, or.has(4))

	and := a.and(c)
	assert.True(t, and.isEmpty())

	andNot := or.andNot(c)
	assert.True(t, andNot.has(3))
	assert.False(t, andNot.has(4))
}

func TestBits64SetAllAndCopyBit(t *testing.T) {
	var b bits64
	b.setAll(3)
	assert.True(t, b.has(0))
	assert.True(t, b.has(2))
	assert.False(t, b.has(3))

	var c bits64
	c.copyBit(0, 5) // from unset source leaves target unset
	assert.False(t, c.has(5))
	b.copyBit(0, 10)
	assert.True(t, b.has(10))
}
