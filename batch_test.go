package flame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchControllerDisabledStaysAtOne(t *testing.T) {
	b := newBatchController(false, 0, 0)
	b.Update(1, 10, 10, 256, 1, 60)
	assert.Equal(t, 1, b.Size())
	b.Update(1, 50, 60, 256, 2, 60)
	assert.Equal(t, 1, b.Size())
}

func TestBatchControllerGrowsWithQualityRate(t *testing.T) {
	b := newBatchController(true, 0, 0)
	b.Update(1.0, 32, 32, 256, 1, 60)
	assert.Greater(t, b.Size(), 1)
}

func TestBatchControllerClampedByUpdateCadence(t *testing.T) {
	unclamped := newBatchController(true, 0, 0)
	unclamped.Update(0.01, 1, 1, 256, 0.01, 60)

	clamped := newBatchController(true, 100, 0)
	clamped.Update(0.01, 1, 1, 256, 0.01, 60)

	assert.LessOrEqual(t, clamped.Size(), unclamped.Size())
}

func TestBatchControllerClampedByRemainingTime(t *testing.T) {
	b := newBatchController(true, 0, 0)
	b.size = 1000
	b.Update(1, 100, 100, 100000, 59.9, 60)
	assert.Equal(t, 100, b.Size())
}

func TestEffectiveMaxBatchWallPicksTighterBound(t *testing.T) {
	b := newBatchController(true, 10, 0.5)
	got := b.effectiveMaxBatchWall()
	assert.InDelta(t, 0.1, got, 1e-9)

	b2 := newBatchController(true, 0, 0)
	assert.True(t, math.IsInf(b2.effectiveMaxBatchWall(), 1))
}

func TestBatchControllerNeverGoesBelowOne(t *testing.T) {
	b := newBatchController(true, 0, 0.001)
	b.Update(1, 1, 1, 1000, 0, 60)
	assert.Equal(t, 1, b.Size())
}
