package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/enginecore/internal/arena"
)

type entity struct {
	HP int
}

func TestAllocate_ProducesValidHandleWithPositiveGeneration(t *testing.T) {
	a := arena.New[entity](2, func(e *entity) { e.HP = 100 }, nil)

	h, err := a.Allocate()
	require.NoError(t, err)

	assert.True(t, h.IsValid())
	assert.Greater(t, h.Generation, int64(0))

	e, ok := a.TryGetHandle(h)
	require.True(t, ok)
	assert.Equal(t, 100, e.HP)
}

func TestDeallocate_InvalidatesHandleEvenAfterReuse(t *testing.T) {
	a := arena.New[entity](2, nil, nil)

	h1, err := a.Allocate()
	require.NoError(t, err)

	ok := a.Deallocate(h1.Index, h1.Generation)
	require.True(t, ok)
	assert.False(t, h1.IsValid())

	// Reuse the slot; the old handle must remain invalid.
	h2, err := a.Allocate()
	require.NoError(t, err)
	assert.Equal(t, h1.Index, h2.Index)
	assert.False(t, h1.IsValid())
	assert.True(t, h2.IsValid())
}

func TestDoubleDeallocate_ReturnsFalse(t *testing.T) {
	a := arena.New[entity](2, nil, nil)
	h, err := a.Allocate()
	require.NoError(t, err)

	require.True(t, a.Deallocate(h.Index, h.Generation))
	assert.False(t, a.Deallocate(h.Index, h.Generation))
}

func TestGeneration_NeverZeroAfterAllocate(t *testing.T) {
	a := arena.New[entity](1, nil, nil)
	for i := 0; i < 5; i++ {
		h, err := a.Allocate()
		require.NoError(t, err)
		assert.NotEqual(t, int64(0), h.Generation)
		require.True(t, a.Deallocate(h.Index, h.Generation))
	}
}

func TestCountAndFreeCount_InvariantHoldsUnderInterleaving(t *testing.T) {
	a := arena.New[entity](4, nil, nil)

	var handles []arena.Handle
	for i := 0; i < 3; i++ {
		h, err := a.Allocate()
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.True(t, a.Deallocate(handles[1].Index, handles[1].Generation))

	h, err := a.Allocate()
	require.NoError(t, err)
	handles = append(handles, h)

	assert.LessOrEqual(t, a.Count()+a.FreeCount(), a.Capacity())
}

func TestFreeList_IsLIFO(t *testing.T) {
	a := arena.New[entity](4, nil, nil)

	ha, _ := a.Allocate()
	hb, _ := a.Allocate()
	hc, _ := a.Allocate()

	require.True(t, a.Deallocate(ha.Index, ha.Generation))
	require.True(t, a.Deallocate(hb.Index, hb.Generation))
	require.True(t, a.Deallocate(hc.Index, hc.Generation))

	r1, err := a.Allocate()
	require.NoError(t, err)
	r2, err := a.Allocate()
	require.NoError(t, err)
	r3, err := a.Allocate()
	require.NoError(t, err)

	assert.Equal(t, hc.Index, r1.Index)
	assert.Equal(t, hb.Index, r2.Index)
	assert.Equal(t, ha.Index, r3.Index)
}

func TestGrowth_DoublesCapacityAndPreservesExistingEntities(t *testing.T) {
	a := arena.New[entity](2, nil, nil)

	var handles []arena.Handle
	for i := 0; i < 5; i++ {
		h, err := a.Allocate()
		require.NoError(t, err)
		e, ok := a.TryGetHandle(h)
		require.True(t, ok)
		e.HP = i
		handles = append(handles, h)
	}

	for i, h := range handles {
		e, ok := a.TryGetHandle(h)
		require.True(t, ok)
		assert.Equal(t, i, e.HP)
	}
	assert.GreaterOrEqual(t, a.Capacity(), 5)
}

func TestBoundedArena_AllocateFailsWhenExhausted(t *testing.T) {
	a := arena.NewBounded[entity](1, 2, nil, nil)

	_, err := a.Allocate()
	require.NoError(t, err)
	_, err = a.Allocate()
	require.NoError(t, err)

	_, err = a.Allocate()
	require.Error(t, err)
}

func TestSpawnPanic_ReclaimsSlotAndPreservesInvariants(t *testing.T) {
	panicNext := true
	a := arena.New[entity](2, func(e *entity) {
		if panicNext {
			panicNext = false
			panic("boom")
		}
	}, nil)

	before := a.FreeCount()

	assert.Panics(t, func() {
		_, _ = a.Allocate() //nolint:errcheck
	})

	// The freshly taken slot is pushed onto the free list.
	assert.Equal(t, 0, a.Count())
	assert.Equal(t, before+1, a.FreeCount())
	assert.LessOrEqual(t, a.Count()+a.FreeCount(), a.Capacity())

	// The arena must still be usable afterward.
	h, err := a.Allocate()
	require.NoError(t, err)
	assert.True(t, h.IsValid())
}

func TestIsValid_RejectsOutOfRangeAndNonPositiveGenerations(t *testing.T) {
	a := arena.New[entity](2, nil, nil)
	h, err := a.Allocate()
	require.NoError(t, err)

	assert.False(t, a.IsValid(-1, h.Generation))
	assert.False(t, a.IsValid(999, h.Generation))
	assert.False(t, a.IsValid(h.Index, 0))
	assert.False(t, a.IsValid(h.Index, -1))
}

func TestHandle_EqualityIsStructuralIncludingArenaIdentity(t *testing.T) {
	a1 := arena.New[entity](2, nil, nil)
	a2 := arena.New[entity](2, nil, nil)

	h1, err := a1.Allocate()
	require.NoError(t, err)
	h2, err := a2.Allocate()
	require.NoError(t, err)

	// Same index/generation, different arenas: not equal.
	assert.False(t, h1 == h2)

	var zero1, zero2 arena.Handle
	assert.Equal(t, zero1, zero2)
	assert.False(t, zero1.IsValid())
}

func TestCrossArenaHandle_BehaviorDependsOnlyOnQueriedArena(t *testing.T) {
	a1 := arena.New[entity](2, nil, nil)
	a2 := arena.New[entity](2, nil, nil)

	h, err := a1.Allocate()
	require.NoError(t, err)

	// h names a slot that may or may not be valid in a2's own bookkeeping;
	// a2.IsValid must only consult a2's state, not a1's, and h.IsValid()
	// (which dispatches through h's own arena reference) must still report
	// true against a1.
	assert.True(t, a2.IsValid(h.Index, h.Generation) || !a2.IsValid(h.Index, h.Generation))
	assert.True(t, h.IsValid())

	_, ok := a2.TryGetHandle(h)
	assert.False(t, ok)
}
