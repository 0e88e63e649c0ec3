package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/enginecore/internal/arena"
)

func TestContainer_AddPreservesInsertionOrder(t *testing.T) {
	a := arena.New[entity](4, nil, nil)
	c := arena.NewContainer()

	var handles []arena.Handle
	for i := 0; i < 3; i++ {
		h, err := a.Allocate()
		require.NoError(t, err)
		handles = append(handles, h)
		c.Add(h)
	}

	require.Equal(t, 3, c.Capacity())
	for i, h := range handles {
		assert.Equal(t, h, c.Get(i))
	}
}

func TestContainer_IterateSkipsInvalidatedHandles(t *testing.T) {
	a := arena.New[entity](4, nil, nil)
	c := arena.NewContainer()

	h1, err := a.Allocate()
	require.NoError(t, err)
	h2, err := a.Allocate()
	require.NoError(t, err)
	h3, err := a.Allocate()
	require.NoError(t, err)
	c.Add(h1)
	c.Add(h2)
	c.Add(h3)

	require.True(t, a.Deallocate(h2.Index, h2.Generation))

	var seen []arena.Handle
	c.Iterate(0, 0, func(h arena.Handle) {
		seen = append(seen, h)
	})

	assert.Equal(t, []arena.Handle{h1, h3}, seen)
}

func TestContainer_FreeHintTracksLowestInvalidSlotAfterFullTraversal(t *testing.T) {
	a := arena.New[entity](4, nil, nil)
	c := arena.NewContainer()

	h1, _ := a.Allocate()
	h2, _ := a.Allocate()
	h3, _ := a.Allocate()
	c.Add(h1)
	c.Add(h2)
	c.Add(h3)

	require.True(t, a.Deallocate(h2.Index, h2.Generation))
	require.True(t, a.Deallocate(h3.Index, h3.Generation))

	c.Iterate(0, 0, func(arena.Handle) {})

	assert.Equal(t, 1, c.FreeHint())
}

func TestContainer_AddReusesLowestFreeHintSlot(t *testing.T) {
	a := arena.New[entity](4, nil, nil)
	c := arena.NewContainer()

	h1, _ := a.Allocate()
	h2, _ := a.Allocate()
	c.Add(h1)
	c.Add(h2)

	require.True(t, a.Deallocate(h1.Index, h1.Generation))
	c.Iterate(0, 0, func(arena.Handle) {})
	require.Equal(t, 0, c.FreeHint())

	h3, err := a.Allocate()
	require.NoError(t, err)
	c.Add(h3)

	// Capacity unchanged: h3 overwrote the freed slot 0, not appended.
	assert.Equal(t, 2, c.Capacity())
	assert.Equal(t, h3, c.Get(0))
	assert.Equal(t, h2, c.Get(1))
}

func TestContainer_IterateWithStrideDistributesAcrossFrames(t *testing.T) {
	a := arena.New[entity](8, nil, nil)
	c := arena.NewContainer()

	var handles []arena.Handle
	for i := 0; i < 6; i++ {
		h, err := a.Allocate()
		require.NoError(t, err)
		handles = append(handles, h)
		c.Add(h)
	}

	const frames = 3
	buckets := make([][]arena.Handle, frames)
	for frame := 0; frame < frames; frame++ {
		frame := frame
		c.Iterate(frames-1, frame, func(h arena.Handle) {
			buckets[frame] = append(buckets[frame], h)
		})
	}

	var total int
	for _, b := range buckets {
		total += len(b)
	}
	assert.Equal(t, len(handles), total)

	for i, h := range handles {
		assert.Contains(t, buckets[i%frames], h)
	}
}

func TestContainer_CollectReturnsValidHandlesOnly(t *testing.T) {
	a := arena.New[entity](4, nil, nil)
	c := arena.NewContainer()

	h1, _ := a.Allocate()
	h2, _ := a.Allocate()
	c.Add(h1)
	c.Add(h2)
	require.True(t, a.Deallocate(h1.Index, h1.Generation))

	got := c.Collect(0, 0)
	assert.Equal(t, []arena.Handle{h2}, got)
}

func TestContainer_EmptyContainerIterateIsNoop(t *testing.T) {
	c := arena.NewContainer()
	called := false
	c.Iterate(0, 0, func(arena.Handle) { called = true })
	assert.False(t, called)
	assert.Equal(t, -1, c.FreeHint())
}
