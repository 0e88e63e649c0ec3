package broadphase_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/spatial/broadphase"
)

func allKinds() []broadphase.Kind {
	return []broadphase.Kind{
		broadphase.KindBVH,
		broadphase.KindDBVT,
		broadphase.KindOctree,
		broadphase.KindMBP,
		broadphase.KindGridSAP,
		broadphase.KindSpatialHash,
	}
}

func box(x, y, z, half float32) domain.AABB {
	c := domain.Vector3{X: x, Y: y, Z: z}
	h := domain.Vector3{X: half, Y: half, Z: half}
	return domain.AABB{Min: c.Sub(h), Max: c.Add(h)}
}

// TestStrategies_AgreeOnCandidateSet checks the cross-strategy equivalence
// property: any two correctly implemented broad-phase strategies
// must surface the same candidates for the same query, modulo ordering.
func TestStrategies_AgreeOnCandidateSet(t *testing.T) {
	shapes := []domain.AABB{
		box(0, 0, 0, 1),
		box(5, 0, 0, 1),
		box(100, 0, 0, 1),
		box(0, 0, 5, 2),
		box(-50, 0, -50, 1),
	}
	query := box(2, 0, 2, 10)

	var reference []int
	for _, kind := range allKinds() {
		strategy := broadphase.New(kind, broadphase.DefaultConfig())
		for i, b := range shapes {
			strategy.Add(i, b)
		}
		out := make([]int, 16)
		n, err := strategy.Query(query, out)
		require.NoError(t, err)
		got := append([]int{}, out[:n]...)
		sort.Ints(got)

		if reference == nil {
			reference = got
			continue
		}
		assert.Equal(t, reference, got, "strategy %s disagreed with reference", kind)
	}
}

func TestStrategy_RemoveDropsFromSubsequentQueries(t *testing.T) {
	for _, kind := range allKinds() {
		strategy := broadphase.New(kind, broadphase.DefaultConfig())
		strategy.Add(0, box(0, 0, 0, 1))
		strategy.Remove(0)

		out := make([]int, 4)
		n, err := strategy.Query(box(0, 0, 0, 1), out)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "strategy %s still returned removed shape", kind)
	}
}

func TestStrategy_UpdateRelocatesShape(t *testing.T) {
	for _, kind := range allKinds() {
		strategy := broadphase.New(kind, broadphase.DefaultConfig())
		old := box(0, 0, 0, 1)
		strategy.Add(0, old)

		moved := box(200, 0, 200, 1)
		strategy.Update(0, old, moved)

		out := make([]int, 4)
		n, err := strategy.Query(old, out)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "strategy %s still found shape at old location", kind)

		n, err = strategy.Query(moved, out)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "strategy %s did not find shape at new location", kind)
	}
}

func TestStrategy_QueryReportsBufferExhaustion(t *testing.T) {
	for _, kind := range allKinds() {
		strategy := broadphase.New(kind, broadphase.DefaultConfig())
		strategy.Add(0, box(0, 0, 0, 1))
		strategy.Add(1, box(0, 0, 0, 1))
		strategy.Add(2, box(0, 0, 0, 1))

		out := make([]int, 1)
		_, err := strategy.Query(box(0, 0, 0, 1), out)
		assert.Error(t, err, "strategy %s did not report buffer exhaustion", kind)
	}
}

func TestStrategy_ClearRemovesEverything(t *testing.T) {
	for _, kind := range allKinds() {
		strategy := broadphase.New(kind, broadphase.DefaultConfig())
		strategy.Add(0, box(0, 0, 0, 1))
		strategy.Add(1, box(1, 0, 0, 1))
		strategy.Clear()

		out := make([]int, 4)
		n, err := strategy.Query(box(0, 0, 0, 100), out)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
}
