package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/spatial"
)

func TestAddSphere_ProducesValidHandleWithPositiveGeneration(t *testing.T) {
	r := spatial.NewShapeRegistry()
	h, aabb := r.AddSphere(spatial.SphereParams{Center: domain.Vector3{}, Radius: 1}, false, 42, 1)

	assert.True(t, r.IsValid(h))
	assert.Greater(t, h.Generation, int64(0))
	assert.Equal(t, int64(42), r.GetUserData(h))
	assert.Equal(t, domain.Vector3{X: -1, Y: -1, Z: -1}, aabb.Min)
	assert.Equal(t, domain.Vector3{X: 1, Y: 1, Z: 1}, aabb.Max)
}

func TestRemove_InvalidatesHandleEvenAfterSlotReuse(t *testing.T) {
	r := spatial.NewShapeRegistry()
	h1, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)

	require.True(t, r.Remove(h1))
	assert.False(t, r.IsValid(h1))

	h2, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)
	assert.Equal(t, h1.Index, h2.Index)
	assert.False(t, r.IsValid(h1))
	assert.True(t, r.IsValid(h2))
}

func TestDoubleRemove_ReturnsFalse(t *testing.T) {
	r := spatial.NewShapeRegistry()
	h, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)

	require.True(t, r.Remove(h))
	assert.False(t, r.Remove(h))
}

func TestFreeList_IsLIFO(t *testing.T) {
	r := spatial.NewShapeRegistry()
	ha, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)
	hb, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)
	hc, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)

	require.True(t, r.Remove(ha))
	require.True(t, r.Remove(hb))
	require.True(t, r.Remove(hc))

	r1, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)
	r2, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)
	r3, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)

	assert.Equal(t, hc.Index, r1.Index)
	assert.Equal(t, hb.Index, r2.Index)
	assert.Equal(t, ha.Index, r3.Index)
}

func TestUpdateSphere_NoOpsOnKindMismatchOrInvalidHandle(t *testing.T) {
	r := spatial.NewShapeRegistry()
	boxHandle, _ := r.AddBox(spatial.BoxParams{HalfExtents: domain.Vector3{X: 1, Y: 1, Z: 1}}, false, 0, 1)

	_, ok := r.UpdateSphere(boxHandle, spatial.SphereParams{Radius: 2})
	assert.False(t, ok)

	var stale spatial.ShapeHandle
	_, ok = r.UpdateSphere(stale, spatial.SphereParams{Radius: 2})
	assert.False(t, ok)
}

func TestPassesMask_FiltersByIncludeAndExclude(t *testing.T) {
	r := spatial.NewShapeRegistry()
	h, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 0b0010)

	assert.True(t, r.PassesMask(h.Index, 0b0010, 0))
	assert.False(t, r.PassesMask(h.Index, 0b0001, 0))
	assert.False(t, r.PassesMask(h.Index, 0b0010, 0b0010))
}

func TestSetLayerMask_UpdatesStoredMask(t *testing.T) {
	r := spatial.NewShapeRegistry()
	h, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)

	r.SetLayerMask(h, 0xF0)
	assert.Equal(t, uint32(0xF0), r.GetLayerMask(h))
}

func TestIsValid_RejectsOutOfRangeAndNonPositiveGenerations(t *testing.T) {
	r := spatial.NewShapeRegistry()
	h, _ := r.AddSphere(spatial.SphereParams{Radius: 1}, false, 0, 1)

	assert.False(t, r.IsValid(spatial.ShapeHandle{Index: -1, Generation: h.Generation}))
	assert.False(t, r.IsValid(spatial.ShapeHandle{Index: 999, Generation: h.Generation}))
	assert.False(t, r.IsValid(spatial.ShapeHandle{Index: h.Index, Generation: 0}))
}
