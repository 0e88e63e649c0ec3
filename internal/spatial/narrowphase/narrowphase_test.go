package narrowphase_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/spatial/narrowphase"
)

func v(x, y, z float32) domain.Vector3 { return domain.Vector3{X: x, Y: y, Z: z} }

func TestRaySphere_HitsFromOutsideAlongAxis(t *testing.T) {
	hit, ok := narrowphase.RaySphere(v(0, 0, 10), v(0, 0, -1), 100, v(0, 0, 0), 1)
	require.True(t, ok)
	assert.InDelta(t, 9, hit.Distance, 1e-4)
	assert.InDelta(t, 1, hit.Point.Z, 1e-4)
	assert.InDelta(t, 1, hit.Normal.Z, 1e-4)
}

func TestRaySphere_MissesWhenAimedAway(t *testing.T) {
	_, ok := narrowphase.RaySphere(v(0, 0, 10), v(0, 0, 1), 100, v(0, 0, 0), 1)
	assert.False(t, ok)
}

func TestRaySphere_DegenerateDirectionReportsNoHit(t *testing.T) {
	_, ok := narrowphase.RaySphere(v(0, 0, 0), v(0, 0, 0), 100, v(5, 0, 0), 1)
	assert.False(t, ok)
}

func TestRaySphere_NaNMaxDistanceReportsNoHit(t *testing.T) {
	_, ok := narrowphase.RaySphere(v(0, 0, 0), v(1, 0, 0), float32(math.NaN()), v(5, 0, 0), 1)
	assert.False(t, ok)
}

func TestSphereOverlapSphere_PenetrationDepthMatchesDistance(t *testing.T) {
	hit, ok := narrowphase.SphereOverlapSphere(v(1.5, 0, 0), 1, v(0, 0, 0), 1)
	require.True(t, ok)
	assert.InDelta(t, 0.5, hit.Distance, 1e-4)
}

func TestSphereOverlapSphere_NoOverlapBeyondCombinedRadii(t *testing.T) {
	_, ok := narrowphase.SphereOverlapSphere(v(5, 0, 0), 1, v(0, 0, 0), 1)
	assert.False(t, ok)
}

func TestPointCapsule_ContainsPointsAlongAndAroundSegment(t *testing.T) {
	start, end := v(0, 0, 0), v(0, 5, 0)
	assert.True(t, narrowphase.PointCapsule(v(0, 2, 0), start, end, 1))
	assert.True(t, narrowphase.PointCapsule(v(0.9, 2, 0), start, end, 1))
	assert.False(t, narrowphase.PointCapsule(v(2, 2, 0), start, end, 1))
	assert.True(t, narrowphase.PointCapsule(v(0, -0.5, 0), start, end, 1))
}

func TestPointCylinder_RespectsHeightAndRadius(t *testing.T) {
	base := v(0, 0, 0)
	assert.True(t, narrowphase.PointCylinder(v(0.5, 1, 0), base, 2, 1))
	assert.False(t, narrowphase.PointCylinder(v(0.5, 3, 0), base, 2, 1))
	assert.False(t, narrowphase.PointCylinder(v(2, 1, 0), base, 2, 1))
}

func TestRayBoxLocal_HitsFaceWithOutwardNormal(t *testing.T) {
	hit, ok := narrowphase.RayBoxLocal(v(0, 0, 10), v(0, 0, -1), 100, v(1, 1, 1))
	require.True(t, ok)
	assert.InDelta(t, 9, hit.Distance, 1e-4)
	assert.InDelta(t, 1, hit.Normal.Z, 1e-4)
}

func TestRayBoxLocal_OriginInsideReportsNoHit(t *testing.T) {
	_, ok := narrowphase.RayBoxLocal(v(0, 0, 0), v(0, 0, 1), 100, v(1, 1, 1))
	assert.False(t, ok)
}

func TestRayCylinder_HitsLateralSurface(t *testing.T) {
	hit, ok := narrowphase.RayCylinder(v(10, 1, 0), v(-1, 0, 0), 100, v(0, 0, 0), 2, 1)
	require.True(t, ok)
	assert.InDelta(t, 9, hit.Distance, 1e-3)
}

func TestRayCylinder_HitsTopCap(t *testing.T) {
	hit, ok := narrowphase.RayCylinder(v(0, 10, 0), v(0, -1, 0), 100, v(0, 0, 0), 2, 1)
	require.True(t, ok)
	assert.InDelta(t, 8, hit.Distance, 1e-3)
}

func TestRayCapsule_HitsEndCapSphere(t *testing.T) {
	hit, ok := narrowphase.RayCapsule(v(0, 10, 0), v(0, -1, 0), 100, v(0, 0, 0), v(0, 5, 0), 1)
	require.True(t, ok)
	assert.InDelta(t, 4, hit.Distance, 1e-3)
}

func TestClosestPointOnQuad_ReturnsPointWithinQuadPlane(t *testing.T) {
	quad := [4]domain.Vector3{v(-1, -1, 0), v(1, -1, 0), v(1, 1, 0), v(-1, 1, 0)}
	p := narrowphase.ClosestPointOnQuad(v(0, 0, 5), quad)
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.InDelta(t, 0, p.Z, 1e-4)
}
