package spatial

import (
	"math"

	"github.com/ridgeline-games/enginecore/internal/domain"
)

// cosSin returns the cosine and sine of a yaw angle in radians, shared by
// BoxParams' world/local frame conversions.
func cosSin(yawRadians float32) (cos, sin float32) {
	c, s := math.Cos(float64(yawRadians)), math.Sin(float64(yawRadians))
	return float32(c), float32(s)
}

// ShapeKind tags which typed pool in the ShapeRegistry a shape's parameters
// live in.
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindCapsule
	KindCylinder
	KindBox
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindCapsule:
		return "capsule"
	case KindCylinder:
		return "cylinder"
	case KindBox:
		return "box"
	default:
		return "unknown"
	}
}

// SphereParams describes a sphere shape: a center and radius.
type SphereParams struct {
	Center domain.Vector3
	Radius float32
}

func (p SphereParams) aabb() domain.AABB {
	r := domain.Vector3{X: p.Radius, Y: p.Radius, Z: p.Radius}
	return domain.AABB{Min: p.Center.Sub(r), Max: p.Center.Add(r)}
}

// CapsuleParams describes a capsule shape: a line segment plus a radius.
type CapsuleParams struct {
	Start  domain.Vector3
	End    domain.Vector3
	Radius float32
}

func (p CapsuleParams) aabb() domain.AABB {
	r := domain.Vector3{X: p.Radius, Y: p.Radius, Z: p.Radius}
	box := domain.FromPoints(p.Start, p.End)
	return domain.AABB{Min: box.Min.Sub(r), Max: box.Max.Add(r)}
}

// CylinderParams describes an upright cylinder: center of its base, height,
// and radius. The cylinder's axis is always +Y (world up); yaw does not
// affect a cylinder's silhouette from above.
type CylinderParams struct {
	BaseCenter domain.Vector3
	Height     float32
	Radius     float32
}

func (p CylinderParams) aabb() domain.AABB {
	min := domain.Vector3{X: p.BaseCenter.X - p.Radius, Y: p.BaseCenter.Y, Z: p.BaseCenter.Z - p.Radius}
	max := domain.Vector3{X: p.BaseCenter.X + p.Radius, Y: p.BaseCenter.Y + p.Height, Z: p.BaseCenter.Z + p.Radius}
	return domain.AABB{Min: min, Max: max}
}

// BoxParams describes an oriented box: center, half-extents along its own
// local axes, and a yaw rotation (radians) about world +Y.
type BoxParams struct {
	Center      domain.Vector3
	HalfExtents domain.Vector3
	YawRadians  float32
}

func (p BoxParams) aabb() domain.AABB {
	corners := p.worldCorners()
	box := domain.FromPoints(corners[0], corners[1:]...)
	return box
}

// worldCorners returns the box's 8 corners in world space, accounting for
// yaw about +Y.
func (p BoxParams) worldCorners() [8]domain.Vector3 {
	cosY, sinY := cosSin(p.YawRadians)
	he := p.HalfExtents
	var corners [8]domain.Vector3
	i := 0
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				lx, ly, lz := sx*he.X, sy*he.Y, sz*he.Z
				wx := lx*cosY + lz*sinY
				wz := -lx*sinY + lz*cosY
				corners[i] = domain.Vector3{X: p.Center.X + wx, Y: p.Center.Y + ly, Z: p.Center.Z + wz}
				i++
			}
		}
	}
	return corners
}

// toLocal converts a world-space point into this box's local (unrotated)
// frame, for yaw-aware narrow-phase tests.
func (p BoxParams) toLocal(world domain.Vector3) domain.Vector3 {
	cosY, sinY := cosSin(p.YawRadians)
	rel := world.Sub(p.Center)
	lx := rel.X*cosY - rel.Z*sinY
	lz := rel.X*sinY + rel.Z*cosY
	return domain.Vector3{X: lx, Y: rel.Y, Z: lz}
}

// ToLocal is the exported form of toLocal, used by the World's narrow-phase
// dispatch, which transforms queries against yawed boxes into box-local
// space.
func (p BoxParams) ToLocal(world domain.Vector3) domain.Vector3 {
	return p.toLocal(world)
}

// ToLocalDir rotates a world-space direction (not a point, so no translation)
// into the box's local frame; used to transform ray directions alongside
// ToLocal's transform of ray origins.
func (p BoxParams) ToLocalDir(world domain.Vector3) domain.Vector3 {
	cosY, sinY := cosSin(p.YawRadians)
	lx := world.X*cosY - world.Z*sinY
	lz := world.X*sinY + world.Z*cosY
	return domain.Vector3{X: lx, Y: world.Y, Z: lz}
}

// FromLocalNormal rotates a local-space normal (from a RayBoxLocal/
// SphereOverlapBoxLocal hit) back into world space.
func (p BoxParams) FromLocalNormal(local domain.Vector3) domain.Vector3 {
	cosY, sinY := cosSin(p.YawRadians)
	wx := local.X*cosY + local.Z*sinY
	wz := -local.X*sinY + local.Z*cosY
	return domain.Vector3{X: wx, Y: local.Y, Z: wz}
}

// FromLocalPoint converts a box-local point back to world space.
func (p BoxParams) FromLocalPoint(local domain.Vector3) domain.Vector3 {
	cosY, sinY := cosSin(p.YawRadians)
	wx := local.X*cosY + local.Z*sinY
	wz := -local.X*sinY + local.Z*cosY
	return domain.Vector3{X: p.Center.X + wx, Y: p.Center.Y + local.Y, Z: p.Center.Z + wz}
}

// AABB returns the box's current world-space AABB, exported for callers
// outside this package (the registry and narrow-phase dispatch call the
// lowercase aabb() form internally; this wraps it for symmetry with the
// other shape kinds, none of which otherwise expose a public AABB method
// since the registry computes and caches it once on add/update).
func (p BoxParams) AABB() domain.AABB { return p.aabb() }
