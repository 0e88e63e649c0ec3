// Package narrowphase holds the closed-form geometric tests the spatial
// World runs against each broad-phase candidate: one pure function per
// (query-kind, shape-kind) pair, taking and returning only domain
// primitives so it has no dependency on the spatial package's shape-record
// types. Box tests are expressed in the box's own local (unrotated) frame;
// spatial.BoxParams.ToLocal/FromLocalNormal handle
// the yaw transform at the call site, so yawed boxes see the query in
// box-local space.
package narrowphase

import (
	"math"

	"github.com/ridgeline-games/enginecore/internal/domain"
)

// Hit carries the geometric result of a successful narrow-phase test, the
// payload a spatial.HitResult is built from once the caller attaches the
// shape index.
type Hit struct {
	Distance float32
	Point    domain.Vector3
	Normal   domain.Vector3
}

const epsilon = 1e-6

// ---- Point containment -----------------------------------------------

// PointSphere reports whether p lies within a sphere at center with radius r.
func PointSphere(p, center domain.Vector3, r float32) bool {
	return p.Sub(center).LengthSq() <= r*r
}

// PointCapsule reports whether p lies within a capsule from start to end
// with radius r.
func PointCapsule(p, start, end domain.Vector3, r float32) bool {
	closest, _ := domain.ClosestPointOnSegment(start, end, p)
	return p.Sub(closest).LengthSq() <= r*r
}

// PointCylinder reports whether p lies within an upright cylinder whose
// base center is baseCenter, extending height along +Y, with radius r.
func PointCylinder(p, baseCenter domain.Vector3, height, r float32) bool {
	if p.Y < baseCenter.Y || p.Y > baseCenter.Y+height {
		return false
	}
	dx, dz := p.X-baseCenter.X, p.Z-baseCenter.Z
	return dx*dx+dz*dz <= r*r
}

// PointBoxLocal reports whether localP (already in the box's local,
// unrotated frame) lies within a box centered at the origin with the given
// half-extents.
func PointBoxLocal(localP, halfExtents domain.Vector3) bool {
	return absf(localP.X) <= halfExtents.X &&
		absf(localP.Y) <= halfExtents.Y &&
		absf(localP.Z) <= halfExtents.Z
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// ---- Raycasts -----------------------------------------------------------

// RaySphere intersects a ray (origin, dir assumed unit length, maxDist)
// against a sphere. Degenerate input (NaN, zero-length dir) reports no hit
// rather than producing NaN results.
func RaySphere(origin, dir domain.Vector3, maxDist float32, center domain.Vector3, r float32) (Hit, bool) {
	if !validRay(origin, dir, maxDist) {
		return Hit{}, false
	}
	m := origin.Sub(center)
	b := m.Dot(dir)
	c := m.Dot(m) - r*r
	if c > 0 && b > 0 {
		return Hit{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return Hit{}, false
	}
	t := -b - sqrt32(disc)
	if t < 0 {
		t = 0
	}
	if t > maxDist {
		return Hit{}, false
	}
	point := origin.Add(dir.Scale(t))
	normal := point.Sub(center).Normalized()
	return Hit{Distance: t, Point: point, Normal: normal}, true
}

// RayCapsule intersects a ray against a capsule from start to end with
// radius r: first against the infinite cylinder sharing the capsule's axis,
// clipped to the segment; if that misses or lands outside the segment, the
// two end-cap spheres are tried and the nearer valid hit wins.
func RayCapsule(origin, dir domain.Vector3, maxDist float32, start, end domain.Vector3, r float32) (Hit, bool) {
	if !validRay(origin, dir, maxDist) {
		return Hit{}, false
	}

	axis := end.Sub(start)
	axisLen := axis.Length()
	if axisLen <= epsilon {
		return RaySphere(origin, dir, maxDist, start, r)
	}
	axisDir := axis.Scale(1 / axisLen)

	best, ok := Hit{}, false
	if h, hit := rayInfiniteCylinder(origin, dir, maxDist, start, axisDir, r); hit {
		proj := h.Point.Sub(start).Dot(axisDir)
		if proj >= 0 && proj <= axisLen {
			best, ok = h, true
		}
	}
	if h, hit := RaySphere(origin, dir, maxDist, start, r); hit && (!ok || h.Distance < best.Distance) {
		best, ok = h, true
	}
	if h, hit := RaySphere(origin, dir, maxDist, end, r); hit && (!ok || h.Distance < best.Distance) {
		best, ok = h, true
	}
	return best, ok
}

// rayInfiniteCylinder intersects a ray against the infinite cylinder of
// radius r whose axis passes through axisPoint in direction axisDir (unit).
func rayInfiniteCylinder(origin, dir domain.Vector3, maxDist float32, axisPoint, axisDir domain.Vector3, r float32) (Hit, bool) {
	// Work in the plane perpendicular to axisDir by subtracting the
	// component of each vector along the axis.
	deltaP := origin.Sub(axisPoint)
	dPerp := dir.Sub(axisDir.Scale(dir.Dot(axisDir)))
	pPerp := deltaP.Sub(axisDir.Scale(deltaP.Dot(axisDir)))

	a := dPerp.Dot(dPerp)
	if a <= epsilon {
		return Hit{}, false // ray parallel to axis
	}
	b := 2 * pPerp.Dot(dPerp)
	c := pPerp.Dot(pPerp) - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return Hit{}, false
	}
	sq := sqrt32(disc)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 || t > maxDist {
		return Hit{}, false
	}
	point := origin.Add(dir.Scale(t))
	radial := point.Sub(axisPoint)
	radial = radial.Sub(axisDir.Scale(radial.Dot(axisDir)))
	normal := radial.Normalized()
	return Hit{Distance: t, Point: point, Normal: normal}, true
}

// RayCylinder intersects a ray against an upright cylinder (axis +Y): the
// lateral surface clipped to [baseCenter.Y, baseCenter.Y+height], plus the
// top/bottom cap disks; the nearest valid hit wins.
func RayCylinder(origin, dir domain.Vector3, maxDist float32, baseCenter domain.Vector3, height, r float32) (Hit, bool) {
	if !validRay(origin, dir, maxDist) {
		return Hit{}, false
	}
	axisDir := domain.Vector3{X: 0, Y: 1, Z: 0}
	best, ok := Hit{}, false

	if h, hit := rayInfiniteCylinder(origin, dir, maxDist, baseCenter, axisDir, r); hit {
		if h.Point.Y >= baseCenter.Y && h.Point.Y <= baseCenter.Y+height {
			best, ok = h, true
		}
	}
	if h, hit := rayDisk(origin, dir, maxDist, baseCenter, axisDir, r); hit && (!ok || h.Distance < best.Distance) {
		h.Normal = axisDir.Scale(-1)
		best, ok = h, true
	}
	top := domain.Vector3{X: baseCenter.X, Y: baseCenter.Y + height, Z: baseCenter.Z}
	if h, hit := rayDisk(origin, dir, maxDist, top, axisDir, r); hit && (!ok || h.Distance < best.Distance) {
		h.Normal = axisDir
		best, ok = h, true
	}
	return best, ok
}

// rayDisk intersects a ray against a disk of radius r centered at center,
// perpendicular to normal.
func rayDisk(origin, dir domain.Vector3, maxDist float32, center, normal domain.Vector3, r float32) (Hit, bool) {
	denom := dir.Dot(normal)
	if absf(denom) <= epsilon {
		return Hit{}, false
	}
	t := center.Sub(origin).Dot(normal) / denom
	if t < 0 || t > maxDist {
		return Hit{}, false
	}
	point := origin.Add(dir.Scale(t))
	if point.Sub(center).LengthSq() > r*r {
		return Hit{}, false
	}
	return Hit{Distance: t, Point: point, Normal: normal}, true
}

// RayBoxLocal intersects a ray (already expressed in the box's local,
// unrotated frame) against an axis-aligned box centered at the origin with
// the given half-extents, via the standard slab method. The returned
// normal is in the same local frame; FromLocalNormal rotates it back to
// world space.
func RayBoxLocal(origin, dir domain.Vector3, maxDist float32, halfExtents domain.Vector3) (Hit, bool) {
	if !validRay(origin, dir, maxDist) {
		return Hit{}, false
	}
	tMin, tMax := float32(0), maxDist
	normalAxis := -1
	normalSign := float32(1)

	mins := [3]float32{-halfExtents.X, -halfExtents.Y, -halfExtents.Z}
	maxs := [3]float32{halfExtents.X, halfExtents.Y, halfExtents.Z}
	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}

	for axis := 0; axis < 3; axis++ {
		if absf(d[axis]) <= epsilon {
			if o[axis] < mins[axis] || o[axis] > maxs[axis] {
				return Hit{}, false
			}
			continue
		}
		inv := 1 / d[axis]
		t1 := (mins[axis] - o[axis]) * inv
		t2 := (maxs[axis] - o[axis]) * inv
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normalAxis = axis
			normalSign = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return Hit{}, false
		}
	}
	if normalAxis < 0 {
		// Origin started inside the box.
		return Hit{}, false
	}
	point := origin.Add(dir.Scale(tMin))
	var normal domain.Vector3
	switch normalAxis {
	case 0:
		normal = domain.Vector3{X: normalSign, Y: 0, Z: 0}
	case 1:
		normal = domain.Vector3{X: 0, Y: normalSign, Z: 0}
	default:
		normal = domain.Vector3{X: 0, Y: 0, Z: normalSign}
	}
	return Hit{Distance: tMin, Point: point, Normal: normal}, true
}

func validRay(origin, dir domain.Vector3, maxDist float32) bool {
	if !domain.IsFiniteVector3(origin) || !domain.IsFiniteVector3(dir) {
		return false
	}
	if dir.LengthSq() <= epsilon {
		return false
	}
	if maxDist <= 0 || math.IsNaN(float64(maxDist)) {
		return false
	}
	return true
}

// ---- Sphere overlap (penetration) ---------------------------------------

// SphereOverlapSphere tests a query sphere (center, r) against a shape
// sphere (shapeCenter, shapeR); Distance is the penetration depth.
func SphereOverlapSphere(center domain.Vector3, r float32, shapeCenter domain.Vector3, shapeR float32) (Hit, bool) {
	delta := shapeCenter.Sub(center)
	dist := delta.Length()
	if dist > r+shapeR {
		return Hit{}, false
	}
	normal := delta.Normalized()
	penetration := r + shapeR - dist
	point := shapeCenter.Sub(normal.Scale(shapeR))
	return Hit{Distance: penetration, Point: point, Normal: normal.Scale(-1)}, true
}

// SphereOverlapCapsule tests a query sphere against a capsule shape.
func SphereOverlapCapsule(center domain.Vector3, r float32, start, end domain.Vector3, capR float32) (Hit, bool) {
	closest, _ := domain.ClosestPointOnSegment(start, end, center)
	return SphereOverlapSphere(center, r, closest, capR)
}

// SphereOverlapCylinder tests a query sphere against an upright cylinder,
// approximating the cylinder's lateral surface plus caps as a capsule along
// its central axis clamped to [0,height], an approximation around the rim
// regions (see DESIGN.md).
func SphereOverlapCylinder(center domain.Vector3, r float32, baseCenter domain.Vector3, height, cylR float32) (Hit, bool) {
	top := domain.Vector3{X: baseCenter.X, Y: baseCenter.Y + height, Z: baseCenter.Z}
	return SphereOverlapCapsule(center, r, baseCenter, top, cylR)
}

// SphereOverlapBoxLocal tests a query sphere (center expressed in the box's
// local frame) against an axis-aligned box centered at the origin.
func SphereOverlapBoxLocal(localCenter domain.Vector3, r float32, halfExtents domain.Vector3) (Hit, bool) {
	clamped := domain.Vector3{
		X: clamp(localCenter.X, -halfExtents.X, halfExtents.X),
		Y: clamp(localCenter.Y, -halfExtents.Y, halfExtents.Y),
		Z: clamp(localCenter.Z, -halfExtents.Z, halfExtents.Z),
	}
	delta := localCenter.Sub(clamped)
	dist := delta.Length()
	if dist > r {
		return Hit{}, false
	}
	var normal domain.Vector3
	if dist > epsilon {
		normal = delta.Scale(1 / dist)
	} else {
		normal = domain.Vector3{X: 0, Y: 1, Z: 0}
	}
	return Hit{Distance: r - dist, Point: clamped, Normal: normal}, true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ---- Helpers for callers (quad/slash geometry) ---------------------------

// ClosestPointOnTriangle returns the point on triangle (a,b,c) closest to p,
// via the standard barycentric-region algorithm (Ericson, Real-Time
// Collision Detection §5.1.5).
func ClosestPointOnTriangle(p, a, b, c domain.Vector3) domain.Vector3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}

// ClosestPointOnQuad returns the point on the quad (given as 4 corners in
// winding order) closest to p, by splitting it into two triangles and
// keeping the nearer result.
func ClosestPointOnQuad(p domain.Vector3, quad [4]domain.Vector3) domain.Vector3 {
	c1 := ClosestPointOnTriangle(p, quad[0], quad[1], quad[2])
	c2 := ClosestPointOnTriangle(p, quad[0], quad[2], quad[3])
	if p.Sub(c1).LengthSq() <= p.Sub(c2).LengthSq() {
		return c1
	}
	return c2
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
