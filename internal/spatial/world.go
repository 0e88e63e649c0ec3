// Package spatial implements the Collision/Spatial World: a two-phase
// query engine (broad-phase candidate pruning + narrow-phase geometric
// tests) for sphere/capsule/cylinder/box primitives. ShapeRegistry
// (registry.go) owns shape data in per-kind pools; World wires it
// to a pluggable broadphase.Strategy and dispatches surviving candidates to
// internal/spatial/narrowphase's pure geometric tests.
package spatial

import (
	"github.com/google/uuid"

	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/logging"
	"github.com/ridgeline-games/enginecore/internal/spatial/broadphase"
	"github.com/ridgeline-games/enginecore/internal/spatial/narrowphase"
)

// HitResult is the outcome of a single-hit or buffered query.
// ShapeIndex is -1 for "no hit".
type HitResult struct {
	ShapeIndex int32
	Distance   float32
	Point      domain.Vector3
	Normal     domain.Vector3
}

// NoHitIndex is the sentinel ShapeIndex meaning "no hit".
const NoHitIndex int32 = -1

// Ray is a query ray: an origin, a direction (need not be pre-normalized;
// World normalizes it), and a maximum travel distance.
type Ray struct {
	Origin      domain.Vector3
	Dir         domain.Vector3
	MaxDistance float32
}

// DefaultIncludeMask and DefaultExcludeMask are the world's default layer
// filter: everything included, nothing excluded.
const (
	DefaultIncludeMask uint32 = 0xFFFFFFFF
	DefaultExcludeMask uint32 = 0
)

// World ties a ShapeRegistry to a broadphase.Strategy and answers the
// typed point/ray/overlap/sweep/slash queries. A World is not internally
// synchronized; callers must externally serialize mutation vs. query.
type World struct {
	registry *ShapeRegistry
	broad    broadphase.Strategy

	candidateBuf    []int
	maxCandidateBuf int
	id              string
}

// NewWorld constructs a World over the given broad-phase strategy, with an
// initial candidate buffer sized candidateBufferSize (grown automatically,
// doubling, up to maxCandidateBuffer). A query whose candidates still do not
// fit at maxCandidateBuffer logs a warning and goes on with the candidates
// that fit; no error reaches the caller.
func NewWorld(strategy broadphase.Strategy, candidateBufferSize, maxCandidateBuffer int) *World {
	if candidateBufferSize <= 0 {
		candidateBufferSize = 256
	}
	if maxCandidateBuffer < candidateBufferSize {
		maxCandidateBuffer = candidateBufferSize * 16
	}
	return &World{
		registry:        NewShapeRegistry(),
		broad:           strategy,
		candidateBuf:    make([]int, candidateBufferSize),
		maxCandidateBuf: maxCandidateBuffer,
		id:              uuid.NewString(),
	}
}

// Registry exposes the underlying ShapeRegistry, mainly for tests and for
// callers layering combat-rule bookkeeping on top of the engine core; they
// need a read path.
func (w *World) Registry() *ShapeRegistry { return w.registry }

// candidates runs the broad-phase query against box, growing w.candidateBuf
// as needed, and returns the slice of the buffer actually populated.
func (w *World) candidates(box domain.AABB) []int {
	for {
		n, err := w.broad.Query(box, w.candidateBuf)
		if err == nil {
			return w.candidateBuf[:n]
		}
		if len(w.candidateBuf) >= w.maxCandidateBuf {
			log := logging.Default()
			log.Warn().Str("world", w.id).Int("buffer", len(w.candidateBuf)).
				Msg("spatial: candidate buffer exhausted at max size; results truncated")
			return w.candidateBuf[:n]
		}
		grown := len(w.candidateBuf) * 2
		if grown > w.maxCandidateBuf {
			grown = w.maxCandidateBuf
		}
		w.candidateBuf = make([]int, grown)
	}
}

// ---- Registration ---------------------------------------------------

// AddSphere registers a sphere shape and returns its handle.
func (w *World) AddSphere(p SphereParams, isStatic bool, userData int64, layerMask uint32) ShapeHandle {
	h, aabb := w.registry.AddSphere(p, isStatic, userData, layerMask)
	w.broad.Add(h.Index, aabb)
	return h
}

// AddCapsule registers a capsule shape and returns its handle.
func (w *World) AddCapsule(p CapsuleParams, isStatic bool, userData int64, layerMask uint32) ShapeHandle {
	h, aabb := w.registry.AddCapsule(p, isStatic, userData, layerMask)
	w.broad.Add(h.Index, aabb)
	return h
}

// AddCylinder registers a cylinder shape and returns its handle.
func (w *World) AddCylinder(p CylinderParams, isStatic bool, userData int64, layerMask uint32) ShapeHandle {
	h, aabb := w.registry.AddCylinder(p, isStatic, userData, layerMask)
	w.broad.Add(h.Index, aabb)
	return h
}

// AddBox registers a box shape and returns its handle.
func (w *World) AddBox(p BoxParams, isStatic bool, userData int64, layerMask uint32) ShapeHandle {
	h, aabb := w.registry.AddBox(p, isStatic, userData, layerMask)
	w.broad.Add(h.Index, aabb)
	return h
}

// UpdateSphere replaces h's parameters; silently no-ops if h is invalid or
// names a different shape kind.
func (w *World) UpdateSphere(h ShapeHandle, p SphereParams) {
	old, hadOld := w.registry.AABB(h)
	newBox, ok := w.registry.UpdateSphere(h, p)
	if !ok {
		return
	}
	if hadOld {
		w.broad.Update(h.Index, old, newBox)
	}
}

// UpdateCapsule is UpdateSphere's analog for capsules.
func (w *World) UpdateCapsule(h ShapeHandle, p CapsuleParams) {
	old, hadOld := w.registry.AABB(h)
	newBox, ok := w.registry.UpdateCapsule(h, p)
	if !ok {
		return
	}
	if hadOld {
		w.broad.Update(h.Index, old, newBox)
	}
}

// UpdateCylinder is UpdateSphere's analog for cylinders.
func (w *World) UpdateCylinder(h ShapeHandle, p CylinderParams) {
	old, hadOld := w.registry.AABB(h)
	newBox, ok := w.registry.UpdateCylinder(h, p)
	if !ok {
		return
	}
	if hadOld {
		w.broad.Update(h.Index, old, newBox)
	}
}

// UpdateBox is UpdateSphere's analog for boxes.
func (w *World) UpdateBox(h ShapeHandle, p BoxParams) {
	old, hadOld := w.registry.AABB(h)
	newBox, ok := w.registry.UpdateBox(h, p)
	if !ok {
		return
	}
	if hadOld {
		w.broad.Update(h.Index, old, newBox)
	}
}

// Remove invalidates h and removes it from the broad-phase. Returns false
// if h was already invalid.
func (w *World) Remove(h ShapeHandle) bool {
	if !w.registry.Remove(h) {
		return false
	}
	w.broad.Remove(h.Index)
	return true
}

// IsValid reports whether h still names a live shape.
func (w *World) IsValid(h ShapeHandle) bool { return w.registry.IsValid(h) }

// GetLayerMask returns h's layer mask.
func (w *World) GetLayerMask(h ShapeHandle) uint32 { return w.registry.GetLayerMask(h) }

// SetLayerMask sets h's layer mask.
func (w *World) SetLayerMask(h ShapeHandle, mask uint32) { w.registry.SetLayerMask(h, mask) }

// GetUserData returns h's user-data integer.
func (w *World) GetUserData(h ShapeHandle) int64 { return w.registry.GetUserData(h) }

// ---- Narrow-phase dispatch -------------------------------------------

// testPoint runs the point-containment narrow-phase test for the shape at
// registry index idx.
func (w *World) testPoint(idx int, p domain.Vector3) bool {
	kind, ok := w.registry.Kind(idx)
	if !ok {
		return false
	}
	switch kind {
	case KindSphere:
		s := w.registry.Sphere(idx)
		return narrowphase.PointSphere(p, s.Center, s.Radius)
	case KindCapsule:
		c := w.registry.Capsule(idx)
		return narrowphase.PointCapsule(p, c.Start, c.End, c.Radius)
	case KindCylinder:
		c := w.registry.Cylinder(idx)
		return narrowphase.PointCylinder(p, c.BaseCenter, c.Height, c.Radius)
	case KindBox:
		b := w.registry.Box(idx)
		return narrowphase.PointBoxLocal(b.ToLocal(p), b.HalfExtents)
	default:
		return false
	}
}

// testRay runs the ray narrow-phase test for the shape at registry index
// idx and returns a world-space Hit.
func (w *World) testRay(idx int, origin, dir domain.Vector3, maxDist float32) (narrowphase.Hit, bool) {
	kind, ok := w.registry.Kind(idx)
	if !ok {
		return narrowphase.Hit{}, false
	}
	switch kind {
	case KindSphere:
		s := w.registry.Sphere(idx)
		return narrowphase.RaySphere(origin, dir, maxDist, s.Center, s.Radius)
	case KindCapsule:
		c := w.registry.Capsule(idx)
		return narrowphase.RayCapsule(origin, dir, maxDist, c.Start, c.End, c.Radius)
	case KindCylinder:
		c := w.registry.Cylinder(idx)
		return narrowphase.RayCylinder(origin, dir, maxDist, c.BaseCenter, c.Height, c.Radius)
	case KindBox:
		b := w.registry.Box(idx)
		localOrigin := b.ToLocal(origin)
		localDir := b.ToLocalDir(dir)
		hit, ok := narrowphase.RayBoxLocal(localOrigin, localDir, maxDist, b.HalfExtents)
		if !ok {
			return narrowphase.Hit{}, false
		}
		hit.Point = b.FromLocalPoint(hit.Point)
		hit.Normal = b.FromLocalNormal(hit.Normal)
		return hit, true
	default:
		return narrowphase.Hit{}, false
	}
}

// testSphereOverlap runs the sphere-overlap narrow-phase test for the shape
// at registry index idx.
func (w *World) testSphereOverlap(idx int, center domain.Vector3, r float32) (narrowphase.Hit, bool) {
	kind, ok := w.registry.Kind(idx)
	if !ok {
		return narrowphase.Hit{}, false
	}
	switch kind {
	case KindSphere:
		s := w.registry.Sphere(idx)
		return narrowphase.SphereOverlapSphere(center, r, s.Center, s.Radius)
	case KindCapsule:
		c := w.registry.Capsule(idx)
		return narrowphase.SphereOverlapCapsule(center, r, c.Start, c.End, c.Radius)
	case KindCylinder:
		c := w.registry.Cylinder(idx)
		return narrowphase.SphereOverlapCylinder(center, r, c.BaseCenter, c.Height, c.Radius)
	case KindBox:
		b := w.registry.Box(idx)
		hit, ok := narrowphase.SphereOverlapBoxLocal(b.ToLocal(center), r, b.HalfExtents)
		if !ok {
			return narrowphase.Hit{}, false
		}
		hit.Point = b.FromLocalPoint(hit.Point)
		hit.Normal = b.FromLocalNormal(hit.Normal)
		return hit, true
	default:
		return narrowphase.Hit{}, false
	}
}

// shapeBoundingRadius returns a conservative bounding-sphere radius for the
// shape at idx, centered on its cached AABB center, used by QuerySlash's
// approximation (see its doc comment).
func (w *World) shapeBoundingRadius(idx int) (center domain.Vector3, radius float32) {
	box := w.registry.AABBAt(idx)
	center = box.Center()
	radius = box.HalfExtents().Length()
	return center, radius
}

// ---- Queries -------------------------------------------------------

// QueryPoint fills out with every shape containing p that passes the
// include/exclude mask filter, returning the count written. Hits past the
// buffer's length are discarded.
func (w *World) QueryPoint(p domain.Vector3, include, exclude uint32, out []HitResult) int {
	box := domain.FromPoint(p)
	count := 0
	for _, idx := range w.candidates(box) {
		if !w.registry.PassesMask(idx, include, exclude) {
			continue
		}
		if !w.testPoint(idx, p) {
			continue
		}
		if count >= len(out) {
			break
		}
		out[count] = HitResult{ShapeIndex: int32(idx), Distance: 0, Point: p}
		count++
	}
	return count
}

// rayAABB computes the query AABB that bounds a ray's travel.
func rayAABB(origin, dir domain.Vector3, maxDist float32) domain.AABB {
	end := origin.Add(dir.Scale(maxDist))
	return domain.FromPoints(origin, end)
}

// Raycast returns the nearest hit along ray within ray.MaxDistance passing
// the mask filter, or (zero, false) if none.
func (w *World) Raycast(ray Ray, include, exclude uint32) (HitResult, bool) {
	dir := ray.Dir.Normalized()
	if ray.Dir.LengthSq() <= 1e-12 {
		return HitResult{ShapeIndex: NoHitIndex}, false
	}
	box := rayAABB(ray.Origin, dir, ray.MaxDistance)

	best := HitResult{ShapeIndex: NoHitIndex}
	found := false
	for _, idx := range w.candidates(box) {
		if !w.registry.PassesMask(idx, include, exclude) {
			continue
		}
		hit, ok := w.testRay(idx, ray.Origin, dir, ray.MaxDistance)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = HitResult{ShapeIndex: int32(idx), Distance: hit.Distance, Point: hit.Point, Normal: hit.Normal}
			found = true
		}
	}
	return best, found
}

// RaycastAll fills out with every hit along ray, sorted by ascending
// distance, returning the count written.
func (w *World) RaycastAll(ray Ray, include, exclude uint32, out []HitResult) int {
	dir := ray.Dir.Normalized()
	if ray.Dir.LengthSq() <= 1e-12 {
		return 0
	}
	box := rayAABB(ray.Origin, dir, ray.MaxDistance)

	count := 0
	for _, idx := range w.candidates(box) {
		if !w.registry.PassesMask(idx, include, exclude) {
			continue
		}
		hit, ok := w.testRay(idx, ray.Origin, dir, ray.MaxDistance)
		if !ok {
			continue
		}
		if count >= len(out) {
			break
		}
		out[count] = HitResult{ShapeIndex: int32(idx), Distance: hit.Distance, Point: hit.Point, Normal: hit.Normal}
		count++
	}
	insertionSortByDistance(out[:count])
	return count
}

func insertionSortByDistance(hits []HitResult) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Distance < hits[j-1].Distance; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}

// QuerySphereOverlap fills out with every shape overlapping a sphere at
// center with radius r, returning the count written; Distance is the
// penetration depth.
func (w *World) QuerySphereOverlap(center domain.Vector3, r float32, include, exclude uint32, out []HitResult) int {
	pad := domain.Vector3{X: r, Y: r, Z: r}
	box := domain.AABB{Min: center.Sub(pad), Max: center.Add(pad)}

	count := 0
	for _, idx := range w.candidates(box) {
		if !w.registry.PassesMask(idx, include, exclude) {
			continue
		}
		hit, ok := w.testSphereOverlap(idx, center, r)
		if !ok {
			continue
		}
		if count >= len(out) {
			break
		}
		out[count] = HitResult{ShapeIndex: int32(idx), Distance: hit.Distance, Point: hit.Point, Normal: hit.Normal}
		count++
	}
	return count
}

// CapsuleSweep sweeps a capsule of the given radius from start to end and
// returns the first shape it touches, with Distance set to the
// time-of-impact in [0,1] over the sweep segment. The sweep is approximated
// by expanding each candidate target by the swept radius and ray-casting
// the segment against it: exact for a sphere target (the Minkowski sum of
// two spheres is a sphere), conservative for capsule/cylinder/box targets
// (see DESIGN.md).
func (w *World) CapsuleSweep(start, end domain.Vector3, radius float32, include, exclude uint32) (HitResult, bool) {
	sweep := end.Sub(start)
	sweepLen := sweep.Length()
	if sweepLen <= 1e-9 {
		return HitResult{ShapeIndex: NoHitIndex}, false
	}
	dir := sweep.Scale(1 / sweepLen)
	box := domain.FromPoints(start, end).Expand(radius)

	best := HitResult{ShapeIndex: NoHitIndex}
	found := false
	for _, idx := range w.candidates(box) {
		if !w.registry.PassesMask(idx, include, exclude) {
			continue
		}
		hit, ok := w.testSweep(idx, start, dir, sweepLen, radius)
		if !ok {
			continue
		}
		toi := hit.Distance / sweepLen
		if !found || toi < best.Distance {
			best = HitResult{ShapeIndex: int32(idx), Distance: toi, Point: hit.Point, Normal: hit.Normal}
			found = true
		}
	}
	return best, found
}

// testSweep ray-casts the swept segment against the shape at idx, expanded
// by radius per CapsuleSweep's approximation.
func (w *World) testSweep(idx int, origin, dir domain.Vector3, maxDist, radius float32) (narrowphase.Hit, bool) {
	kind, ok := w.registry.Kind(idx)
	if !ok {
		return narrowphase.Hit{}, false
	}
	switch kind {
	case KindSphere:
		s := w.registry.Sphere(idx)
		return narrowphase.RaySphere(origin, dir, maxDist, s.Center, s.Radius+radius)
	case KindCapsule:
		c := w.registry.Capsule(idx)
		return narrowphase.RayCapsule(origin, dir, maxDist, c.Start, c.End, c.Radius+radius)
	case KindCylinder:
		c := w.registry.Cylinder(idx)
		return narrowphase.RayCylinder(origin, dir, maxDist, c.BaseCenter, c.Height, c.Radius+radius)
	case KindBox:
		b := w.registry.Box(idx)
		expanded := BoxParams{Center: b.Center, HalfExtents: b.HalfExtents.Add(domain.Vector3{X: radius, Y: radius, Z: radius}), YawRadians: b.YawRadians}
		localOrigin := expanded.ToLocal(origin)
		localDir := expanded.ToLocalDir(dir)
		hit, ok := narrowphase.RayBoxLocal(localOrigin, localDir, maxDist, expanded.HalfExtents)
		if !ok {
			return narrowphase.Hit{}, false
		}
		hit.Point = expanded.FromLocalPoint(hit.Point)
		hit.Normal = expanded.FromLocalNormal(hit.Normal)
		return hit, true
	default:
		return narrowphase.Hit{}, false
	}
}

// QuerySlash fills out with every shape intersecting a quad swept by a
// blade (4 corners in winding order), returning the count written. Every
// shape kind is reduced to its cached AABB's bounding sphere for this test,
// which keeps the slash query to one geometric primitive (point-to-quad
// distance) regardless of how many shape kinds exist.
func (w *World) QuerySlash(quad [4]domain.Vector3, include, exclude uint32, out []HitResult) int {
	box := domain.FromPoints(quad[0], quad[1], quad[2], quad[3])

	count := 0
	for _, idx := range w.candidates(box) {
		if !w.registry.PassesMask(idx, include, exclude) {
			continue
		}
		center, radius := w.shapeBoundingRadius(idx)
		closest := narrowphase.ClosestPointOnQuad(center, quad)
		delta := center.Sub(closest)
		dist := delta.Length()
		if dist > radius {
			continue
		}
		if count >= len(out) {
			break
		}
		normal := delta.Normalized()
		out[count] = HitResult{ShapeIndex: int32(idx), Distance: radius - dist, Point: closest, Normal: normal}
		count++
	}
	return count
}
