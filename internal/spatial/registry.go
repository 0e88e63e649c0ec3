package spatial

import (
	"github.com/ridgeline-games/enginecore/internal/domain"
)

// ShapeHandle is a safe, non-owning reference to a shape record in a
// ShapeRegistry: an (index, generation) pair checked against the
// registry's generation array. Unlike arena.Handle it carries no registry
// reference: the registry itself is the sole addressing authority, so a
// ShapeHandle means whatever the World it is presented to says it means.
type ShapeHandle struct {
	Index      int
	Generation int64
}

// record is the registry's per-slot metadata. ShapeRegistry stores one
// record per slot in a single slice, so the kind tag, user data, layer mask,
// static flag, generation and free-list link of a slot sit together; they
// are not split into one array per field.
//
// kindIndex addresses the dense, append-only per-kind parameter pool
// (spheres/capsules/cylinders/boxes); it is never reclaimed on Remove; see
// DESIGN.md for why a second free-list layer over the kind pools was not
// worth it.
type record struct {
	kind       ShapeKind
	kindIndex  int
	userData   int64
	layerMask  uint32
	isStatic   bool
	generation int64
	live       bool
	freeNext   int // index of next free slot, or -1; meaningful only while dead
}

// ShapeRegistry owns shape data: one typed pool per shape kind, a records
// slice with one record struct per slot (type tag, user data, layer mask,
// static flag, generation), and a parallel aabbs array. Only the AABBs and
// the per-kind parameters are kept in arrays of their own; the other
// per-slot fields are not. It is not internally synchronized;
// callers must externally synchronize mutation vs. query.
type ShapeRegistry struct {
	records  []record
	aabbs    []domain.AABB
	freeHead int
	live     int

	spheres   []SphereParams
	capsules  []CapsuleParams
	cylinders []CylinderParams
	boxes     []BoxParams
}

// NewShapeRegistry constructs an empty ShapeRegistry.
func NewShapeRegistry() *ShapeRegistry {
	return &ShapeRegistry{freeHead: -1}
}

// Len returns the number of slots ever allocated (including tombstones of
// removed shapes); it is an upper bound on iteration, not a live count.
func (r *ShapeRegistry) Len() int { return len(r.records) }

func (r *ShapeRegistry) takeSlot() int {
	if r.freeHead >= 0 {
		idx := r.freeHead
		r.freeHead = r.records[idx].freeNext
		return idx
	}
	r.records = append(r.records, record{freeNext: -1})
	r.aabbs = append(r.aabbs, domain.AABB{})
	return len(r.records) - 1
}

// pushFree releases idx's slot to the LIFO free list.
func (r *ShapeRegistry) pushFree(idx int) {
	r.records[idx].live = false
	r.records[idx].freeNext = r.freeHead
	r.freeHead = idx
}

func (r *ShapeRegistry) addRecord(kind ShapeKind, kindIndex int, isStatic bool, userData int64, layerMask uint32, aabb domain.AABB) ShapeHandle {
	idx := r.takeSlot()
	gen := domain.NextGeneration(r.records[idx].generation)
	r.records[idx] = record{
		kind:       kind,
		kindIndex:  kindIndex,
		userData:   userData,
		layerMask:  layerMask,
		isStatic:   isStatic,
		generation: gen,
		live:       true,
		freeNext:   -1,
	}
	r.aabbs[idx] = aabb
	r.live++
	return ShapeHandle{Index: idx, Generation: gen}
}

// LiveCount returns the number of shapes currently registered (excluding
// removed tombstones), unlike Len which counts every slot ever allocated.
func (r *ShapeRegistry) LiveCount() int { return r.live }

// AddSphere inserts a sphere shape and returns its handle and computed AABB.
func (r *ShapeRegistry) AddSphere(p SphereParams, isStatic bool, userData int64, layerMask uint32) (ShapeHandle, domain.AABB) {
	r.spheres = append(r.spheres, p)
	aabb := p.aabb()
	return r.addRecord(KindSphere, len(r.spheres)-1, isStatic, userData, layerMask, aabb), aabb
}

// AddCapsule inserts a capsule shape and returns its handle and computed AABB.
func (r *ShapeRegistry) AddCapsule(p CapsuleParams, isStatic bool, userData int64, layerMask uint32) (ShapeHandle, domain.AABB) {
	r.capsules = append(r.capsules, p)
	aabb := p.aabb()
	return r.addRecord(KindCapsule, len(r.capsules)-1, isStatic, userData, layerMask, aabb), aabb
}

// AddCylinder inserts a cylinder shape and returns its handle and computed AABB.
func (r *ShapeRegistry) AddCylinder(p CylinderParams, isStatic bool, userData int64, layerMask uint32) (ShapeHandle, domain.AABB) {
	r.cylinders = append(r.cylinders, p)
	aabb := p.aabb()
	return r.addRecord(KindCylinder, len(r.cylinders)-1, isStatic, userData, layerMask, aabb), aabb
}

// AddBox inserts a box shape and returns its handle and computed AABB.
func (r *ShapeRegistry) AddBox(p BoxParams, isStatic bool, userData int64, layerMask uint32) (ShapeHandle, domain.AABB) {
	r.boxes = append(r.boxes, p)
	aabb := p.aabb()
	return r.addRecord(KindBox, len(r.boxes)-1, isStatic, userData, layerMask, aabb), aabb
}

// IsValid reports whether h still names a live shape.
func (r *ShapeRegistry) IsValid(h ShapeHandle) bool {
	if h.Index < 0 || h.Index >= len(r.records) {
		return false
	}
	if h.Generation <= 0 {
		return false
	}
	rec := &r.records[h.Index]
	return rec.live && rec.generation == h.Generation
}

// Remove invalidates h: bumps its generation and releases the slot to the
// free list. Returns false (no-op) if h was already invalid.
func (r *ShapeRegistry) Remove(h ShapeHandle) bool {
	if !r.IsValid(h) {
		return false
	}
	idx := h.Index
	r.records[idx].generation = domain.NextGeneration(r.records[idx].generation)
	r.pushFree(idx)
	r.live--
	return true
}

// UpdateSphere replaces the parameters of the sphere named by h and returns
// the new AABB plus whether the update happened. Silently no-ops on an
// invalid or kind-mismatched handle.
func (r *ShapeRegistry) UpdateSphere(h ShapeHandle, p SphereParams) (domain.AABB, bool) {
	if !r.IsValid(h) || r.records[h.Index].kind != KindSphere {
		return domain.AABB{}, false
	}
	rec := &r.records[h.Index]
	r.spheres[rec.kindIndex] = p
	aabb := p.aabb()
	r.aabbs[h.Index] = aabb
	return aabb, true
}

// UpdateCapsule is UpdateSphere's analog for capsules.
func (r *ShapeRegistry) UpdateCapsule(h ShapeHandle, p CapsuleParams) (domain.AABB, bool) {
	if !r.IsValid(h) || r.records[h.Index].kind != KindCapsule {
		return domain.AABB{}, false
	}
	rec := &r.records[h.Index]
	r.capsules[rec.kindIndex] = p
	aabb := p.aabb()
	r.aabbs[h.Index] = aabb
	return aabb, true
}

// UpdateCylinder is UpdateSphere's analog for cylinders.
func (r *ShapeRegistry) UpdateCylinder(h ShapeHandle, p CylinderParams) (domain.AABB, bool) {
	if !r.IsValid(h) || r.records[h.Index].kind != KindCylinder {
		return domain.AABB{}, false
	}
	rec := &r.records[h.Index]
	r.cylinders[rec.kindIndex] = p
	aabb := p.aabb()
	r.aabbs[h.Index] = aabb
	return aabb, true
}

// UpdateBox is UpdateSphere's analog for boxes.
func (r *ShapeRegistry) UpdateBox(h ShapeHandle, p BoxParams) (domain.AABB, bool) {
	if !r.IsValid(h) || r.records[h.Index].kind != KindBox {
		return domain.AABB{}, false
	}
	rec := &r.records[h.Index]
	r.boxes[rec.kindIndex] = p
	aabb := p.aabb()
	r.aabbs[h.Index] = aabb
	return aabb, true
}

// AABB returns the current AABB for h, or the zero AABB and false if invalid.
func (r *ShapeRegistry) AABB(h ShapeHandle) (domain.AABB, bool) {
	if !r.IsValid(h) {
		return domain.AABB{}, false
	}
	return r.aabbs[h.Index], true
}

// GetLayerMask returns h's layer mask, or 0 if invalid.
func (r *ShapeRegistry) GetLayerMask(h ShapeHandle) uint32 {
	if !r.IsValid(h) {
		return 0
	}
	return r.records[h.Index].layerMask
}

// SetLayerMask sets h's layer mask; no-op on an invalid handle.
func (r *ShapeRegistry) SetLayerMask(h ShapeHandle, mask uint32) {
	if !r.IsValid(h) {
		return
	}
	r.records[h.Index].layerMask = mask
}

// GetUserData returns h's user-data integer, or 0 if invalid.
func (r *ShapeRegistry) GetUserData(h ShapeHandle) int64 {
	if !r.IsValid(h) {
		return 0
	}
	return r.records[h.Index].userData
}

// Kind returns the shape kind at a live registry index. Callers (the World
// and its query helpers) only ever call this with an index a broad-phase
// strategy just handed back, so it trusts the index is in range and live;
// out-of-range or dead indices return (0, false).
func (r *ShapeRegistry) Kind(index int) (ShapeKind, bool) {
	if index < 0 || index >= len(r.records) || !r.records[index].live {
		return 0, false
	}
	return r.records[index].kind, true
}

// PassesMask reports whether index's layer mask passes the include/exclude
// filter: mask&include != 0 and mask&exclude == 0.
func (r *ShapeRegistry) PassesMask(index int, include, exclude uint32) bool {
	if index < 0 || index >= len(r.records) || !r.records[index].live {
		return false
	}
	mask := r.records[index].layerMask
	return mask&include != 0 && mask&exclude == 0
}

// Sphere returns the sphere params at a live registry index known to hold a
// sphere; panics otherwise (an internal invariant violation, never caused by
// caller-supplied handles since the World always checks Kind first).
func (r *ShapeRegistry) Sphere(index int) SphereParams {
	return r.spheres[r.records[index].kindIndex]
}

// Capsule is Sphere's analog for capsules.
func (r *ShapeRegistry) Capsule(index int) CapsuleParams {
	return r.capsules[r.records[index].kindIndex]
}

// Cylinder is Sphere's analog for cylinders.
func (r *ShapeRegistry) Cylinder(index int) CylinderParams {
	return r.cylinders[r.records[index].kindIndex]
}

// Box is Sphere's analog for boxes.
func (r *ShapeRegistry) Box(index int) BoxParams {
	return r.boxes[r.records[index].kindIndex]
}

// AABBAt returns the cached AABB at a live registry index.
func (r *ShapeRegistry) AABBAt(index int) domain.AABB {
	return r.aabbs[index]
}

// UserDataAt returns the user-data integer at a live registry index.
func (r *ShapeRegistry) UserDataAt(index int) int64 {
	return r.records[index].userData
}
