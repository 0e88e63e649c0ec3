// Package broadphase implements the pluggable candidate-pruning strategies
// a spatial World chooses between at construction. Every strategy
// satisfies the same Strategy interface, so the rest of the spatial
// subsystem is strategy-agnostic.
package broadphase

import "github.com/ridgeline-games/enginecore/internal/domain"

// errBufferExhausted builds the *domain.Error every strategy returns when
// its caller-supplied out buffer was too small to hold every candidate.
func errBufferExhausted(strategyName string) error {
	return domain.NewError(domain.ErrCodeCandidateBufferExhausted, "broadphase."+strategyName,
		"candidate buffer exhausted; grow and retry", nil)
}

// Strategy is the broad-phase contract: add/remove/update a shape's AABB by
// registry index, and answer candidate queries against it.
//
// Query takes no parallel AABB array: every implementation already tracks
// whatever AABB state it needs internally (it has to, to serve Update's
// incremental relink/relocate), so a caller-maintained array would just be
// a stale-unless-kept-in-sync duplicate of that state. See DESIGN.md.
type Strategy interface {
	// Add registers index with the given AABB. index is the caller's
	// (the ShapeRegistry's) stable identifier; it is never reused by the
	// broad-phase itself.
	Add(index int, box domain.AABB)

	// Remove drops index. No-op if index was never added or already removed.
	Remove(index int)

	// Update relocates index from oldBox to newBox, relinking internal
	// structure as needed. No-op if index was never added.
	Update(index int, oldBox, newBox domain.AABB)

	// Query fills out with indices whose stored AABB overlaps box and
	// returns the count written. An out buffer too small to hold every
	// match returns len(out) together with a *domain.Error of code
	// ErrCodeCandidateBufferExhausted instead of silently
	// truncating, so callers can grow and retry.
	Query(box domain.AABB, out []int) (int, error)

	// Clear removes every registered index.
	Clear()
}

// Kind names a broad-phase implementation, used at World construction.
type Kind int

const (
	KindBVH Kind = iota
	KindDBVT
	KindOctree
	KindMBP
	KindGridSAP
	KindSpatialHash
)

func (k Kind) String() string {
	switch k {
	case KindBVH:
		return "bvh"
	case KindDBVT:
		return "dbvt"
	case KindOctree:
		return "octree"
	case KindMBP:
		return "mbp"
	case KindGridSAP:
		return "gridsap"
	case KindSpatialHash:
		return "spatialhash"
	default:
		return "unknown"
	}
}

// Axis selects GridSAP's primary sweep-and-prune axis.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
	AxisXZ
)

// Config bundles the construction parameters the bounded/gridded strategies
// need. Strategies that don't need a field ignore it.
type Config struct {
	// WorldBounds is required by Octree and MBP.
	WorldBounds domain.AABB
	// CellSize is the uniform cell edge length for MBP, GridSAP, and
	// SpatialHash.
	CellSize float32
	// GridAxis selects GridSAP's sweep axis/filter mode.
	GridAxis Axis
	// MaxOctreeDepth bounds Octree subdivision.
	MaxOctreeDepth int
	// DBVTMargin fattens DBVT leaf AABBs so small moves skip relinking.
	DBVTMargin float32
}

// DefaultConfig returns sane defaults mirroring engineconfig.Default's
// spatial section.
func DefaultConfig() Config {
	return Config{
		WorldBounds: domain.AABB{
			Min: domain.Vector3{X: -1000, Y: -1000, Z: -1000},
			Max: domain.Vector3{X: 1000, Y: 1000, Z: 1000},
		},
		CellSize:       8,
		GridAxis:       AxisXZ,
		MaxOctreeDepth: 8,
		DBVTMargin:     0.1,
	}
}

// New constructs the strategy named by kind.
func New(kind Kind, cfg Config) Strategy {
	switch kind {
	case KindBVH:
		return newBVH()
	case KindDBVT:
		return newDBVT(cfg.DBVTMargin)
	case KindOctree:
		return newOctree(cfg.WorldBounds, cfg.MaxOctreeDepth)
	case KindMBP:
		return newMultiBoxPruning(cfg.WorldBounds, cfg.CellSize)
	case KindGridSAP:
		return newGridSAP(cfg.CellSize, cfg.GridAxis)
	case KindSpatialHash:
		return newSpatialHash(cfg.CellSize)
	default:
		return newBVH()
	}
}
