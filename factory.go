package enginecore

import (
	"github.com/ridgeline-games/enginecore/internal/arena"
	"github.com/ridgeline-games/enginecore/internal/engineconfig"
	"github.com/ridgeline-games/enginecore/internal/flowtree"
	"github.com/ridgeline-games/enginecore/internal/pipeline"
	"github.com/ridgeline-games/enginecore/internal/spatial"
	"github.com/ridgeline-games/enginecore/internal/spatial/broadphase"
	"github.com/ridgeline-games/enginecore/internal/tracing"
)

// NewArena constructs an unbounded Arena of entity type E with the given
// initial capacity and optional spawn/despawn callbacks.
func NewArena[E any](initialCapacity int, onSpawn SpawnFunc[E], onDespawn DespawnFunc[E]) *Arena[E] {
	return arena.New[E](initialCapacity, onSpawn, onDespawn)
}

// NewBoundedArena is NewArena with growth capped at maxCapacity slots.
func NewBoundedArena[E any](initialCapacity, maxCapacity int, onSpawn SpawnFunc[E], onDespawn DespawnFunc[E]) *Arena[E] {
	return arena.NewBounded[E](initialCapacity, maxCapacity, onSpawn, onDespawn)
}

// NewContainer constructs an empty Container.
func NewContainer() *Container {
	return arena.NewContainer()
}

// NewPipeline constructs a Pipeline over registry. Tracing is enabled
// according to cfg.Tracing.Enabled; pass a nil cfg for defaults.
func NewPipeline(registry Registry, cfg *engineconfig.Config) *Pipeline {
	tracingEnabled := false
	if cfg != nil {
		tracingEnabled = cfg.Tracing.Enabled
	}
	return pipeline.New(registry, tracing.New(tracingEnabled))
}

// NewSerialGroup constructs an enabled SerialGroup over the given children,
// executed in the order given.
func NewSerialGroup(children ...System) *SerialGroup {
	return pipeline.NewSerialGroup(children...)
}

// NewParallelGroup constructs an enabled ParallelGroup. maxParallel bounds
// how many children run concurrently at once; 0 means unbounded.
func NewParallelGroup(maxParallel int, children ...System) *ParallelGroup {
	return pipeline.NewParallelGroup(maxParallel, children...)
}

// NewTree constructs an empty, unbuilt behavior Tree; populate it with
// NewTreeBuilder.
func NewTree(name string) *Tree {
	return flowtree.New(name)
}

// NewTreeBuilder returns a Builder that populates tree's root on Complete.
func NewTreeBuilder(tree *Tree) *Builder {
	return flowtree.NewBuilder(tree)
}

// NewTreeRegistry constructs an empty TreeRegistry.
func NewTreeRegistry() *TreeRegistry {
	return flowtree.NewRegistry()
}

// NewExprEvaluator constructs an ExprEvaluator that converts State to
// variables via toVars before running a compiled expr-lang program against
// them, usable as the ConditionFunc source for data-driven trees.
func NewExprEvaluator(toVars ExprVars) *ExprEvaluator {
	return flowtree.NewExprEvaluator(toVars)
}

// broadPhaseStrategy builds the broadphase.Strategy named by cfg's
// BroadPhase field, falling back to BVH for an unrecognized or empty name.
func broadPhaseStrategy(cfg engineconfig.SpatialConfig) broadphase.Strategy {
	bounds := domainAABBFromConfig(cfg.WorldBounds)
	bpCfg := broadphase.Config{
		WorldBounds:    bounds,
		CellSize:       cfg.GridCellSize,
		GridAxis:       broadphase.AxisXZ,
		MaxOctreeDepth: 8,
		DBVTMargin:     0.1,
	}

	var kind broadphase.Kind
	switch cfg.BroadPhase {
	case "dbvt":
		kind = broadphase.KindDBVT
	case "octree":
		kind = broadphase.KindOctree
	case "mbp":
		kind = broadphase.KindMBP
	case "gridsap":
		kind = broadphase.KindGridSAP
	case "spatialhash":
		kind = broadphase.KindSpatialHash
	default:
		kind = broadphase.KindBVH
	}
	return broadphase.New(kind, bpCfg)
}

// NewWorld constructs a World whose broad-phase strategy, world bounds, grid
// cell size, and candidate buffer sizing all come from cfg's Spatial
// section; pass a nil cfg for engineconfig.Default()'s spatial settings.
func NewWorld(cfg *engineconfig.Config) *World {
	if cfg == nil {
		cfg = engineconfig.Default()
	}
	strategy := broadPhaseStrategy(cfg.Spatial)
	bufSize := cfg.Spatial.CandidateBufferSize
	return spatial.NewWorld(strategy, bufSize, bufSize*16)
}

// NewWorldWithStrategy constructs a World directly over an explicitly chosen
// broad-phase strategy, for callers that want full control rather than
// going through engineconfig (e.g. the cross-strategy equivalence tests).
func NewWorldWithStrategy(kind BroadPhaseKind, bpCfg BroadPhaseConfig, candidateBufferSize, maxCandidateBuffer int) *World {
	return spatial.NewWorld(broadphase.New(kind, bpCfg), candidateBufferSize, maxCandidateBuffer)
}
