package enginecore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enginecore "github.com/ridgeline-games/enginecore"
)

// combatant is the entity record the end-to-end game-loop tests run against:
// a position/velocity pair on the X axis plus hit points, the minimum shape
// the movement/damage/cleanup scenario needs.
type combatant struct {
	id int
	hp int
	x  float32
	vx float32
}

// movementSystem advances every live combatant by vx per tick.
type movementSystem struct {
	enginecore.BaseSystem
	arena *enginecore.Arena[combatant]
}

func (s *movementSystem) ProcessSerial(_ enginecore.Registry, handles []enginecore.Handle, ctx *enginecore.Context) error {
	for _, h := range handles {
		c, ok := s.arena.TryGetHandle(h)
		if !ok {
			continue
		}
		c.x += c.vx * float32(ctx.DeltaTicks)
	}
	return nil
}

// damageCommand queues damage against a target for the next damageSystem
// pass; damage emission itself is game-logic territory, so the test plays
// the emitter's role directly.
type damageCommand struct {
	target enginecore.Handle
	amount int
}

// damageSystem drains its queued commands and applies them to whichever
// targets are still alive.
type damageSystem struct {
	enginecore.BaseSystem
	arena *enginecore.Arena[combatant]
	queue []damageCommand
}

func (s *damageSystem) ProcessSerial(_ enginecore.Registry, _ []enginecore.Handle, _ *enginecore.Context) error {
	for _, cmd := range s.queue {
		c, ok := s.arena.TryGetHandle(cmd.target)
		if !ok {
			continue
		}
		c.hp -= cmd.amount
	}
	s.queue = s.queue[:0]
	return nil
}

// cleanupSystem deallocates combatants at or below zero hp and records
// their ids.
type cleanupSystem struct {
	enginecore.BaseSystem
	arena   *enginecore.Arena[combatant]
	removed []int
}

func (s *cleanupSystem) ProcessSerial(_ enginecore.Registry, handles []enginecore.Handle, _ *enginecore.Context) error {
	for _, h := range handles {
		c, ok := s.arena.TryGetHandle(h)
		if !ok || c.hp > 0 {
			continue
		}
		s.removed = append(s.removed, c.id)
		s.arena.Deallocate(h.Index, h.Generation)
	}
	return nil
}

func enabled[S interface{ SetEnabled(bool) }](s S) S {
	s.SetEnabled(true)
	return s
}

func TestGameLoop_MovementAndDamageThenCleanup(t *testing.T) {
	a := enginecore.NewArena[combatant](4, nil, nil)
	entities := enginecore.NewContainer()

	nextID := 0
	spawn := func(hp int, vx float32) enginecore.Handle {
		h, err := a.Allocate()
		require.NoError(t, err)
		c, ok := a.TryGetHandle(h)
		require.True(t, ok)
		nextID++
		*c = combatant{id: nextID, hp: hp, vx: vx}
		entities.Add(h)
		return h
	}

	e1 := spawn(100, 10)
	e2 := spawn(50, -5)

	registry := enginecore.ContainerRegistry{Container: entities}
	movement := enabled(&movementSystem{arena: a})
	damage := enabled(&damageSystem{arena: a})
	cleanup := enabled(&cleanupSystem{arena: a})

	p := enginecore.NewPipeline(registry, nil)
	group := enginecore.NewSerialGroup(movement, damage)

	// Tick 1: both move, E2 takes 35.
	damage.queue = append(damage.queue, damageCommand{target: e2, amount: 35})
	require.NoError(t, p.Execute(context.Background(), group, 1))

	c1, ok := a.TryGetHandle(e1)
	require.True(t, ok)
	c2, ok := a.TryGetHandle(e2)
	require.True(t, ok)
	assert.InDelta(t, 10.0, c1.x, 1e-6)
	assert.InDelta(t, -5.0, c2.x, 1e-6)
	assert.Equal(t, 100, c1.hp)
	assert.Equal(t, 15, c2.hp)
	assert.True(t, e1.IsValid())
	assert.True(t, e2.IsValid())

	// Tick 2: E2 takes another 35, then cleanup reaps it.
	damage.queue = append(damage.queue, damageCommand{target: e2, amount: 35})
	require.NoError(t, p.Execute(context.Background(), group, 1))
	require.NoError(t, p.Execute(context.Background(), enginecore.NewSerialGroup(cleanup), 0))

	assert.False(t, e2.IsValid())
	assert.True(t, e1.IsValid())
	assert.Equal(t, []int{2}, cleanup.removed)
	assert.Equal(t, 1, a.Count())
}

func TestSceneBuilder_AssemblesEntitiesShapesAndTrees(t *testing.T) {
	a := enginecore.NewArena[combatant](4, nil, nil)
	entities := enginecore.NewContainer()
	world := enginecore.NewWorld(nil)
	trees := enginecore.NewTreeRegistry()

	idle := enginecore.NewTree("idle")
	_, err := enginecore.NewTreeBuilder(idle).AlwaysSuccess().Complete()
	require.NoError(t, err)

	scene := enginecore.NewSceneBuilder(a, entities, world, trees).
		Spawn().
		AttachSphere(enginecore.SphereParams{Center: enginecore.Vector3{Y: 1}, Radius: 0.5}, false, 0x1).
		AttachTree(idle).
		Spawn().
		AttachBox(enginecore.BoxParams{Center: enginecore.Vector3{X: 3}, HalfExtents: enginecore.Vector3{X: 1, Y: 1, Z: 1}}, true, 0x2)
	require.NoError(t, scene.Err())

	built := scene.Build()
	require.Len(t, built, 2)
	assert.True(t, built[0].Handle.IsValid())
	assert.True(t, built[1].Handle.IsValid())
	require.Len(t, built[0].Shapes, 1)
	require.Len(t, built[1].Shapes, 1)
	require.Len(t, built[0].TreeNames, 1)
	assert.Empty(t, built[1].TreeNames)

	// Shapes carry the owning entity's index as user data.
	assert.EqualValues(t, built[0].Handle.Index, world.GetUserData(built[0].Shapes[0]))
	assert.EqualValues(t, built[1].Handle.Index, world.GetUserData(built[1].Shapes[0]))

	// The anonymous tree name resolves back to the registered tree.
	assert.Same(t, idle, trees.Lookup(built[0].TreeNames[0]))
	assert.Equal(t, 1, trees.Size())
	assert.Equal(t, built[1].Handle, scene.Current())
}

func TestFacade_RaycastHitsSceneBuilderShape(t *testing.T) {
	a := enginecore.NewArena[combatant](4, nil, nil)
	entities := enginecore.NewContainer()
	world := enginecore.NewWorld(nil)

	scene := enginecore.NewSceneBuilder(a, entities, world, nil).
		Spawn().
		AttachSphere(enginecore.SphereParams{Center: enginecore.Vector3{}, Radius: 1}, false, 0x1)
	require.NoError(t, scene.Err())

	hit, ok := world.Raycast(enginecore.Ray{
		Origin:      enginecore.Vector3{Z: 10},
		Dir:         enginecore.Vector3{Z: -1},
		MaxDistance: 100,
	}, enginecore.DefaultIncludeMask, enginecore.DefaultExcludeMask)
	require.True(t, ok)
	assert.InDelta(t, 9.0, hit.Distance, 1e-3)
	assert.EqualValues(t, scene.Current().Index, world.GetUserData(scene.Build()[0].Shapes[0]))
}

func TestDefaultConfig_MatchesDocumentedDefaults(t *testing.T) {
	cfg := enginecore.DefaultConfig()
	assert.Equal(t, 8, cfg.Pipeline.MaxParallelSystems)
	assert.Equal(t, 64, cfg.FlowTree.MaxCallDepth)
	assert.Equal(t, "bvh", cfg.Spatial.BroadPhase)
	assert.Equal(t, 256, cfg.Spatial.CandidateBufferSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)
}
