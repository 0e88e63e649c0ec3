package pipeline_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/enginecore/internal/arena"
	"github.com/ridgeline-games/enginecore/internal/pipeline"
)

// recordingSystem is a SerialSystem that appends its name to a shared,
// mutex-protected log each time it runs, used to assert ordering.
type recordingSystem struct {
	pipeline.BaseSystem
	name string
	log  *[]string
	mu   *sync.Mutex
}

func newRecordingSystem(name string, log *[]string, mu *sync.Mutex) *recordingSystem {
	s := &recordingSystem{name: name, log: log, mu: mu}
	s.SetEnabled(true)
	return s
}

func (s *recordingSystem) ProcessSerial(_ pipeline.Registry, _ []arena.Handle, _ *pipeline.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.log = append(*s.log, s.name)
	return nil
}

type emptyRegistry struct{}

func (emptyRegistry) GetAllEntities() []arena.Handle { return nil }

func TestPipeline_CurrentTickAccumulatesAndResets(t *testing.T) {
	p := pipeline.New(emptyRegistry{}, nil)
	root := pipeline.NewSerialGroup()

	require.NoError(t, p.Execute(context.Background(), root, 3))
	require.NoError(t, p.Execute(context.Background(), root, 4))
	require.NoError(t, p.Execute(context.Background(), root, 5))

	assert.EqualValues(t, 12, p.CurrentTick())

	p.Reset()
	assert.EqualValues(t, 0, p.CurrentTick())
}

func TestSerialGroup_PreservesRegistrationOrder(t *testing.T) {
	var log []string
	var mu sync.Mutex

	root := pipeline.NewSerialGroup(
		newRecordingSystem("a", &log, &mu),
		newRecordingSystem("b", &log, &mu),
		newRecordingSystem("c", &log, &mu),
	)

	p := pipeline.New(emptyRegistry{}, nil)
	require.NoError(t, p.Execute(context.Background(), root, 1))

	assert.Equal(t, []string{"a", "b", "c"}, log)
}

func TestDisabledSystem_NeverRuns(t *testing.T) {
	var log []string
	var mu sync.Mutex

	disabled := newRecordingSystem("skip-me", &log, &mu)
	disabled.SetEnabled(false)

	root := pipeline.NewSerialGroup(
		newRecordingSystem("a", &log, &mu),
		disabled,
		newRecordingSystem("b", &log, &mu),
	)

	p := pipeline.New(emptyRegistry{}, nil)
	require.NoError(t, p.Execute(context.Background(), root, 1))

	assert.Equal(t, []string{"a", "b"}, log)
}

func TestDisabledGroup_SkipsAllChildren(t *testing.T) {
	var log []string
	var mu sync.Mutex

	inner := pipeline.NewSerialGroup(newRecordingSystem("never", &log, &mu))
	inner.SetEnabled(false)

	root := pipeline.NewSerialGroup(
		newRecordingSystem("before", &log, &mu),
		inner,
		newRecordingSystem("after", &log, &mu),
	)

	p := pipeline.New(emptyRegistry{}, nil)
	require.NoError(t, p.Execute(context.Background(), root, 1))

	assert.Equal(t, []string{"before", "after"}, log)
}

// boundarySystem records its name and, for the "parallel" child, records
// every contained system name atomically so the test can assert the
// serial-of-parallel-of-serial ordering property: the outer serial's
// boundary elements run strictly before/after the parallel region.
type boundaryRecorder struct {
	mu  sync.Mutex
	log []string
}

func (r *boundaryRecorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, name)
}

type innerSerialSystem struct {
	pipeline.BaseSystem
	name     string
	rec      *boundaryRecorder
	children []string
}

func newInnerSerial(name string, rec *boundaryRecorder, children ...string) *innerSerialSystem {
	s := &innerSerialSystem{name: name, rec: rec, children: children}
	s.SetEnabled(true)
	return s
}

func (s *innerSerialSystem) ProcessSerial(_ pipeline.Registry, _ []arena.Handle, _ *pipeline.Context) error {
	for _, c := range s.children {
		s.rec.record(s.name + ":" + c)
	}
	return nil
}

type boundarySystem struct {
	pipeline.BaseSystem
	name string
	rec  *boundaryRecorder
}

func newBoundary(name string, rec *boundaryRecorder) *boundarySystem {
	s := &boundarySystem{name: name, rec: rec}
	s.SetEnabled(true)
	return s
}

func (s *boundarySystem) ProcessSerial(_ pipeline.Registry, _ []arena.Handle, _ *pipeline.Context) error {
	s.rec.record(s.name)
	return nil
}

func TestNestedSerialOfParallelOfSerial_PerInnerChildOrderPreserved(t *testing.T) {
	rec := &boundaryRecorder{}

	// Each inner serial group preserves its own child order internally,
	// while the two inner groups run concurrently (no relative order
	// guaranteed between them).
	innerA := pipeline.NewSerialGroup(
		newInnerSerial("A", rec, "1", "2", "3"),
	)
	innerB := pipeline.NewSerialGroup(
		newInnerSerial("B", rec, "1", "2", "3"),
	)

	parallelRegion := pipeline.NewParallelGroup(0, innerA, innerB)

	root := pipeline.NewSerialGroup(
		newBoundary("before", rec),
		parallelRegion,
		newBoundary("after", rec),
	)

	p := pipeline.New(emptyRegistry{}, nil)
	require.NoError(t, p.Execute(context.Background(), root, 1))

	require.True(t, len(rec.log) >= 2)
	assert.Equal(t, "before", rec.log[0])
	assert.Equal(t, "after", rec.log[len(rec.log)-1])

	// Within the parallel region, inner group A's own entries are in order.
	var aOrder []string
	for _, e := range rec.log {
		if len(e) > 2 && e[0] == 'A' {
			aOrder = append(aOrder, e)
		}
	}
	assert.Equal(t, []string{"A:1", "A:2", "A:3"}, aOrder)
}

// orderedByReverse orders input handles by reversing them, a simple
// deterministic permutation to verify OrderEntities drives ProcessSerial.
type orderedByReverse struct {
	pipeline.BaseSystem
	seen *[]int
}

func (s *orderedByReverse) OrderEntities(input, output []arena.Handle) []arena.Handle {
	for i := len(input) - 1; i >= 0; i-- {
		output = append(output, input[i])
	}
	return output
}

func (s *orderedByReverse) ProcessSerial(_ pipeline.Registry, handles []arena.Handle, _ *pipeline.Context) error {
	for _, h := range handles {
		*s.seen = append(*s.seen, h.Index)
	}
	return nil
}

func TestOrderedSerialSystem_ProcessesInOrderEntitiesOrder(t *testing.T) {
	a := arena.New[int](4, nil, nil)
	var handles []arena.Handle
	for i := 0; i < 3; i++ {
		h, err := a.Allocate()
		require.NoError(t, err)
		handles = append(handles, h)
	}
	c := arena.NewContainer()
	for _, h := range handles {
		c.Add(h)
	}

	var seen []int
	sys := &orderedByReverse{seen: &seen}
	sys.SetEnabled(true)

	p := pipeline.New(pipeline.ContainerRegistry{Container: c}, nil)
	require.NoError(t, p.Execute(context.Background(), pipeline.NewSerialGroup(sys), 1))

	assert.Equal(t, []int{handles[2].Index, handles[1].Index, handles[0].Index}, seen)
}

type unknownKindSystem struct {
	pipeline.BaseSystem
}

func TestExecute_UnknownSystemKindFails(t *testing.T) {
	sys := &unknownKindSystem{}
	sys.SetEnabled(true)

	p := pipeline.New(emptyRegistry{}, nil)
	err := p.Execute(context.Background(), pipeline.NewSerialGroup(sys), 1)
	require.Error(t, err)
}
