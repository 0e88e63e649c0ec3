package pipeline

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ridgeline-games/enginecore/internal/logging"
)

// SerialGroup executes its children in registration order on the calling
// thread, so each child's effects are observable by the next.
type SerialGroup struct {
	BaseSystem
	ID       string
	children []System
}

// NewSerialGroup constructs an enabled SerialGroup with the given children,
// executed in the order given. ID is assigned randomly, used only to
// correlate this group's log lines with its children's.
func NewSerialGroup(children ...System) *SerialGroup {
	g := &SerialGroup{ID: uuid.NewString(), children: children}
	g.SetEnabled(true)
	return g
}

// Add appends a child to the end of the group's execution order.
func (g *SerialGroup) Add(child System) *SerialGroup {
	g.children = append(g.children, child)
	return g
}

// Children returns the group's children in execution order.
func (g *SerialGroup) Children() []System { return g.children }

// Execute runs the group: skipped entirely if disabled, otherwise each
// enabled child is dispatched through Execute in order; disabled children
// are skipped individually.
func (g *SerialGroup) Execute(registry Registry, ctx *Context) error {
	if !g.Enabled() {
		return nil
	}
	for _, child := range g.children {
		if !child.Enabled() {
			continue
		}
		if err := Execute(child, registry, ctx); err != nil {
			return err
		}
	}
	return nil
}

// ParallelGroup ticks its children concurrently with no ordering guarantee;
// the group completes only once every child has.
type ParallelGroup struct {
	BaseSystem
	ID          string
	children    []System
	maxParallel int // 0 means unbounded (one goroutine per child)
}

// NewParallelGroup constructs an enabled ParallelGroup. maxParallel bounds
// how many children run concurrently; 0 means no bound. ID is assigned
// randomly, used only to correlate this group's log lines with its
// children's.
func NewParallelGroup(maxParallel int, children ...System) *ParallelGroup {
	g := &ParallelGroup{ID: uuid.NewString(), children: children, maxParallel: maxParallel}
	g.SetEnabled(true)
	return g
}

// Add appends a child to the group.
func (g *ParallelGroup) Add(child System) *ParallelGroup {
	g.children = append(g.children, child)
	return g
}

// Children returns the group's children (order is registration order, but
// carries no execution-order guarantee).
func (g *ParallelGroup) Children() []System { return g.children }

// Execute runs every enabled child concurrently and waits for all to
// finish. A nested serial group containing this parallel group blocks on
// this call until every child completes before continuing, since Execute
// does not return until the wait group is done.
func (g *ParallelGroup) Execute(registry Registry, ctx *Context) error {
	if !g.Enabled() {
		return nil
	}

	enabled := make([]System, 0, len(g.children))
	for _, c := range g.children {
		if c.Enabled() {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	limit := g.maxParallel
	if limit <= 0 || limit > len(enabled) {
		limit = len(enabled)
	}
	sem := make(chan struct{}, limit)
	errs := make(chan error, len(enabled))

	var wg sync.WaitGroup
	for _, child := range enabled {
		child := child
		wg.Add(1)
		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Cancellation.Cancelled() {
				return
			}
			if err := Execute(child, registry, ctx); err != nil {
				log := logging.Default()
				log.Error().Err(err).Str("group_id", g.ID).Msg("pipeline: parallel group child failed")
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	var first error
	for err := range errs {
		if first == nil {
			first = err
		}
	}
	return first
}
