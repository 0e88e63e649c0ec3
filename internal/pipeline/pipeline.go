package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ridgeline-games/enginecore/internal/logging"
	"github.com/ridgeline-games/enginecore/internal/tracing"
)

// Pipeline holds the entity registry reference and the monotonic tick
// counter, and drives Execute calls against a root System each tick.
type Pipeline struct {
	id          string
	registry    Registry
	currentTick int64
	tracer      *tracing.Tracer
}

// New constructs a Pipeline over the given registry. A nil tracer disables
// tracing entirely (equivalent to tracing.New(false)). Each Pipeline is
// assigned a random ID used to correlate its log lines across ticks.
func New(registry Registry, tracer *tracing.Tracer) *Pipeline {
	if tracer == nil {
		tracer = tracing.New(false)
	}
	return &Pipeline{id: uuid.NewString(), registry: registry, tracer: tracer}
}

// ID returns the pipeline's log-correlation identifier.
func (p *Pipeline) ID() string { return p.id }

// CurrentTick returns the pipeline's monotonic tick counter.
func (p *Pipeline) CurrentTick() int64 {
	return atomic.LoadInt64(&p.currentTick)
}

// Reset sets the tick counter back to 0.
func (p *Pipeline) Reset() {
	atomic.StoreInt64(&p.currentTick, 0)
}

// Execute increments the tick counter by deltaTicks, builds the Context
// for this call, and invokes root. ctx is used only for
// cancellation and tracing; the pipeline itself never blocks on it outside
// of what root's systems choose to do.
func (p *Pipeline) Execute(ctx context.Context, root System, deltaTicks int64) error {
	newTick := atomic.AddInt64(&p.currentTick, deltaTicks)

	spanCtx, end := p.tracer.Start(ctx, "pipeline.execute")
	defer end()

	sysCtx := &Context{
		DeltaTicks:   deltaTicks,
		CurrentTick:  newTick,
		Cancellation: NewCancellationToken(spanCtx),
	}

	if !root.Enabled() {
		return nil
	}

	if err := Execute(root, p.registry, sysCtx); err != nil {
		log := logging.Default()
		log.Error().Err(err).Str("pipeline_id", p.id).Int64("tick", newTick).Msg("pipeline: execute failed")
		return err
	}
	return nil
}
