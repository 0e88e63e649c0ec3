package flowtree

// frameKind identifies which composite/decorator a builder stack frame will
// resolve into once closed with End.
type frameKind int

const (
	frameSequence frameKind = iota
	frameSelector
	frameParallel
	frameRace
	frameJoin
	frameRandomSelector
	frameShuffledSelector
	frameWeightedRandomSelector
	frameRoundRobin
	frameInverter
	frameSucceeder
	frameFailer
	frameRepeat
	frameRepeatUntilFail
	frameRepeatUntilSuccess
	frameRetry
	frameTimeout
	frameDelay
	frameGuard
	frameScope
)

type frame struct {
	kind     frameKind
	children []Node
	weights  []float64
	pending  *float64

	policy   ParallelPolicy
	n        int
	duration int64
	cond     ConditionFunc
	onEnter  ScopeEvent
	onExit   ScopeExit
}

// Builder appends nodes to a Tree via a fluent, stack-based DSL: Open a
// composite/decorator, add its children, then End() it to fold it into its
// parent's children (or make it the tree's root if the stack empties back
// out). Complete finalizes the tree, failing with ErrBuilderIncomplete if
// any frame was left open.
type Builder struct {
	tree    *Tree
	stack   []*frame
	pending Node // the single node produced once the stack empties
}

// NewBuilder returns a Builder that will populate tree's root on Complete.
func NewBuilder(tree *Tree) *Builder {
	return &Builder{tree: tree}
}

func (b *Builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) push(kind frameKind) *frame {
	f := &frame{kind: kind}
	b.stack = append(b.stack, f)
	return f
}

// add attaches node as a child of the currently open frame, or becomes the
// builder's pending root node if the stack is empty.
func (b *Builder) add(node Node) {
	top := b.top()
	if top == nil {
		b.pending = node
		return
	}
	if top.kind == frameWeightedRandomSelector {
		w := 1.0
		if top.pending != nil {
			w = *top.pending
			top.pending = nil
		}
		top.weights = append(top.weights, w)
	}
	top.children = append(top.children, node)
}

// Weight sets the selection weight for the next child added directly under
// an open WeightedRandomSelector frame. Default weight is 1.0 if omitted.
func (b *Builder) Weight(w float64) *Builder {
	if top := b.top(); top != nil {
		top.pending = &w
	}
	return b
}

// --- composite opens ---

func (b *Builder) Sequence() *Builder        { b.push(frameSequence); return b }
func (b *Builder) Selector() *Builder        { b.push(frameSelector); return b }
func (b *Builder) Race() *Builder            { b.push(frameRace); return b }
func (b *Builder) RandomSelector() *Builder  { b.push(frameRandomSelector); return b }
func (b *Builder) RoundRobin() *Builder      { b.push(frameRoundRobin); return b }

func (b *Builder) ShuffledSelector() *Builder {
	b.push(frameShuffledSelector)
	return b
}

func (b *Builder) WeightedRandomSelector() *Builder {
	b.push(frameWeightedRandomSelector)
	return b
}

func (b *Builder) Parallel(policy ParallelPolicy) *Builder {
	f := b.push(frameParallel)
	f.policy = policy
	return b
}

func (b *Builder) Join(policy ParallelPolicy) *Builder {
	f := b.push(frameJoin)
	f.policy = policy
	return b
}

// --- decorator opens (single child expected) ---

func (b *Builder) Inverter() *Builder            { b.push(frameInverter); return b }
func (b *Builder) Succeeder() *Builder           { b.push(frameSucceeder); return b }
func (b *Builder) Failer() *Builder              { b.push(frameFailer); return b }
func (b *Builder) RepeatUntilFail() *Builder     { b.push(frameRepeatUntilFail); return b }
func (b *Builder) RepeatUntilSuccess() *Builder  { b.push(frameRepeatUntilSuccess); return b }

func (b *Builder) Repeat(n int) *Builder {
	f := b.push(frameRepeat)
	f.n = n
	return b
}

func (b *Builder) Retry(n int) *Builder {
	f := b.push(frameRetry)
	f.n = n
	return b
}

func (b *Builder) Timeout(durationTicks int64) *Builder {
	f := b.push(frameTimeout)
	f.duration = durationTicks
	return b
}

func (b *Builder) Delay(durationTicks int64) *Builder {
	f := b.push(frameDelay)
	f.duration = durationTicks
	return b
}

func (b *Builder) Guard(cond ConditionFunc) *Builder {
	f := b.push(frameGuard)
	f.cond = cond
	return b
}

func (b *Builder) Scope(onEnter ScopeEvent, onExit ScopeExit) *Builder {
	f := b.push(frameScope)
	f.onEnter = onEnter
	f.onExit = onExit
	return b
}

// End closes the most recently opened frame, builds its node, and attaches
// it to its parent frame (or stores it as the builder's pending root).
func (b *Builder) End() *Builder {
	if len(b.stack) == 0 {
		return b
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	var node Node
	switch f.kind {
	case frameSequence:
		node = NewSequence(f.children...)
	case frameSelector:
		node = NewSelector(f.children...)
	case frameParallel:
		node = NewParallel(f.policy, f.children...)
	case frameRace:
		node = NewRace(f.children...)
	case frameJoin:
		node = NewJoin(f.policy, f.children...)
	case frameRandomSelector:
		node = NewRandomSelector(f.children...)
	case frameShuffledSelector:
		node = NewShuffledSelector(f.children...)
	case frameWeightedRandomSelector:
		wc := make([]WeightedChild, len(f.children))
		for i, c := range f.children {
			wc[i] = WeightedChild{Weight: f.weights[i], Node: c}
		}
		node = NewWeightedRandomSelector(wc...)
	case frameRoundRobin:
		node = NewRoundRobin(f.children...)
	case frameInverter:
		node = NewInverter(b.onlyChild(f))
	case frameSucceeder:
		node = NewSucceeder(b.onlyChild(f))
	case frameFailer:
		node = NewFailer(b.onlyChild(f))
	case frameRepeat:
		node = NewRepeat(f.n, b.onlyChild(f))
	case frameRepeatUntilFail:
		node = NewRepeatUntilFail(b.onlyChild(f))
	case frameRepeatUntilSuccess:
		node = NewRepeatUntilSuccess(b.onlyChild(f))
	case frameRetry:
		node = NewRetry(f.n, b.onlyChild(f))
	case frameTimeout:
		node = NewTimeout(f.duration, b.onlyChild(f))
	case frameDelay:
		node = NewDelay(f.duration, b.onlyChild(f))
	case frameGuard:
		node = NewGuard(f.cond, b.onlyChild(f))
	case frameScope:
		node = NewScope(f.onEnter, f.onExit, b.onlyChild(f))
	}

	b.add(node)
	return b
}

// onlyChild returns the single child a decorator frame expects, or an
// AlwaysFailure placeholder if none was added (a malformed tree, but one
// that fails safely rather than panicking at tick time).
func (b *Builder) onlyChild(f *frame) Node {
	if len(f.children) == 0 {
		return NewAlwaysFailure()
	}
	return f.children[0]
}

// --- leaves ---

func (b *Builder) Action(fn ActionFunc) *Builder {
	b.add(NewAction(fn))
	return b
}

func (b *Builder) Condition(fn ConditionFunc) *Builder {
	b.add(NewCondition(fn))
	return b
}

func (b *Builder) Wait(durationTicks int64) *Builder {
	b.add(NewWait(durationTicks))
	return b
}

func (b *Builder) WaitUntil(cond ConditionFunc, interval int64) *Builder {
	b.add(NewWaitUntil(cond, interval))
	return b
}

func (b *Builder) Yield() *Builder {
	b.add(NewYield())
	return b
}

func (b *Builder) AlwaysSuccess() *Builder {
	b.add(NewAlwaysSuccess())
	return b
}

func (b *Builder) AlwaysFailure() *Builder {
	b.add(NewAlwaysFailure())
	return b
}

func (b *Builder) Return(status Status) *Builder {
	b.add(NewReturn(status))
	return b
}

func (b *Builder) StaticSubTree(tree *Tree) *Builder {
	b.add(NewStaticSubTree(tree))
	return b
}

func (b *Builder) DynamicSubTree(provider TreeProvider) *Builder {
	b.add(NewDynamicSubTree(provider))
	return b
}

func (b *Builder) StateInjectingSubTree(provider TreeProvider, stateProvider StateProvider) *Builder {
	b.add(NewStateInjectingSubTree(provider, stateProvider))
	return b
}

// Complete finalizes the builder: the single node accumulated at the
// outermost scope becomes the tree's root. Returns ErrBuilderIncomplete if
// any Open composite/decorator was never closed with End.
func (b *Builder) Complete() (*Tree, error) {
	if len(b.stack) != 0 {
		return nil, ErrBuilderIncomplete
	}
	b.tree.SetRoot(b.pending)
	return b.tree, nil
}
