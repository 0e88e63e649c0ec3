package flowtree

// Inverter swaps Success/Failure, passing Running through.
type Inverter struct{ child Node }

func NewInverter(child Node) *Inverter { return &Inverter{child: child} }

func (n *Inverter) Tick(tc *TickContext, depth int) Status {
	status := n.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	return status.Invert()
}
func (n *Inverter) Reset() { n.child.Reset() }

// Succeeder always reports Success once its child reaches any terminal
// status (Running still passes through).
type Succeeder struct{ child Node }

func NewSucceeder(child Node) *Succeeder { return &Succeeder{child: child} }

func (n *Succeeder) Tick(tc *TickContext, depth int) Status {
	status := n.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	if status == Running {
		return Running
	}
	return Success
}
func (n *Succeeder) Reset() { n.child.Reset() }

// Failer is Succeeder's mirror: any terminal child result becomes Failure.
type Failer struct{ child Node }

func NewFailer(child Node) *Failer { return &Failer{child: child} }

func (n *Failer) Tick(tc *TickContext, depth int) Status {
	status := n.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	if status == Running {
		return Running
	}
	return Failure
}
func (n *Failer) Reset() { n.child.Reset() }

// repeatState tracks how many successes have accrued this depth-cycle.
type repeatState struct {
	count int
}

// Repeat runs child up to n times in succession, returning Success after the
// n-th success; any Failure short-circuits the whole node to Failure.
type Repeat struct {
	n     int
	child Node
	state *DepthState[repeatState]
}

func NewRepeat(n int, child Node) *Repeat {
	return &Repeat{n: n, child: child, state: NewDepthState[repeatState]()}
}

func (r *Repeat) Tick(tc *TickContext, depth int) Status {
	s := r.state.At(depth)
	for s.count < r.n {
		status := r.child.Tick(tc, depth)
		if _, fired := tc.Returned(); fired {
			return status
		}
		switch status {
		case Running:
			return Running
		case Failure:
			r.state.ResetAt(depth)
			return Failure
		}
		s.count++
	}
	r.state.ResetAt(depth)
	return Success
}
func (r *Repeat) Reset() {
	r.state.ResetAll()
	r.child.Reset()
}

// RepeatUntilFail re-runs child until it returns Failure, at which point the
// node itself returns Success.
type RepeatUntilFail struct{ child Node }

func NewRepeatUntilFail(child Node) *RepeatUntilFail { return &RepeatUntilFail{child: child} }

func (n *RepeatUntilFail) Tick(tc *TickContext, depth int) Status {
	status := n.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	switch status {
	case Running:
		return Running
	case Failure:
		return Success
	default: // Success: loop again next tick by returning Running
		return Running
	}
}
func (n *RepeatUntilFail) Reset() { n.child.Reset() }

// RepeatUntilSuccess re-runs child until it returns Success, at which point
// the node returns Success too.
type RepeatUntilSuccess struct{ child Node }

func NewRepeatUntilSuccess(child Node) *RepeatUntilSuccess { return &RepeatUntilSuccess{child: child} }

func (n *RepeatUntilSuccess) Tick(tc *TickContext, depth int) Status {
	status := n.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	switch status {
	case Running:
		return Running
	case Success:
		return Success
	default: // Failure: loop again
		return Running
	}
}
func (n *RepeatUntilSuccess) Reset() { n.child.Reset() }

// retryState tracks attempts made this depth-cycle.
type retryState struct {
	attempts int
}

// Retry re-runs child on Failure up to n times; a terminal Success
// short-circuits immediately.
type Retry struct {
	n     int
	child Node
	state *DepthState[retryState]
}

func NewRetry(n int, child Node) *Retry {
	return &Retry{n: n, child: child, state: NewDepthState[retryState]()}
}

func (r *Retry) Tick(tc *TickContext, depth int) Status {
	s := r.state.At(depth)
	status := r.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	switch status {
	case Running:
		return Running
	case Success:
		r.state.ResetAt(depth)
		return Success
	case Failure:
		s.attempts++
		if s.attempts > r.n {
			r.state.ResetAt(depth)
			return Failure
		}
		return Running
	}
	return Running
}
func (r *Retry) Reset() {
	r.state.ResetAll()
	r.child.Reset()
}

// timeoutState tracks ticks elapsed this depth-cycle.
type timeoutState struct {
	elapsed int64
}

// Timeout accumulates elapsed ticks while child is Running; once duration is
// exceeded it returns Failure without ticking child further.
type Timeout struct {
	duration int64
	child    Node
	state    *DepthState[timeoutState]
}

func NewTimeout(durationTicks int64, child Node) *Timeout {
	return &Timeout{duration: durationTicks, child: child, state: NewDepthState[timeoutState]()}
}

func (t *Timeout) Tick(tc *TickContext, depth int) Status {
	s := t.state.At(depth)
	s.elapsed += tc.Delta
	if s.elapsed > t.duration {
		t.state.ResetAt(depth)
		t.child.Reset()
		return Failure
	}
	status := t.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	if status.Terminal() {
		t.state.ResetAt(depth)
	}
	return status
}
func (t *Timeout) Reset() {
	t.state.ResetAll()
	t.child.Reset()
}

// delayState tracks elapsed ticks before child may start.
type delayState struct {
	elapsed int64
}

// Delay returns Running until duration ticks have elapsed, then ticks child.
type Delay struct {
	duration int64
	child    Node
	state    *DepthState[delayState]
}

func NewDelay(durationTicks int64, child Node) *Delay {
	return &Delay{duration: durationTicks, child: child, state: NewDepthState[delayState]()}
}

func (d *Delay) Tick(tc *TickContext, depth int) Status {
	s := d.state.At(depth)
	if s.elapsed < d.duration {
		s.elapsed += tc.Delta
		return Running
	}
	status := d.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}
	if status.Terminal() {
		d.state.ResetAt(depth)
	}
	return status
}
func (d *Delay) Reset() {
	d.state.ResetAll()
	d.child.Reset()
}

// ConditionFunc is the predicate signature used by Guard, WaitUntil, and the
// Condition leaf node.
type ConditionFunc func(state State) bool

// Guard evaluates cond(state); if false, returns Failure without ticking
// child at all.
type Guard struct {
	cond  ConditionFunc
	child Node
}

func NewGuard(cond ConditionFunc, child Node) *Guard {
	return &Guard{cond: cond, child: child}
}

func (g *Guard) Tick(tc *TickContext, depth int) Status {
	if !g.cond(tc.State) {
		return Failure
	}
	return g.child.Tick(tc, depth)
}
func (g *Guard) Reset() { g.child.Reset() }

// ScopeEvent fires when a Scope node enters a depth-cycle.
type ScopeEvent func(state State)

// ScopeExit fires on the child's terminal result, receiving that result.
type ScopeExit func(state State, result Status)

// scopeState tracks whether on_enter has already fired for this depth-cycle.
type scopeState struct {
	entered bool
}

// Scope fires onEnter at first tick of a depth, ticks child, and fires
// onExit(result) once child reaches a terminal status. No event fires while
// child stays Running.
type Scope struct {
	onEnter ScopeEvent
	onExit  ScopeExit
	child   Node
	state   *DepthState[scopeState]
}

func NewScope(onEnter ScopeEvent, onExit ScopeExit, child Node) *Scope {
	return &Scope{onEnter: onEnter, onExit: onExit, child: child, state: NewDepthState[scopeState]()}
}

func (s *Scope) Tick(tc *TickContext, depth int) Status {
	st := s.state.At(depth)
	if !st.entered {
		st.entered = true
		if s.onEnter != nil {
			s.onEnter(tc.State)
		}
	}

	status := s.child.Tick(tc, depth)
	if _, fired := tc.Returned(); fired {
		return status
	}

	if status.Terminal() {
		s.state.ResetAt(depth)
		if s.onExit != nil {
			s.onExit(tc.State, status)
		}
	}
	return status
}
func (s *Scope) Reset() {
	s.state.ResetAll()
	s.child.Reset()
}
