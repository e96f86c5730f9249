package termagent

// Observer receives notifications as a run progresses. The loop calls
// observers synchronously from its single thread of control, right
// after each step is appended to the transcript; implementations
// should return quickly.
//
// The CLI uses an observer to stream steps to the terminal as they
// complete; the loggers package ships one that writes the transcript
// to a log file.
type Observer interface {
	// OnStep is called after a step (including the terminal one) is
	// appended to the transcript.
	OnStep(step *Step)

	// OnRunEnd is called exactly once when the run terminates, in any
	// state.
	OnRunEnd(result *RunResult)
}

// NopObserver is an Observer that does nothing. It is the default on
// a new [Loop].
type NopObserver struct{}

func (NopObserver) OnStep(*Step)        {}
func (NopObserver) OnRunEnd(*RunResult) {}

// MultiObserver fans out notifications to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnStep(step *Step) {
	for _, o := range m {
		o.OnStep(step)
	}
}

func (m MultiObserver) OnRunEnd(result *RunResult) {
	for _, o := range m {
		o.OnRunEnd(result)
	}
}

// Compile-time checks.
var (
	_ Observer = NopObserver{}
	_ Observer = MultiObserver{}
)
