package executor

// runPhase enumerates the phases of a run's linear state machine.
type runPhase int

const (
	phasePending runPhase = iota
	phaseSucceeded
	phaseFailed
)

// runState models one environment run as a finite linear state machine: the
// run sits at Pending(i), transitions to Pending(i+1) on a zero exit, and
// terminates at Failed(i, exitCode) on the first non-zero exit or at
// Succeeded once the last step finishes.
type runState struct {
	total    int
	next     int
	phase    runPhase
	exitCode int
}

func newRunState(total int) *runState {
	s := &runState{total: total}
	if total == 0 {
		s.phase = phaseSucceeded
	}
	return s
}

// index returns the step the run is currently pending on.
func (s *runState) index() int { return s.next }

func (s *runState) terminal() bool { return s.phase != phasePending }

func (s *runState) succeeded() bool { return s.phase == phaseSucceeded }

// advance records a zero exit for the pending step.
func (s *runState) advance() {
	if s.terminal() {
		panic("executor: advance on a terminal run state")
	}
	s.next++
	if s.next == s.total {
		s.phase = phaseSucceeded
	}
}

// fail terminates the run at the pending step with the given exit code.
func (s *runState) fail(exitCode int) {
	if s.terminal() {
		panic("executor: fail on a terminal run state")
	}
	s.phase = phaseFailed
	s.exitCode = exitCode
}
