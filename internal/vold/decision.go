package vold

// Decision is the outcome of checking an operation against a volume state.
type Decision int

const (
	// DecisionProceed means the command is dispatched to the daemon.
	DecisionProceed Decision = iota
	// DecisionNoop means the operation is already satisfied.
	DecisionNoop
	// DecisionReject means the operation is illegal from the current state.
	DecisionReject
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionNoop:
		return "noop"
	case DecisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// DecideMount: mounting is only legal from Idle; Mounted is already done.
func DecideMount(s State) Decision {
	switch {
	case s == StateMounted:
		return DecisionNoop
	case s != StateIdle:
		return DecisionReject
	default:
		return DecisionProceed
	}
}

// DecideUnmount: anything at or below Idle is already unmounted; only
// Mounted may be unmounted.
func DecideUnmount(s State) Decision {
	switch {
	case s.NotMounted():
		return DecisionNoop
	case s != StateMounted:
		return DecisionReject
	default:
		return DecisionProceed
	}
}

// DecideUnshare: only a Shared volume is unshared; every other state is a no-op.
func DecideUnshare(s State) Decision {
	if s != StateShared {
		return DecisionNoop
	}
	return DecisionProceed
}
