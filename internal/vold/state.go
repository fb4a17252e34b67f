package vold

// State is the integer volume state reported by the daemon.
type State int

// Volume states as encoded by the daemon.
const (
	StateInit       State = -1 // daemon still initializing the volume
	StateNoMedia    State = 0  // no removable media present
	StateIdle       State = 1  // present, unmounted, not shared
	StatePending    State = 2  // transitional
	StateChecking   State = 3  // filesystem check in progress
	StateMounted    State = 4  // mounted and usable
	StateUnmounting State = 5  // unmount in progress
	StateFormatting State = 6  // format in progress
	StateShared     State = 7  // exported (mass storage), unmounted
	StateSharedMnt  State = 8  // exported and mounted
)

// UnknownLabel is the label of any code outside the known states.
const UnknownLabel = "Unknown-Error"

// KnownStates lists every state the daemon can report, in rank order.
var KnownStates = []State{
	StateInit,
	StateNoMedia,
	StateIdle,
	StatePending,
	StateChecking,
	StateMounted,
	StateUnmounting,
	StateFormatting,
	StateShared,
	StateSharedMnt,
}

// Rank returns the ordinal used when comparing states.
//
// Known states rank by their daemon code. Unknown codes rank by their raw
// value so comparisons match the daemon's own integer tests.
func (s State) Rank() int {
	switch s {
	case StateInit:
		return -1
	case StateNoMedia:
		return 0
	case StateIdle:
		return 1
	case StatePending:
		return 2
	case StateChecking:
		return 3
	case StateMounted:
		return 4
	case StateUnmounting:
		return 5
	case StateFormatting:
		return 6
	case StateShared:
		return 7
	case StateSharedMnt:
		return 8
	default:
		return int(s)
	}
}

// Known reports whether s is one of the ten daemon states.
func (s State) Known() bool {
	return s.String() != UnknownLabel
}

// NotMounted reports whether s is at or below Idle, i.e. Init, NoMedia or Idle.
func (s State) NotMounted() bool {
	return s.Rank() <= StateIdle.Rank()
}

// String returns the human-readable label for s.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Initializing"
	case StateNoMedia:
		return "No-Media"
	case StateIdle:
		return "Idle-Unmounted"
	case StatePending:
		return "Pending"
	case StateChecking:
		return "Checking"
	case StateMounted:
		return "Mounted"
	case StateUnmounting:
		return "Unmounting"
	case StateFormatting:
		return "Formatting"
	case StateShared:
		return "Shared-Unmounted"
	case StateSharedMnt:
		return "Shared-Mounted"
	default:
		return UnknownLabel
	}
}

// StateToLabel maps any state code to its label. It never fails.
func StateToLabel(s State) string {
	return s.String()
}

// Volume is one entry of the daemon's volume enumeration.
type Volume struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
	State State  `json:"state" yaml:"state"`
}

// StateLabel returns the label of the volume's state.
func (v *Volume) StateLabel() string {
	return v.State.String()
}
