package vold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateToLabel(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateInit, "Initializing"},
		{StateNoMedia, "No-Media"},
		{StateIdle, "Idle-Unmounted"},
		{StatePending, "Pending"},
		{StateChecking, "Checking"},
		{StateMounted, "Mounted"},
		{StateUnmounting, "Unmounting"},
		{StateFormatting, "Formatting"},
		{StateShared, "Shared-Unmounted"},
		{StateSharedMnt, "Shared-Mounted"},
		{State(99), "Unknown-Error"},
		{State(-99), "Unknown-Error"},
		{State(9), "Unknown-Error"},
		{State(-2), "Unknown-Error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StateToLabel(tt.state))
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestState_Known(t *testing.T) {
	for _, s := range KnownStates {
		assert.True(t, s.Known(), "state %d", int(s))
	}
	assert.False(t, State(42).Known())
	assert.False(t, State(-5).Known())
}

func TestState_RankMatchesDaemonCode(t *testing.T) {
	for _, s := range KnownStates {
		assert.Equal(t, int(s), s.Rank(), "state %s", s)
	}
	for i := 1; i < len(KnownStates); i++ {
		assert.Less(t, KnownStates[i-1].Rank(), KnownStates[i].Rank())
	}
}

func TestState_NotMounted(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateInit, true},
		{StateNoMedia, true},
		{StateIdle, true},
		{StatePending, false},
		{StateChecking, false},
		{StateMounted, false},
		{StateUnmounting, false},
		{StateFormatting, false},
		{StateShared, false},
		{StateSharedMnt, false},
		{State(-7), true},
		{State(50), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.NotMounted(), "state %d", int(tt.state))
	}
}

func TestDecisions(t *testing.T) {
	for _, s := range KnownStates {
		t.Run(s.String(), func(t *testing.T) {
			switch s {
			case StateMounted:
				assert.Equal(t, DecisionNoop, DecideMount(s))
			case StateIdle:
				assert.Equal(t, DecisionProceed, DecideMount(s))
			default:
				assert.Equal(t, DecisionReject, DecideMount(s))
			}

			switch {
			case s.Rank() <= StateIdle.Rank():
				assert.Equal(t, DecisionNoop, DecideUnmount(s))
			case s == StateMounted:
				assert.Equal(t, DecisionProceed, DecideUnmount(s))
			default:
				assert.Equal(t, DecisionReject, DecideUnmount(s))
			}

			if s == StateShared {
				assert.Equal(t, DecisionProceed, DecideUnshare(s))
			} else {
				assert.Equal(t, DecisionNoop, DecideUnshare(s))
			}
		})
	}
}

func TestVolume_StateLabel(t *testing.T) {
	v := &Volume{Label: "usb", Path: "/storage/usb", State: StateShared}
	assert.Equal(t, "Shared-Unmounted", v.StateLabel())
}
