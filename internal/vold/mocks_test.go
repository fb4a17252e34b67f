package vold

import (
	"context"
	"sync"
)

// sendCall records a single CommandTransport.Send invocation.
type sendCall struct {
	args []string
	wait bool
}

// mockTransport is a mock implementation of CommandTransport for testing.
type mockTransport struct {
	mu sync.Mutex

	// sendFunc decides the result of each Send; nil means success.
	sendFunc func(args []string, wait bool) error

	calls []sendCall
}

func newMockTransport() *mockTransport {
	return &mockTransport{}
}

func (m *mockTransport) Send(_ context.Context, args []string, wait bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, sendCall{args: append([]string(nil), args...), wait: wait})
	if m.sendFunc != nil {
		return m.sendFunc(args, wait)
	}
	return nil
}

// verbs returns the sub-verb of every recorded call in order.
func (m *mockTransport) verbs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	verbs := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		verbs = append(verbs, c.args[1])
	}
	return verbs
}

// failVerb makes every command with the given sub-verb fail with code.
func (m *mockTransport) failVerb(verb string, code int) {
	m.sendFunc = func(args []string, _ bool) error {
		if args[1] == verb {
			return &CommandError{Args: args, Code: code}
		}
		return nil
	}
}

// mockOracle returns scripted states, one per query. The last state repeats.
type mockOracle struct {
	mu sync.Mutex

	states []State
	err    error

	queries []string
}

func newMockOracle(states ...State) *mockOracle {
	return &mockOracle{states: states}
}

func (m *mockOracle) VolumeState(_ context.Context, path string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, path)
	if m.err != nil {
		return StateInit, m.err
	}
	if len(m.states) == 0 {
		return StateNoMedia, nil
	}
	s := m.states[0]
	if len(m.states) > 1 {
		m.states = m.states[1:]
	}
	return s, nil
}

// mockPreparer records Prepare calls.
type mockPreparer struct {
	err   error
	paths []string
}

func (m *mockPreparer) Prepare(path string) error {
	m.paths = append(m.paths, path)
	return m.err
}

// mockRecorder records everything the guard reports.
type mockRecorder struct {
	decisions  []string
	dispatches []string
	attempts   []string
	codes      []int
}

func (m *mockRecorder) RecordDecision(op string, d Decision) {
	m.decisions = append(m.decisions, op+":"+d.String())
}

func (m *mockRecorder) RecordDispatch(verb string, code int) {
	m.dispatches = append(m.dispatches, verb)
	m.codes = append(m.codes, code)
}

func (m *mockRecorder) RecordAttempt(op string, code int) {
	m.attempts = append(m.attempts, op)
}
