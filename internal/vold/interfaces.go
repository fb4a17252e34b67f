package vold

import "context"

// CommandTransport sends a command line to the volume daemon.
//
// args[0] is always "volume" and args[1] the sub-verb. When wait is true the
// call blocks until the daemon has completed the command; otherwise it
// returns once the command was submitted. A failed command is reported as
// an error, preferably a *CommandError carrying the result code.
//
// In production this is satisfied by *vdc.Client.
type CommandTransport interface {
	Send(ctx context.Context, args []string, wait bool) error
}

// StateOracle reports the daemon's last known state for a volume path.
// Unknown volumes report StateNoMedia or StateInit.
//
// In production this is satisfied by *vdc.Client.
type StateOracle interface {
	VolumeState(ctx context.Context, path string) (State, error)
}

// MountPointPreparer makes sure a mount point exists before a mount is
// dispatched.
type MountPointPreparer interface {
	Prepare(path string) error
}

// Recorder observes guard outcomes. It must not affect control flow.
//
// In production this is satisfied by *metrics.Recorder.
type Recorder interface {
	// RecordDecision is called once per guarded operation.
	RecordDecision(op string, d Decision)
	// RecordDispatch is called once per command sent, with its result code.
	RecordDispatch(verb string, code int)
	// RecordAttempt is called for each best-effort sub-operation.
	RecordAttempt(op string, code int)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(string, Decision) {}
func (nopRecorder) RecordDispatch(string, int)      {}
func (nopRecorder) RecordAttempt(string, int)       {}

// Default owner of newly created mount points.
const (
	DefaultOwnerUID = 1000
	DefaultOwnerGID = 1000
)

// OwnerPreparer creates missing mount points owned by UID:GID.
type OwnerPreparer struct {
	UID int
	GID int
}

// NewOwnerPreparer returns a preparer that hands new mount points to uid:gid.
func NewOwnerPreparer(uid, gid int) *OwnerPreparer {
	return &OwnerPreparer{UID: uid, GID: gid}
}
