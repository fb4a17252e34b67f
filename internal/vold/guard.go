package vold

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jbweber/voldctl/internal/log"
)

// Guard checks each volume operation against the daemon's current state and
// forwards it to the transport only when the state allows it.
//
// A Guard keeps no state between calls. The state query and the dispatch
// that follows are not atomic; the daemon has the final word on conflicting
// operations.
type Guard struct {
	transport CommandTransport
	oracle    StateOracle
	preparer  MountPointPreparer
	recorder  Recorder
	logger    zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithRecorder sets the recorder notified of decisions and dispatches.
func WithRecorder(r Recorder) Option {
	return func(g *Guard) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithPreparer sets the mount point preparer. A nil preparer disables
// preparation entirely.
func WithPreparer(p MountPointPreparer) Option {
	return func(g *Guard) { g.preparer = p }
}

// NewGuard creates a guard on top of the given transport and oracle.
func NewGuard(transport CommandTransport, oracle StateOracle, opts ...Option) *Guard {
	g := &Guard{
		transport: transport,
		oracle:    oracle,
		preparer:  NewOwnerPreparer(DefaultOwnerUID, DefaultOwnerGID),
		recorder:  nopRecorder{},
		logger:    log.WithComponent("vold"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Refresh asks the daemon to re-enumerate its volumes and broadcast their
// states.
func (g *Guard) Refresh(ctx context.Context) error {
	l := g.opLogger("refresh", "")
	if err := g.send(ctx, l, []string{"volume", "list"}, true); err != nil {
		return fmt.Errorf("failed to refresh volumes: %w", err)
	}
	return nil
}

// Mount mounts the volume at path. It is a no-op when the volume is already
// mounted and fails unless the volume is idle.
func (g *Guard) Mount(ctx context.Context, path string, wait bool) error {
	return g.mount(ctx, g.opLogger("mount", path), path, wait)
}

func (g *Guard) mount(ctx context.Context, l zerolog.Logger, path string, wait bool) error {
	state, err := g.queryState(ctx, path)
	if err != nil {
		return err
	}
	l = withState(l, state)

	d := DecideMount(state)
	g.recorder.RecordDecision("mount", d)
	switch d {
	case DecisionNoop:
		l.Info().Msg("volume already mounted")
		return nil
	case DecisionReject:
		l.Warn().Msg("volume is not idle")
		return &StateError{Op: "mount", Path: path, State: state}
	}

	if g.preparer != nil {
		if err := g.preparer.Prepare(path); err != nil {
			l.Warn().Err(err).Msg("failed to prepare mount point, mounting anyway")
		}
	}

	if err := g.send(ctx, l, []string{"volume", "mount", path}, wait); err != nil {
		return fmt.Errorf("failed to mount volume %s: %w", path, err)
	}
	return nil
}

// Unmount unmounts the volume at path. A volume that is not mounted is left
// alone; any state other than Mounted is rejected.
func (g *Guard) Unmount(ctx context.Context, path string, force, wait bool) error {
	return g.unmount(ctx, g.opLogger("unmount", path), path, force, wait)
}

func (g *Guard) unmount(ctx context.Context, l zerolog.Logger, path string, force, wait bool) error {
	state, err := g.queryState(ctx, path)
	if err != nil {
		return err
	}
	l = withState(l, state)

	d := DecideUnmount(state)
	g.recorder.RecordDecision("unmount", d)
	switch d {
	case DecisionNoop:
		l.Info().Msg("volume is not mounted")
		return nil
	case DecisionReject:
		l.Warn().Msg("volume cannot be unmounted in this state")
		return &StateError{Op: "unmount", Path: path, State: state}
	}

	args := []string{"volume", "unmount", path}
	if force {
		args = append(args, "force")
	}
	if err := g.send(ctx, l, args, wait); err != nil {
		return fmt.Errorf("failed to unmount volume %s: %w", path, err)
	}
	return nil
}

// Share exports the volume as mass storage. A mounted volume is unmounted
// first on a best-effort basis; the share command is sent whatever the
// outcome of that unmount, and its result is what Share returns.
func (g *Guard) Share(ctx context.Context, path string) error {
	l := g.opLogger("share", path)

	state, err := g.queryState(ctx, path)
	if err != nil {
		l.Warn().Err(err).Msg("failed to query volume state, sharing anyway")
	} else {
		l = withState(l, state)
		if state == StateMounted {
			g.attempt(l, "unmount", func() error {
				return g.unmount(ctx, l, path, false, true)
			})
		}
	}
	g.recorder.RecordDecision("share", DecisionProceed)

	if err := g.send(ctx, l, []string{"volume", "share", path, "ums"}, true); err != nil {
		return fmt.Errorf("failed to share volume %s: %w", path, err)
	}
	return nil
}

// Unshare stops exporting a shared volume. Volumes that are not shared are
// left alone and Unshare succeeds. With remount, a mount is attempted after
// the unshare command whatever its result; the returned error is always the
// unshare command's.
func (g *Guard) Unshare(ctx context.Context, path string, remount bool) error {
	l := g.opLogger("unshare", path)

	state, err := g.queryState(ctx, path)
	if err != nil {
		return err
	}
	l = withState(l, state)

	d := DecideUnshare(state)
	g.recorder.RecordDecision("unshare", d)
	if d == DecisionNoop {
		l.Warn().Msg("volume is not shared")
		return nil
	}

	unshareErr := g.send(ctx, l, []string{"volume", "unshare", path, "ums"}, true)

	if remount {
		g.attempt(l, "mount", func() error {
			return g.mount(ctx, l, path, true)
		})
	}

	if unshareErr != nil {
		return fmt.Errorf("failed to unshare volume %s: %w", path, unshareErr)
	}
	return nil
}

// Format formats the volume keeping its current filesystem type. Any state
// permits the attempt.
func (g *Guard) Format(ctx context.Context, path string, wait bool) error {
	l := g.opLogger("format", path)
	if err := g.send(ctx, l, []string{"volume", "format", path}, wait); err != nil {
		return fmt.Errorf("failed to format volume %s: %w", path, err)
	}
	return nil
}

// CustomFormat formats the volume with an explicit filesystem type.
// fstype must not be empty; use Format to keep the current type.
func (g *Guard) CustomFormat(ctx context.Context, path, fstype string, wait bool) error {
	l := g.opLogger("format", path).With().Str("fstype", fstype).Logger()
	if fstype == "" {
		return ErrEmptyFilesystemType
	}
	if err := g.send(ctx, l, []string{"volume", "format", path, fstype}, wait); err != nil {
		return fmt.Errorf("failed to format volume %s as %s: %w", path, fstype, err)
	}
	return nil
}

// StateToLabel returns the label for s.
func (g *Guard) StateToLabel(s State) string {
	return StateToLabel(s)
}

func (g *Guard) queryState(ctx context.Context, path string) (State, error) {
	state, err := g.oracle.VolumeState(ctx, path)
	if err != nil {
		return state, fmt.Errorf("failed to query state of volume %s: %w", path, err)
	}
	return state, nil
}

func (g *Guard) send(ctx context.Context, l zerolog.Logger, args []string, wait bool) error {
	l.Debug().Strs("args", args).Bool("wait", wait).Msg("dispatching command")

	err := g.transport.Send(ctx, args, wait)
	g.recorder.RecordDispatch(args[1], ResultCode(err))
	if err != nil {
		l.Error().Err(err).Strs("args", args).Msg("command failed")
		return err
	}
	return nil
}

// attempt runs a best-effort sub-operation. Its error is logged and dropped.
func (g *Guard) attempt(l zerolog.Logger, op string, fn func() error) {
	err := fn()
	g.recorder.RecordAttempt(op, ResultCode(err))
	if err != nil {
		l.Warn().Err(err).Str("sub_op", op).Msg("best-effort operation failed, result ignored")
	}
}

func (g *Guard) opLogger(op, path string) zerolog.Logger {
	c := g.logger.With().Str("op", op).Str("op_id", uuid.NewString())
	if path != "" {
		c = c.Str("path", path)
	}
	return c.Logger()
}

func withState(l zerolog.Logger, s State) zerolog.Logger {
	return l.With().Int("state", int(s)).Str("state_label", s.String()).Logger()
}
