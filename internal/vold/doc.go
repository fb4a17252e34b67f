// Package vold guards storage-volume lifecycle commands sent to the volume
// daemon.
//
// The daemon owns every volume and reports each one as an integer State.
// Before a mount, unmount, share or unshare is forwarded, the Guard asks a
// StateOracle for the current state and applies a fixed decision table:
//
//	operation  proceed when   no-op when          reject otherwise
//	mount      Idle           Mounted             yes
//	unmount    Mounted        Init/NoMedia/Idle   yes
//	unshare    Shared         any other state     never
//	share      always         -                   never
//	format     always         -                   never
//
// Commands are sent through a CommandTransport as a "volume <verb> ..."
// command line. Neither interface is implemented here: internal/vdc
// provides both on top of the daemon's command-line helper, and tests use
// fakes.
//
// Results:
//
// Operations return nil on success. A rejected operation returns a
// *StateError (errors.Is(err, ErrInvalidState)); a failed command returns
// the transport's error, usually a *CommandError. ResultCode converts any of
// these back to the daemon's convention of 0 for success and a negative
// code for failure.
//
// Best-effort sub-operations:
//
// Share unmounts a mounted volume before sharing it, and Unshare can remount
// afterwards. Both sub-operations are attempted, logged and reported to the
// Recorder, but their results never change the outer result.
//
// Example usage:
//
//	client := vdc.New("/system/bin/vdc", 30*time.Second)
//	guard := vold.NewGuard(client, client)
//
//	if err := guard.Mount(ctx, "/storage/usb", true); err != nil {
//	    return fmt.Errorf("mount failed (code %d): %w", vold.ResultCode(err), err)
//	}
package vold
