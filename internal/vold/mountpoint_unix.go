//go:build unix

package vold

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Prepare creates the mount point when it is not readable and hands it to
// the daemon's user. The directory starts with mode 0000; the daemon sets
// the final permissions when it mounts.
func (p *OwnerPreparer) Prepare(path string) error {
	if err := unix.Access(path, unix.R_OK); err == nil {
		return nil
	}

	if err := os.Mkdir(path, 0); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("failed to create mount point %s: %w", path, err)
	}

	if err := os.Chown(path, p.UID, p.GID); err != nil {
		return fmt.Errorf("failed to chown mount point %s to %d:%d: %w", path, p.UID, p.GID, err)
	}

	return nil
}
