//go:build !unix

package vold

import "fmt"

// Prepare is not supported on this platform.
func (p *OwnerPreparer) Prepare(path string) error {
	return fmt.Errorf("mount point preparation is not supported on this platform: %s", path)
}
