package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Volume operation flags
var (
	noWait  bool
	force   bool
	remount bool
	fsType  string
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the daemon to re-enumerate its volumes",
	Long: `Ask the volume daemon to re-enumerate its volumes and broadcast
their current states.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.guard.Refresh(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✓ Volume list refreshed")
		return nil
	},
}

var mountCmd = &cobra.Command{
	Use:   "mount <path>",
	Short: "Mount a volume",
	Long: `Mount the volume at the given mount point.

Mounting an already mounted volume succeeds without contacting the daemon.
The volume must otherwise be idle. A missing mount point is created first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := env.guard.Mount(cmd.Context(), path, !noWait); err != nil {
			return err
		}
		fmt.Printf("✓ Mount of %s %s\n", path, doneOrSent())
		return nil
	},
}

var unmountCmd = &cobra.Command{
	Use:   "unmount <path>",
	Short: "Unmount a volume",
	Long: `Unmount the volume at the given mount point.

Unmounting a volume that is not mounted succeeds without contacting the
daemon. A volume in the middle of a check, format or unmount is refused.
Use --force to have the daemon kill processes holding the volume open.`,
	Aliases: []string{"umount"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := env.guard.Unmount(cmd.Context(), path, force, !noWait); err != nil {
			return err
		}
		fmt.Printf("✓ Unmount of %s %s\n", path, doneOrSent())
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <path>",
	Short: "Export a volume as USB mass storage",
	Long: `Export the volume at the given mount point as USB mass storage.

A mounted volume is unmounted first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := env.guard.Share(cmd.Context(), path); err != nil {
			return err
		}
		fmt.Printf("✓ Volume %s shared\n", path)
		return nil
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <path>",
	Short: "Stop exporting a volume as USB mass storage",
	Long: `Stop exporting the volume at the given mount point.

A volume that is not shared is left alone. With --remount the volume is
mounted again once the export has ended.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := env.guard.Unshare(cmd.Context(), path, remount); err != nil {
			return err
		}
		fmt.Printf("✓ Volume %s unshared\n", path)
		return nil
	},
}

var formatCmd = &cobra.Command{
	Use:   "format <path>",
	Short: "Format a volume",
	Long: `Format the volume at the given mount point.

The daemon picks the filesystem unless --fstype is given. The daemon
refuses to format a mounted volume.

Example:
  voldctl format /mnt/sdcard --fstype vfat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var err error
		if cmd.Flags().Changed("fstype") {
			err = env.guard.CustomFormat(cmd.Context(), path, fsType, !noWait)
		} else {
			err = env.guard.Format(cmd.Context(), path, !noWait)
		}
		if err != nil {
			return err
		}

		fmt.Printf("✓ Format of %s %s\n", path, doneOrSent())
		return nil
	},
}

func init() {
	mountCmd.Flags().BoolVar(&noWait, "no-wait", false, "return as soon as the command is sent")
	unmountCmd.Flags().BoolVar(&noWait, "no-wait", false, "return as soon as the command is sent")
	unmountCmd.Flags().BoolVar(&force, "force", false, "kill processes using the volume")
	unshareCmd.Flags().BoolVar(&remount, "remount", false, "mount the volume again after unsharing")
	formatCmd.Flags().BoolVar(&noWait, "no-wait", false, "return as soon as the command is sent")
	formatCmd.Flags().StringVar(&fsType, "fstype", "", "filesystem type (e.g. vfat)")
}

func doneOrSent() string {
	if noWait {
		return "requested"
	}
	return "completed"
}
