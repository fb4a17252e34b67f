package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jbweber/voldctl/internal/output"
	"github.com/jbweber/voldctl/internal/vold"
)

// Output flags
var (
	outputFormat string
	noHeaders    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List volumes",
	Long: `List the volumes known to the daemon with their current states.

Output formats:
  -o table  Human-readable table (default)
  -o yaml   YAML stream, one document per volume
  -o json   JSON array`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		volumes, err := env.client.ListVolumes(cmd.Context())
		if err != nil {
			return err
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatVolumeList(volumes)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state <path>",
	Short: "Show the state of a volume",
	Long: `Show the daemon's current state for the volume at the given mount
point. Volumes the daemon does not list are reported as No-Media.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		s, err := env.client.VolumeState(cmd.Context(), path)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s (%d)\n", path, env.guard.StateToLabel(s), int(s))
		return nil
	},
}

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List the daemon's volume states",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "CODE\tLABEL\tRANK")
		for _, s := range vold.KnownStates {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", int(s), s, s.Rank())
		}
		return w.Flush()
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Contacting volume daemon via %s...\n", env.client.Path())
		if err := env.client.Ping(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✓ Volume daemon is reachable")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the config file,
VOLDCTL_* environment variables and command-line flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := env.cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, yaml, json)")
	listCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "omit table headers")
}
