package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbweber/voldctl/internal/config"
	"github.com/jbweber/voldctl/internal/log"
	"github.com/jbweber/voldctl/internal/metrics"
	"github.com/jbweber/voldctl/internal/vdc"
	"github.com/jbweber/voldctl/internal/vold"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	configPath      string
	logLevel        string
	logJSON         bool
	vdcPath         string
	timeout         time.Duration
	metricsTextfile string
)

// env is built once the configuration is known, before any command runs.
var env *environment

type environment struct {
	cfg      *config.Config
	client   *vdc.Client
	guard    *vold.Guard
	recorder *metrics.Recorder
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if env != nil && env.cfg.Metrics.Textfile != "" {
		if werr := env.recorder.WriteTextfile(env.cfg.Metrics.Textfile); werr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", werr)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (result code %d)\n", err, vold.ResultCode(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voldctl",
	Short: "voldctl - volume daemon client",
	Long: `voldctl drives the volume daemon (vold) through its vdc helper.

Every state-changing command first asks the daemon for the volume's current
state and only sends the command when that state allows it. Mounting a
mounted volume or unsharing a volume that is not shared succeeds without
contacting the daemon.`,
	Version:           fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/voldctl/config.yaml)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&vdcPath, "vdc", config.DefaultVdcPath, "path of the vdc helper")
	pf.DurationVar(&timeout, "timeout", config.DefaultTimeout, "timeout for commands that are waited for")
	pf.StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(statesCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(unmountCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(unshareCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Init(log.Config{
		Level:      log.ParseLevel(cfg.Logging.Level),
		JSONOutput: cfg.Logging.JSON,
	})

	env = newEnvironment(cfg)
	return nil
}

// loadConfig loads the configuration and applies the flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = logJSON
	}
	if flags.Changed("vdc") {
		cfg.Daemon.VdcPath = vdcPath
	}
	if flags.Changed("timeout") {
		cfg.Daemon.Timeout = timeout
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = metricsTextfile
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newEnvironment(cfg *config.Config) *environment {
	client := vdc.New(cfg.Daemon.VdcPath, cfg.Daemon.Timeout)
	recorder := metrics.NewRecorder()

	var preparer vold.MountPointPreparer
	if cfg.MountPoint.Prepare {
		preparer = vold.NewOwnerPreparer(cfg.MountPoint.OwnerUID, cfg.MountPoint.OwnerGID)
	}

	guard := vold.NewGuard(client, client,
		vold.WithRecorder(recorder),
		vold.WithPreparer(preparer),
		vold.WithLogger(log.WithComponent("vold")),
	)

	return &environment{
		cfg:      cfg,
		client:   client,
		guard:    guard,
		recorder: recorder,
	}
}
