package vdc

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/jbweber/voldctl/internal/log"
	"github.com/jbweber/voldctl/internal/vold"
)

// Defaults used when New is given zero values.
const (
	DefaultPath    = "/system/bin/vdc"
	DefaultTimeout = 30 * time.Second
)

// Runner runs the helper binary. It allows for dependency injection and testing.
type Runner interface {
	// Output runs the command to completion and returns its standard output.
	// A non-zero exit status is reported as an error alongside the output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Start starts the command and returns without waiting for it.
	Start(name string, args ...string) error
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the process once it exits.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Client sends commands to the volume daemon through its command-line helper
// and reads volume states back from it.
//
// Client satisfies vold.CommandTransport and vold.StateOracle.
type Client struct {
	path    string
	timeout time.Duration
	runner  Runner
	logger  zerolog.Logger
}

// New returns a Client running the helper at path.
//
// If path is empty, defaults to DefaultPath.
// If timeout is zero, defaults to DefaultTimeout. The timeout bounds every
// command that is waited for.
func New(path string, timeout time.Duration) *Client {
	return NewWithRunner(path, timeout, execRunner{})
}

// NewWithRunner is New with a custom Runner.
func NewWithRunner(path string, timeout time.Duration, runner Runner) *Client {
	if path == "" {
		path = DefaultPath
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		path:    path,
		timeout: timeout,
		runner:  runner,
		logger:  log.WithComponent("vdc"),
	}
}

// Path returns the helper binary path.
func (c *Client) Path() string {
	return c.path
}

// Send runs the helper with args. With wait, it blocks until the daemon's
// final response and fails unless that response is a success; without
// wait, it returns as soon as the helper was started.
func (c *Client) Send(ctx context.Context, args []string, wait bool) error {
	if !wait {
		if err := c.runner.Start(c.path, args...); err != nil {
			return &vold.CommandError{Args: args, Code: vold.ResultFailed, Err: err}
		}
		return nil
	}

	_, err := c.run(ctx, args)
	return err
}

// run executes args and returns every response when the final one succeeded.
func (c *Client) run(ctx context.Context, args []string) ([]Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, runErr := c.runner.Output(ctx, c.path, args...)
	resps := parseOutput(out)
	c.logBroadcasts(resps)

	final, ok := finalResponse(resps)
	if !ok {
		if runErr == nil {
			runErr = errors.New("no final response from daemon")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = fmt.Errorf("%w: %w", ctxErr, runErr)
		}
		return nil, &vold.CommandError{Args: args, Code: vold.ResultFailed, Err: runErr}
	}

	if final.Failed() {
		return nil, &vold.CommandError{
			Args:     args,
			Code:     vold.ResultFailed,
			Response: final.Code,
			Message:  final.Message,
		}
	}

	if runErr != nil {
		c.logger.Warn().Err(runErr).Strs("args", args).Int("response", final.Code).
			Msg("helper exited with an error after a successful response")
	}

	return resps, nil
}

// ListVolumes asks the daemon for its volumes and their states.
func (c *Client) ListVolumes(ctx context.Context) ([]vold.Volume, error) {
	resps, err := c.run(ctx, []string{"volume", "list"})
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	var volumes []vold.Volume
	for _, r := range resps {
		if r.Code != CodeVolumeListResult {
			continue
		}
		v, err := parseVolumeRow(r)
		if err != nil {
			c.logger.Warn().Err(err).Msg("skipping volume list row")
			continue
		}
		volumes = append(volumes, v)
	}

	return volumes, nil
}

// VolumeState returns the daemon's state for the volume mounted at path.
// Volumes the daemon does not list report vold.StateNoMedia.
func (c *Client) VolumeState(ctx context.Context, path string) (vold.State, error) {
	volumes, err := c.ListVolumes(ctx)
	if err != nil {
		return vold.StateInit, err
	}

	for _, v := range volumes {
		if v.Path == path {
			return v.State, nil
		}
	}

	c.logger.Debug().Str("path", path).Msg("volume not listed by daemon")
	return vold.StateNoMedia, nil
}

// Ping verifies the helper can reach the daemon.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.run(ctx, []string{"volume", "list"}); err != nil {
		return fmt.Errorf("volume daemon is unreachable via %s: %w", c.path, err)
	}
	return nil
}

func (c *Client) logBroadcasts(resps []Response) {
	for _, r := range resps {
		if !r.Broadcast() {
			continue
		}
		if sc, ok := ParseStateChange(r); ok {
			c.logger.Debug().
				Str("path", sc.Path).
				Str("from", sc.From.String()).
				Str("to", sc.To.String()).
				Msg("volume state changed")
			continue
		}
		c.logger.Debug().Int("code", r.Code).Str("message", r.Message).Msg("daemon broadcast")
	}
}
