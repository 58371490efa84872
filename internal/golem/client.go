// Package golem invokes the external collaborator CLI. The collaborator is
// treated as opaque: the console only knows how to build its argv, attach a
// terminal for interactive commands, and parse JSON from piped queries.
package golem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/golemcloud/golem-console/internal/log"
)

// Client spawns the collaborator binary against a fixed environment.
type Client struct {
	// Binary is the collaborator executable, resolved via PATH.
	Binary string

	// Environment is passed to every invocation as --environment.
	Environment string

	// Application optionally scopes every invocation with --app.
	Application string
}

// Argv builds the deterministic argument vector for an invocation:
// [--app, <app>,] --environment, <env>, ...path, ...args.
func (c *Client) Argv(path, args []string) []string {
	argv := make([]string, 0, 4+len(path)+len(args))
	if c.Application != "" {
		argv = append(argv, "--app", c.Application)
	}
	argv = append(argv, "--environment", c.Environment)
	argv = append(argv, path...)
	argv = append(argv, args...)
	return argv
}

// RunInherit runs a collaborator subcommand with the controlling terminal's
// stdio attached, so interactive prompts inside the collaborator work. It
// blocks until the child exits and returns the exit code.
func (c *Client) RunInherit(ctx context.Context, path, args []string) (int, error) {
	argv := c.Argv(path, args)
	log.Debug("golem: run %s %v", c.Binary, argv)

	cmd := exec.CommandContext(ctx, c.Binary, argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("run %s: %w", c.Binary, err)
}

// QueryJSON runs a collaborator subcommand in piped mode, prepending
// --format json, buffering all output and decoding stdout into out. The
// whole result is produced atomically; completion hooks depend on that.
// Non-zero exits and parse failures are reported as errors, never panics.
func (c *Client) QueryJSON(ctx context.Context, path, args []string, out any) error {
	argv := append([]string{"--format", "json"}, c.Argv(path, args)...)
	log.Debug("golem: query %s %v", c.Binary, argv)

	cmd := exec.CommandContext(ctx, c.Binary, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Warn("golem: query failed: %v (stderr: %s)", err, stderr.String())
		return fmt.Errorf("query %v: %w", path, err)
	}
	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		log.Warn("golem: query produced invalid JSON: %v", err)
		return fmt.Errorf("decode %v output: %w", path, err)
	}
	return nil
}

// StreamCommand prepares (without starting) a long-lived log-follow child
// for the agent stream manager. The caller owns the process lifecycle.
func (c *Client) StreamCommand(path, args []string) *exec.Cmd {
	return exec.Command(c.Binary, c.Argv(path, args)...)
}
