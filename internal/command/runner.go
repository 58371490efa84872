package command

import (
	"context"

	"github.com/golemcloud/golem-console/internal/golem"
	"github.com/golemcloud/golem-console/internal/log"
	"github.com/golemcloud/golem-console/internal/shellwords"
)

// Result is the outcome of one dot-command execution.
type Result struct {
	OK       bool
	ExitCode int
}

// ArgAdapter rewrites user-typed arguments before execution, e.g. to inject
// a fixed flag in front of them.
type ArgAdapter func(cmd *ReplCommand, args []string) []string

// ResultHook runs after a command exits. Hooks may have process-wide
// effects; the deploy hook terminates the REPL with the restart exit code.
type ResultHook func(cmd *ReplCommand, args []string, res Result)

// Runner executes resolved dot-commands by spawning the collaborator in
// inherit mode.
type Runner struct {
	client   *golem.Client
	adapters map[string]ArgAdapter
	hooks    []ResultHook
}

// NewRunner creates a Runner over the collaborator client.
func NewRunner(client *golem.Client) *Runner {
	return &Runner{
		client:   client,
		adapters: make(map[string]ArgAdapter),
	}
}

// Adapt registers a pre-execution argument adapter for a dot-command.
func (r *Runner) Adapt(replName string, adapter ArgAdapter) {
	r.adapters[replName] = adapter
}

// OnResult registers a post-execution hook. Hooks run in registration
// order after every command.
func (r *Runner) OnResult(hook ResultHook) {
	r.hooks = append(r.hooks, hook)
}

// Run tokenizes rawArgs, applies the command's adapter if any, and spawns
// the collaborator with the command's path in inherit mode. The call blocks
// until the child exits; the REPL prompt does not reappear before then.
func (r *Runner) Run(ctx context.Context, cmd *ReplCommand, rawArgs string) Result {
	args := shellwords.Split(rawArgs)
	if adapter, ok := r.adapters[cmd.ReplName]; ok {
		args = adapter(cmd, args)
	}

	code, err := r.client.RunInherit(ctx, cmd.Path, args)
	res := Result{OK: err == nil && code == 0, ExitCode: code}
	if err != nil {
		log.Error("runner: %s: %v", cmd.ReplName, err)
	}

	for _, hook := range r.hooks {
		hook(cmd, args, res)
	}
	return res
}
