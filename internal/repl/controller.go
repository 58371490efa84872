// Package repl drives the interactive console: a readline loop dispatching
// dot-commands to the collaborator and everything else through the typed
// expression pipeline.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/golemcloud/golem-console/internal/command"
	"github.com/golemcloud/golem-console/internal/lang"
	"github.com/golemcloud/golem-console/internal/log"
	"github.com/golemcloud/golem-console/internal/session"
	"github.com/golemcloud/golem-console/internal/ui/style"
	"github.com/golemcloud/golem-console/internal/usage"
)

// State is the controller's lifecycle position. Transitions are
// Idle → Evaluating → (Reporting | AwaitingInner) → Idle.
type State int

const (
	StateIdle State = iota
	StateEvaluating
	StateReporting
	StateAwaitingInner
)

// Evaluator runs snippets and resolves deferred results. The production
// implementation is lang.Interp over the collaborator.
type Evaluator interface {
	Eval(ctx context.Context, src string) (lang.Value, error)
	Await(ctx context.Context, v lang.Value) (lang.Value, error)
	Define(name string, v lang.Value)
}

// CommandCompleter completes dot-command input. ok=false defers to the
// expression completer.
type CommandCompleter interface {
	Complete(ctx context.Context, line string) (candidates []string, word string, ok bool)
}

// CommandRunner executes a resolved dot-command.
type CommandRunner interface {
	Run(ctx context.Context, cmd *command.ReplCommand, rawArgs string) command.Result
}

// Options wires the controller's collaborators.
type Options struct {
	Service   *lang.Service
	Evaluator Evaluator
	Commands  *command.Completer
	Runner    CommandRunner
	Recorder  *session.Recorder

	Out    io.Writer
	ErrOut io.Writer

	// HistoryFile backs readline's line recall. Empty disables it.
	HistoryFile string

	// Exit terminates the process; tests inject a recorder. Defaults to
	// os.Exit.
	Exit func(code int)

	// WidthFn reports the terminal width. Defaults to querying stdout.
	WidthFn func() int
}

// Controller owns the interactive loop.
type Controller struct {
	svc      *lang.Service
	eval     Evaluator
	commands *command.Completer
	runner   CommandRunner
	recorder *session.Recorder

	out    io.Writer
	errOut io.Writer

	historyFile string
	exit        func(int)
	widthFn     func() int

	state State
	width int
}

func New(opts Options) *Controller {
	c := &Controller{
		svc:         opts.Service,
		eval:        opts.Evaluator,
		commands:    opts.Commands,
		runner:      opts.Runner,
		recorder:    opts.Recorder,
		out:         opts.Out,
		errOut:      opts.ErrOut,
		historyFile: opts.HistoryFile,
		exit:        opts.Exit,
		widthFn:     opts.WidthFn,
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.errOut == nil {
		c.errOut = os.Stderr
	}
	if c.exit == nil {
		c.exit = os.Exit
	}
	if c.widthFn == nil {
		c.widthFn = stdoutWidth
	}
	c.width = c.widthFn()
	return c
}

// State returns the current lifecycle position.
func (c *Controller) State() State { return c.state }

// Width returns the last observed terminal width.
func (c *Controller) Width() int { return c.width }

// Run enters the interactive loop and blocks until EOF or an explicit
// exit. Terminal width is tracked for the duration of the loop only.
func (c *Controller) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          style.Prompt("golem> "),
		HistoryFile:     c.historyFile,
		AutoComplete:    newAutoCompleter(c.commands, c.svc),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-winch:
				c.width = c.widthFn()
			case <-done:
				return
			}
		}
	}()
	defer func() {
		signal.Stop(winch)
		close(done)
	}()

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		c.Dispatch(ctx, input)
	}
}

// Dispatch handles one line of input: dot-commands go to the collaborator,
// everything else through the expression pipeline.
func (c *Controller) Dispatch(ctx context.Context, input string) {
	if strings.HasPrefix(input, command.Prefix) {
		c.runCommand(ctx, input)
		return
	}
	c.evaluate(ctx, input)
}

func (c *Controller) runCommand(ctx context.Context, input string) {
	rest := strings.TrimPrefix(input, command.Prefix)
	name, rawArgs, _ := strings.Cut(rest, " ")

	cmd, ok := c.commands.Lookup(name)
	if !ok {
		fmt.Fprintln(c.errOut, style.Error(usage.UnknownCommand(name).Error()))
		return
	}

	res := c.runner.Run(ctx, cmd, rawArgs)
	if !res.OK {
		fmt.Fprintln(c.errOut, style.Warning(fmt.Sprintf("%s exited with code %d", cmd.ReplName, res.ExitCode)))
	}
	c.recorder.Command(input, res.ExitCode)
}

func (c *Controller) evaluate(ctx context.Context, input string) {
	c.state = StateEvaluating
	defer func() { c.state = StateIdle }()

	if diags := c.svc.Check(input); len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(c.errOut, style.Error(d.String()))
		}
		return
	}

	result, err := c.eval.Eval(ctx, input)
	if err != nil {
		fmt.Fprintln(c.errOut, style.Error(err.Error()))
		return
	}

	if fut, ok := result.(lang.FutureValue); ok {
		c.state = StateAwaitingInner
		fmt.Fprintln(c.out, style.Muted("awaiting "+fut.Inner.String()))

		resolved, err := c.eval.Await(ctx, fut)
		if err != nil {
			fmt.Fprintln(c.errOut, style.Error(err.Error()))
			return
		}
		c.report(input, resolved)
		c.rebind(input, resolved)
		c.recorder.Await(input, resolved.String())
		return
	}

	c.report(input, result)
	c.recorder.Eval(input, result.String())
}

// report prints the value, commits the original input to the session
// history, and shows the value's type alongside.
func (c *Controller) report(input string, v lang.Value) {
	c.state = StateReporting
	fmt.Fprintln(c.out, v.String()+" "+style.Muted(": "+v.Type().String()))
	c.svc.AddToHistory(input)
	log.Debug("repl: evaluated %q", input)
}

// rebind replaces a let binding with its awaited value so later snippets
// see the resolved type, not the future.
func (c *Controller) rebind(input string, resolved lang.Value) {
	name, ok := lastLetName(input)
	if !ok {
		return
	}
	c.eval.Define(name, resolved)
	c.svc.DefineBinding(name, resolved.Type())
}

// lastLetName extracts the bound name of the final statement, if it is a
// let.
func lastLetName(src string) (string, bool) {
	stmts, _ := lang.ParseProgram(src)
	if len(stmts) == 0 {
		return "", false
	}
	last := stmts[len(stmts)-1]
	if !last.IsLet() {
		return "", false
	}
	return last.Name, true
}

func stdoutWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
