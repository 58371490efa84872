package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/golemcloud/golem-console/internal/command"
	"github.com/golemcloud/golem-console/internal/config"
	"github.com/golemcloud/golem-console/internal/golem"
	"github.com/golemcloud/golem-console/internal/lang"
	"github.com/golemcloud/golem-console/internal/log"
	"github.com/golemcloud/golem-console/internal/repl"
	"github.com/golemcloud/golem-console/internal/session"
	"github.com/golemcloud/golem-console/internal/stream"
	"github.com/golemcloud/golem-console/internal/ui/style"
	"github.com/golemcloud/golem-console/internal/usage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var uerr *usage.Error
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(uerr.GetExitCode())
		}
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := log.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "golem-console: logging disabled: %v\n", err)
	}
	defer func() { _ = log.Close() }()

	enableColor := term.IsTerminal(int(os.Stdout.Fd())) && !hasFlag(args, "--no-color")
	style.Init(enableColor)

	client := &golem.Client{Binary: cfg.CLIPath, Environment: cfg.Environment, Application: cfg.Application}

	// Agent types degrade to an empty registry: dot-commands still work
	// without them.
	registry, err := golem.LoadTypes(ctx, client)
	if err != nil {
		log.Warn("main: %v", err)
		fmt.Fprintln(os.Stderr, style.Warning("agent types unavailable; expression features limited"))
		registry = lang.NewRegistry()
	}

	streams := stream.NewManager(stream.CLILauncher(client), os.Stdout, os.Stderr)
	defer streams.StopAll()

	invoker := &streamingInvoker{
		inner:   golem.NewAgentInvoker(client),
		streams: streams,
	}
	interp := lang.NewInterp(registry, invoker)

	if len(args) > 0 && args[0] == "run" {
		return runScript(ctx, interp, args[1:])
	}

	root, err := loadCommandTree(ctx, client, cfg)
	if err != nil {
		return err
	}
	commands := command.NewCompleter(command.Flatten(root))
	commands.RegisterValueSource("agent-name", command.AgentNameSource(client))
	commands.RegisterValueSource("agent-type", command.AgentTypeSource(client))
	commands.RegisterValueSource("component-name", command.ComponentNameSource(client))

	runner := command.NewRunner(client)
	runner.OnResult(deployRestartHook(streams))

	recorder := openRecorder(cfg)

	ctrl := repl.New(repl.Options{
		Service:     lang.NewService(registry),
		Evaluator:   interp,
		Commands:    commands,
		Runner:      runner,
		Recorder:    recorder,
		HistoryFile: cfg.LogPath + ".history",
	})

	fmt.Println(style.Header("golem console") + style.Muted(" · environment "+cfg.Environment))
	if recorder != nil {
		fmt.Println(style.Info("transcript session " + recorder.SessionID()))
	}
	return ctrl.Run(ctx)
}

func runScript(ctx context.Context, interp *lang.Interp, args []string) error {
	if len(args) == 0 {
		return usage.Script("", errors.New("no script path given"))
	}
	path := args[0]
	opts := repl.ScriptOptions{JSON: hasFlag(args[1:], "--output=json") || outputJSON(args[1:])}

	interp.SetLoader(func(module string) (lang.Value, error) {
		data, err := os.ReadFile(module)
		if err != nil {
			return nil, err
		}
		return interp.Eval(ctx, repl.RewriteImports(string(data)))
	})
	return repl.RunScript(ctx, interp, path, opts)
}

// loadCommandTree reads the dot-command metadata, preferring a local file
// override and falling back to asking the collaborator.
func loadCommandTree(ctx context.Context, client *golem.Client, cfg *config.Config) (*command.Node, error) {
	if cfg.MetadataPath != "" {
		root, err := command.Load(cfg.MetadataPath)
		if err != nil {
			return nil, usage.Metadata(err)
		}
		return root, nil
	}

	var raw json.RawMessage
	if err := client.QueryJSON(ctx, []string{"command-metadata"}, nil, &raw); err != nil {
		return nil, usage.Collaborator(err)
	}
	root, err := command.Parse(raw)
	if err != nil {
		return nil, usage.Metadata(err)
	}
	return root, nil
}

// deployRestartHook terminates the process with the reserved restart exit
// code after a successful deploy, so the supervising shell relaunches the
// console against the new deployment. Dry runs do not restart.
func deployRestartHook(streams *stream.Manager) command.ResultHook {
	return func(cmd *command.ReplCommand, args []string, res command.Result) {
		if cmd.ReplName != "deploy" || !res.OK {
			return
		}
		for _, a := range args {
			if a == "--dry-run" || a == "--plan" {
				return
			}
		}
		fmt.Println(style.Success("deploy complete; restarting console"))
		streams.StopAll()
		_ = log.Close()
		os.Exit(75)
	}
}

// openRecorder opens the transcript store next to the log file. Failure
// means no transcript, never a failed startup.
func openRecorder(cfg *config.Config) *session.Recorder {
	store, err := session.New(cfg.LogPath + ".db")
	if err != nil {
		log.Warn("main: session transcript disabled: %v", err)
		return nil
	}
	return session.NewRecorder(store)
}

// streamingInvoker follows every constructed agent's logs automatically.
type streamingInvoker struct {
	inner   *golem.AgentInvoker
	streams *stream.Manager
}

func (s *streamingInvoker) CreateAgent(ctx context.Context, agentType string, args []lang.Value) (string, error) {
	id, err := s.inner.CreateAgent(ctx, agentType, args)
	if err != nil {
		return "", err
	}
	if serr := s.streams.Start(stream.Request{AgentType: agentType, Params: []string{id}}); serr != nil {
		log.Warn("main: follow %s logs: %v", agentType, serr)
	}
	return id, nil
}

func (s *streamingInvoker) Invoke(ctx context.Context, agentType, agentID, method string, args []lang.Value) (lang.Value, error) {
	return s.inner.Invoke(ctx, agentType, agentID, method, args)
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func outputJSON(args []string) bool {
	for i, a := range args {
		if a == "--output" && i+1 < len(args) && args[i+1] == "json" {
			return true
		}
	}
	return false
}
