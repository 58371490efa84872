package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/golemcloud/golem-console/internal/lang"
	"github.com/golemcloud/golem-console/internal/usage"
)

// Script sources use module-style imports and exports; the interpreter
// understands neither, so they are rewritten to its dynamic equivalents
// before evaluation.
var (
	importRe = regexp.MustCompile(`(?m)^[ \t]*import[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]+from[ \t]+"([^"]+)"[ \t]*;?[ \t]*$`)
	exportRe = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+`)
)

// RewriteImports converts `import X from "p"` lines into `let X =
// load("p")` and strips export qualifiers.
func RewriteImports(src string) string {
	src = importRe.ReplaceAllString(src, `let $1 = load("$2")`)
	return exportRe.ReplaceAllString(src, "")
}

// ScriptOptions configures one non-interactive run.
type ScriptOptions struct {
	// JSON selects machine-readable output for the final value.
	JSON bool

	Out io.Writer
}

// RunScript evaluates a script file through the same pipeline the REPL
// uses and prints the final value. Evaluation stops at the first error,
// which is returned as a typed usage error after output is flushed.
func RunScript(ctx context.Context, eval Evaluator, path string, opts ScriptOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return usage.Script(path, err)
	}

	result, err := eval.Eval(ctx, RewriteImports(string(src)))
	if err != nil {
		return usage.Script(path, err)
	}
	result, err = eval.Await(ctx, result)
	if err != nil {
		return usage.Script(path, err)
	}

	if opts.JSON {
		data, err := json.MarshalIndent(lang.ToAny(result), "", "  ")
		if err != nil {
			return usage.Script(path, err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, result.String())
	return nil
}
