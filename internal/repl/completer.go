package repl

import (
	"context"
	"strings"

	"github.com/golemcloud/golem-console/internal/lang"
)

// autoCompleter adapts the two completion strategies to readline's
// AutoCompleter contract: dot-command completion first, expression
// completion otherwise. readline expects the remaining suffix of each
// candidate plus the length of the word being completed.
type autoCompleter struct {
	commands CommandCompleter
	svc      *lang.Service
}

func newAutoCompleter(commands CommandCompleter, svc *lang.Service) *autoCompleter {
	return &autoCompleter{commands: commands, svc: svc}
}

func (a *autoCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])

	if a.commands != nil {
		if cands, word, ok := a.commands.Complete(context.Background(), prefix); ok {
			return suffixes(cands, word), len([]rune(word))
		}
	}
	if a.svc == nil {
		return nil, 0
	}

	cands, word := a.svc.Complete(prefix, len(prefix))
	return suffixes(cands, word), len([]rune(word))
}

// suffixes strips the already-typed word from each candidate, the shape
// readline splices at the cursor.
func suffixes(cands []string, word string) [][]rune {
	out := make([][]rune, 0, len(cands))
	for _, cand := range cands {
		if !strings.HasPrefix(cand, word) {
			continue
		}
		out = append(out, []rune(cand[len(word):]))
	}
	return out
}
