package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golemcloud/golem-console/internal/lang"
)

func runesToStrings(in [][]rune) []string {
	out := make([]string, len(in))
	for i, r := range in {
		out[i] = string(r)
	}
	return out
}

func TestDoCompletesDotCommands(t *testing.T) {
	ac := newAutoCompleter(testCommands(t), lang.NewService(testRegistry()))

	line := []rune(".agent")
	cands, length := ac.Do(line, len(line))

	assert.Equal(t, 5, length, "the partial command name is replaced")
	assert.Equal(t, []string{"List"}, runesToStrings(cands))
}

func TestDoFallsThroughToExpressions(t *testing.T) {
	svc := lang.NewService(testRegistry())
	svc.AddToHistory(`let c = counter("main")`)
	ac := newAutoCompleter(testCommands(t), svc)

	line := []rune("c.cur")
	cands, length := ac.Do(line, len(line))

	assert.Equal(t, 3, length)
	assert.Equal(t, []string{"rent"}, runesToStrings(cands))
}

func TestDoPlaceholderCandidates(t *testing.T) {
	ac := newAutoCompleter(testCommands(t), lang.NewService(testRegistry()))

	line := []rune("counter(")
	cands, length := ac.Do(line, len(line))

	require.Equal(t, 0, length)
	assert.Equal(t, []string{`""`}, runesToStrings(cands))
}

func TestDoRespectsCursorPosition(t *testing.T) {
	ac := newAutoCompleter(testCommands(t), lang.NewService(testRegistry()))

	line := []rune(".agent extra")
	cands, _ := ac.Do(line, 6)
	assert.Equal(t, []string{"List"}, runesToStrings(cands))
}

func TestSuffixesSkipNonMatches(t *testing.T) {
	out := suffixes([]string{"agentList", "deploy"}, "agent")
	assert.Equal(t, []string{"List"}, runesToStrings(out))
}
