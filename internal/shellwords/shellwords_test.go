package shellwords

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_Simple(t *testing.T) {
	require.Equal(t, []string{"agent", "list"}, Split("agent list"))
	require.Equal(t, []string{"--max-count", "5"}, Split("--max-count 5"))
	require.Empty(t, Split("   "))
	require.Empty(t, Split(""))
}

func TestSplit_Quoting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"double quotes", `--name "bob smith"`, []string{"--name", "bob smith"}},
		{"single quotes", `--name 'bob smith'`, []string{"--name", "bob smith"}},
		{"escaped space", `bob\ smith`, []string{"bob smith"}},
		{"escaped quote in double", `"say \"hi\""`, []string{`say "hi"`}},
		{"empty quotes", `--name ""`, []string{"--name", ""}},
		{"adjacent quoted", `pre"mid"post`, []string{"premidpost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Split(tt.input))
		})
	}
}

func TestSplit_ConstructorCall(t *testing.T) {
	got := Split(`counterAgent("bob", 3) --flag`)
	require.Equal(t, []string{`counterAgent("bob", 3)`, "--flag"}, got)
}

func TestSplit_ConstructorCallNested(t *testing.T) {
	got := Split(`makeAgent(pair("a", 1), [2, 3]) next`)
	require.Equal(t, []string{`makeAgent(pair("a", 1), [2, 3])`, "next"}, got)
}

func TestSplit_ConstructorCallQuotedParens(t *testing.T) {
	// Parens inside quotes must not close the span.
	got := Split(`agent("a (weird) name") rest`)
	require.Equal(t, []string{`agent("a (weird) name")`, "rest"}, got)
}

func TestSplit_UnbalancedIsPermissive(t *testing.T) {
	// Half-typed input must still tokenize without error.
	require.Equal(t, []string{`counterAgent("bob`}, Split(`counterAgent("bob`))
	require.Equal(t, []string{`counterAgent(1, `}, Split(`counterAgent(1, `))
	require.Equal(t, []string{"unterminated quote"}, Split(`"unterminated quote`))
}

func TestSplit_ParenAfterNonIdentifierIsLiteral(t *testing.T) {
	// Only a bare identifier run opens a constructor span.
	require.Equal(t, []string{"--flag(x)", "y"}, Split("--flag(x) y"))
}
