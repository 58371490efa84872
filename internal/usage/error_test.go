package usage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 2, MissingConfig("GOLEM_TOKEN").GetExitCode())
	assert.Equal(t, 2, UnknownCommand("agentLst").GetExitCode())
	assert.Equal(t, 1, Metadata(errors.New("corrupt")).GetExitCode())
	assert.Equal(t, 1, Script("deploy.gs", errors.New("boom")).GetExitCode())
	assert.Equal(t, 1, (&Error{Kind: ErrorKind(99)}).GetExitCode())
}

func TestMessages(t *testing.T) {
	assert.Contains(t, MissingConfig("GOLEM_TOKEN").Error(), "GOLEM_TOKEN")
	assert.Contains(t, UnknownCommand("agentLst").Error(), "agentLst")

	var err error = Collaborator(errors.New("golem not found"))
	var uerr *Error
	assert.True(t, errors.As(err, &uerr))
}
