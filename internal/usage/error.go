// Package usage defines the user-facing errors the console exits with.
package usage

import "fmt"

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrMissingConfig
	ErrUnknownCommand
	ErrMetadata
	ErrCollaborator
	ErrScript
)

// Exit codes:
//
//	Exit 1: Environment/system errors
//	  - Unknown errors
//	  - Unreachable or broken collaborator
//	  - Unloadable command metadata
//	  - Script evaluation failures
//	Exit 2: User input errors
//	  - Missing configuration (server, token)
//	  - Unknown command name
var exitCodes = map[ErrorKind]int{
	ErrUnknown:        1,
	ErrMissingConfig:  2,
	ErrUnknownCommand: 2,
	ErrMetadata:       1,
	ErrCollaborator:   1,
	ErrScript:         1,
}

// Error represents a user-facing error with semantic type information.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// GetExitCode returns the appropriate exit code for this error.
func (e *Error) GetExitCode() int {
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

var _ error = (*Error)(nil)

// MissingConfig is returned when a required configuration value is absent.
func MissingConfig(name string) *Error {
	return &Error{
		Kind:    ErrMissingConfig,
		Message: fmt.Sprintf("golem-console: %s is not set", name),
	}
}

// UnknownCommand is returned for a dot command that matches nothing.
func UnknownCommand(command string) *Error {
	return &Error{
		Kind:    ErrUnknownCommand,
		Message: fmt.Sprintf("golem-console: '%s' is not a known command", command),
	}
}

// Metadata is returned when the command metadata cannot be loaded.
func Metadata(err error) *Error {
	return &Error{
		Kind:    ErrMetadata,
		Message: fmt.Sprintf("golem-console: load command metadata: %v", err),
	}
}

// Collaborator is returned when the collaborator CLI cannot be used.
func Collaborator(err error) *Error {
	return &Error{
		Kind:    ErrCollaborator,
		Message: fmt.Sprintf("golem-console: %v", err),
	}
}

// Script is returned when a script file fails to load or evaluate.
func Script(path string, err error) *Error {
	return &Error{
		Kind:    ErrScript,
		Message: fmt.Sprintf("golem-console: %s: %v", path, err),
	}
}
