package entities

import (
	"fmt"
	"strings"
)

// CommandFailure is raised when an external process had to succeed and
// exited with a non-zero status (a merge conflict, a rejected push, ...).
type CommandFailure struct {
	Command  string
	Dir      string
	Output   string
	ExitCode int
	Err      error
}

func (e *CommandFailure) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", e.Command, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CommandFailure) Unwrap() error { return e.Err }

// MetadataParseFailure means a registry answered with content that could
// not be decoded. Callers recover by treating the lookup as empty.
type MetadataParseFailure struct {
	Dependency string
	Err        error
}

func (e *MetadataParseFailure) Error() string {
	return fmt.Sprintf("failed to parse metadata for %q: %v", e.Dependency, e.Err)
}

func (e *MetadataParseFailure) Unwrap() error { return e.Err }

// ConfigurationWarning reports a missing or unusable setting. It is shown to
// the operator and the run carries on.
type ConfigurationWarning struct {
	Setting string
	Message string
}

func (e *ConfigurationWarning) Error() string {
	return e.Setting + ": " + e.Message
}
