package repositories

import "context"

// RunMode tells a ProcessRunner how to treat a non-zero exit status.
type RunMode int

const (
	// AllowFailure returns the output and a false Success flag.
	AllowFailure RunMode = iota
	// MustSucceed turns a non-zero exit into an *entities.CommandFailure.
	MustSucceed
)

// ProcessResult is the combined output of a finished process.
type ProcessResult struct {
	Output  string
	Success bool
}

// ProcessRunner executes external commands in a directory.
type ProcessRunner interface {
	Run(ctx context.Context, dir string, mode RunMode, name string, args ...string) (ProcessResult, error)

	// Setenv adds a variable to the environment of every later command.
	Setenv(key, value string)
}
