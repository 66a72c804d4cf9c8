package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// ProcessRunner executes external commands through os/exec, logging each
// command line and its combined output.
type ProcessRunner struct {
	mu  sync.Mutex
	env map[string]string
}

// NewProcessRunner creates a ProcessRunner that inherits the process
// environment.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{env: make(map[string]string)}
}

var _ repositories.ProcessRunner = (*ProcessRunner)(nil)

// Setenv sets a variable for every command started afterwards. An empty
// value removes the override.
func (r *ProcessRunner) Setenv(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value == "" {
		delete(r.env, key)
		return
	}
	r.env[key] = value
}

// Run starts name with args in dir and waits for it. In MustSucceed mode a
// non-zero exit is returned as *entities.CommandFailure; in AllowFailure
// mode it is only reflected in ProcessResult.Success. Errors starting the
// process are returned in both modes.
func (r *ProcessRunner) Run(
	ctx context.Context,
	dir string,
	mode repositories.RunMode,
	name string,
	args ...string,
) (repositories.ProcessResult, error) {
	commandLine := strings.Join(append([]string{name}, args...), " ")
	logger.Infof("$ %s", commandLine)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = r.environ()

	output, runErr := cmd.CombinedOutput()
	outputStr := string(output)
	if outputStr != "" {
		logger.Debugf("%s", strings.TrimRight(outputStr, "\n"))
	}

	result := repositories.ProcessResult{Output: outputStr, Success: runErr == nil}
	if runErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return result, fmt.Errorf("failed to run %q: %w", commandLine, runErr)
	}

	if mode == repositories.AllowFailure {
		logger.Debugf("%q exited with %d (tolerated)", commandLine, exitErr.ExitCode())
		return result, nil
	}

	return result, &entities.CommandFailure{
		Command:  commandLine,
		Dir:      dir,
		Output:   outputStr,
		ExitCode: exitErr.ExitCode(),
		Err:      runErr,
	}
}

func (r *ProcessRunner) environ() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	env := os.Environ()
	for key, value := range r.env {
		env = append(env, key+"="+value)
	}
	return env
}
