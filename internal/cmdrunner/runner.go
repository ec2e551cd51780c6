// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmdrunner

import (
	"errors"
	"io"
	"os"
	"os/exec"

	iu "github.com/finnagene/finnagene/internal/util"
	"github.com/finnagene/finnagene/model"
)

var _ model.CommandRunner = (*CommandRunner)(nil)

// SinkFileMode is the mode used when the output sink has to be created
const SinkFileMode = 0644

// CommandRunner spawns commands with their standard output appended to a file
type CommandRunner struct {
	logger model.Logger
	stdin  io.Reader
	stderr io.Writer
}

// Option configures a CommandRunner
type Option func(*CommandRunner)

// WithStdin sets the standard input given to children, defaults to os.Stdin
func WithStdin(r io.Reader) Option {
	return func(c *CommandRunner) { c.stdin = r }
}

// WithStderr sets the standard error given to children, defaults to os.Stderr
func WithStderr(w io.Writer) Option {
	return func(c *CommandRunner) { c.stderr = w }
}

// NewCommandRunner creates a new CommandRunner instance with the provided logger
func NewCommandRunner(log model.Logger, opts ...Option) (*CommandRunner, error) {
	c := &CommandRunner{
		logger: log,
		stdin:  os.Stdin,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Run appends the standard output of command to sink and blocks until the command exits.
//
// A command that exits non-zero is not an error, its exit code is returned. Failure to find
// or start the executable is a *model.SpawnError, failure to open or close the sink is a
// *model.IOError. The sink is never opened when the executable cannot be found and a sink
// created by this call is removed again when the child fails to start.
func (c *CommandRunner) Run(command []string, sink string) (exitCode int, err error) {
	if len(command) == 0 || command[0] == "" {
		return -1, &model.SpawnError{Err: model.ErrCommandRequired}
	}
	if sink == "" {
		return -1, &model.IOError{Err: model.ErrSinkRequired}
	}

	executable, found, err := iu.ExecutableInPath(command[0])
	if !found {
		return -1, &model.SpawnError{Path: command[0], Err: err}
	}

	c.logger.Debug("Running command", "command", command[0], "path", executable, "args", command[1:], "sink", sink)

	created := !iu.FileExists(sink)

	out, err := os.OpenFile(sink, os.O_WRONLY|os.O_APPEND|os.O_CREATE, SinkFileMode)
	if err != nil {
		return -1, &model.IOError{Path: sink, Err: err}
	}
	defer func() {
		cerr := out.Close()
		if cerr != nil && err == nil {
			err = &model.IOError{Path: sink, Err: cerr}
		}
	}()

	cmd := exec.Command(executable, command[1:]...)
	cmd.Args[0] = command[0]
	cmd.Stdin = c.stdin
	cmd.Stdout = out
	cmd.Stderr = c.stderr

	err = cmd.Start()
	if err != nil {
		if created {
			c.removeEmptySink(sink)
		}

		return -1, &model.SpawnError{Path: command[0], Err: err}
	}

	c.logger.Debug("Waiting for command", "pid", cmd.Process.Pid)

	err = cmd.Wait()
	exitCode = exitCodeFrom(err, cmd.ProcessState)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// a non-zero exit is a result, not a failure
		err = nil
	}

	return exitCode, err
}

func (c *CommandRunner) removeEmptySink(sink string) {
	stat, err := os.Stat(sink)
	if err != nil || stat.Size() > 0 {
		return
	}

	err = os.Remove(sink)
	if err != nil {
		c.logger.Warn("Could not remove unused output sink", "sink", sink, "error", err)
	}
}

func exitCodeFrom(waitErr error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if waitErr == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}

	return -1
}
