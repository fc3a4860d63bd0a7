// Package executor runs external processes with output capture, working
// directory scoping, and context cancellation. The solver and the plot
// script are both invoked through it.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Result holds the output and exit status of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Options configures command execution behavior.
type Options struct {
	// WorkingDir is the directory the command runs in.
	WorkingDir string

	// Env is appended to the current process environment.
	Env map[string]string

	// RedirectToConsole mirrors the command's output to this process's
	// stdout/stderr in addition to capturing it.
	RedirectToConsole bool

	// StdoutWriter and StderrWriter receive a copy of the command's
	// output when set.
	StdoutWriter io.Writer
	StderrWriter io.Writer
}

// Option mutates Options.
type Option func(*Options)

// WithWorkingDir sets the working directory.
func WithWorkingDir(dir string) Option {
	return func(o *Options) { o.WorkingDir = dir }
}

// WithEnv adds environment variables.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithConsoleRedirect mirrors command output to the console.
func WithConsoleRedirect(redirect bool) Option {
	return func(o *Options) { o.RedirectToConsole = redirect }
}

// WithStdoutWriter sets a custom stdout writer.
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) { o.StdoutWriter = w }
}

// WithStderrWriter sets a custom stderr writer.
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) { o.StderrWriter = w }
}

// CommandExecutor runs a single program with fixed arguments.
type CommandExecutor struct {
	program string
	args    []string
}

// New creates a CommandExecutor for the given program and arguments.
func New(program string, args ...string) *CommandExecutor {
	return &CommandExecutor{program: program, args: args}
}

// Execute runs the command to completion. The returned Result is non-nil
// even on failure; a non-zero exit is reported both through the error and
// through Result.ExitCode. Cancelling the context terminates the process.
func (c *CommandExecutor) Execute(ctx context.Context, opts ...Option) (*Result, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	cmd := exec.CommandContext(ctx, c.program, c.args...)

	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}
	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = buildWriter(&stdoutBuf, os.Stdout, options.RedirectToConsole, options.StdoutWriter)
	cmd.Stderr = buildWriter(&stderrBuf, os.Stderr, options.RedirectToConsole, options.StderrWriter)

	err := cmd.Run()
	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}

	if err != nil {
		return result, fmt.Errorf("command execution failed: %w", err)
	}
	return result, nil
}

func buildWriter(capture *bytes.Buffer, console io.Writer, redirect bool, extra io.Writer) io.Writer {
	writers := []io.Writer{capture}
	if redirect {
		writers = append(writers, console)
	}
	if extra != nil {
		writers = append(writers, extra)
	}
	if len(writers) == 1 {
		return capture
	}
	return io.MultiWriter(writers...)
}
