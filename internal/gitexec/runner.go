// ABOUTME: Process runner for external git commands.
// ABOUTME: Returns structured results with exit code and captured output.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects how a command's standard streams are wired.
type Mode int

const (
	// Captured buffers stdout and stderr for later inspection.
	Captured Mode = iota
	// Interactive connects the command to the runner's stdin, stdout and stderr.
	Interactive
)

func (m Mode) String() string {
	if m == Interactive {
		return "interactive"
	}
	return "captured"
}

// Command is an executable name plus its arguments.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result describes one finished command.
type Result struct {
	Command  Command `json:"command"`
	Mode     string  `json:"mode"`
	ExitCode int     `json:"exit_code"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	Err      error   `json:"-"`
}

// Failed reports whether the command did not exit cleanly.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Started reports whether the process was launched at all.
func (r Result) Started() bool {
	return r.ExitCode >= 0
}

// Executor runs a single command to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command, mode Mode) Result
}

// Runner executes commands as child processes.
type Runner struct {
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	logger zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir runs every command in dir instead of the process working directory.
func WithDir(dir string) Option {
	return func(r *Runner) { r.Dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.Env = append(r.Env, env...) }
}

// WithStdio sets the streams handed to interactive commands.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(r *Runner) {
		if in != nil {
			r.Stdin = in
		}
		if out != nil {
			r.Stdout = out
		}
		if errOut != nil {
			r.Stderr = errOut
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner returns a Runner wired to the process's standard streams.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd and blocks until it exits. A non-zero exit is reported
// through the Result, never as a panic or separate error value.
func (r *Runner) Run(ctx context.Context, cmd Command, mode Mode) Result {
	res := Result{Command: cmd, Mode: mode.String(), ExitCode: -1}

	proc := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //#nosec G204 -- arguments come from the fixed step list
	proc.Dir = r.Dir
	if len(r.Env) > 0 {
		proc.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	if mode == Interactive {
		proc.Stdin = r.Stdin
		proc.Stdout = r.Stdout
		proc.Stderr = r.Stderr
	} else {
		proc.Stdout = &stdout
		proc.Stderr = &stderr
	}

	start := time.Now()
	err := proc.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		res.Err = err
	default:
		res.Err = err
	}

	r.logger.Debug().
		Str("command", cmd.String()).
		Str("mode", res.Mode).
		Str("dir", r.Dir).
		Int("exit_code", res.ExitCode).
		Dur("elapsed", time.Since(start)).
		Err(res.Err).
		Msg("git command finished")

	return res
}
