// ABOUTME: Orchestrates the add, commit and push steps against an executor.
// ABOUTME: Stops at the first failing step and prints a diagnosis.
package automator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harper/gitpush/internal/gitexec"
	"github.com/rs/zerolog"
)

// Automator runs the fixed step list through an Executor.
type Automator struct {
	exec            gitexec.Executor
	out             io.Writer
	binary          string
	interactivePush bool
	logger          zerolog.Logger
	now             func() time.Time
}

// Option configures an Automator.
type Option func(*Automator)

// WithBinary overrides the git executable.
func WithBinary(binary string) Option {
	return func(a *Automator) {
		if binary != "" {
			a.binary = binary
		}
	}
}

// WithInteractivePush controls whether push inherits the terminal. When false
// the push output is captured like the other steps.
func WithInteractivePush(interactive bool) Option {
	return func(a *Automator) { a.interactivePush = interactive }
}

// WithLogger sets the debug logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Automator) { a.logger = logger }
}

// New returns an Automator that prints progress to out.
func New(exec gitexec.Executor, out io.Writer, opts ...Option) *Automator {
	a := &Automator{
		exec:            exec,
		out:             out,
		binary:          DefaultBinary,
		interactivePush: true,
		logger:          zerolog.Nop(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Push runs add, commit and push in order with message as the commit message.
// The returned report is never nil.
func (a *Automator) Push(ctx context.Context, message string) *Report {
	report := &Report{Message: message, StartedAt: a.now(), Completed: []string{}}
	a.execute(ctx, report)
	return report
}

func (a *Automator) execute(ctx context.Context, report *Report) {
	defer func() { report.FinishedAt = a.now() }()

	steps := Steps(a.binary, report.Message, a.interactivePush)
	for i, step := range steps {
		a.printf("\n[STEP %d/%d] %s...\n", i+1, len(steps), step.Banner)

		res := a.exec.Run(ctx, step.Command, step.Mode)
		if res.Failed() {
			a.logger.Debug().Str("step", step.Name).Int("exit_code", res.ExitCode).Msg("step failed")
			report.Outcome = OutcomeFailed
			report.FailedStep = step.Name
			report.Failure = &res
			report.AuthHint = a.diagnose(res)
			return
		}

		report.Completed = append(report.Completed, step.Name)
		a.printf("%s\n", step.Done)
	}
	report.Outcome = OutcomePushed
}

// diagnose prints the failure and returns whether the auth hint was shown.
func (a *Automator) diagnose(res gitexec.Result) bool {
	a.printf("\n[ERROR] Git command failed.\n")
	a.printf("  Command: %s\n", res.Command.String())
	a.printf("  Stdout: %s\n", strings.TrimSpace(res.Stdout))
	a.printf("  Stderr: %s\n", strings.TrimSpace(res.Stderr))
	if !res.Started() && res.Err != nil {
		a.printf("  Error: %v\n", res.Err)
	}

	if !authDenied(res.Stderr) {
		return false
	}
	a.printf("\n🚨 **Authentication Failed** 🚨\n")
	a.printf("Please ensure that for the 'Password' prompt, you entered your **Personal Access Token (PAT)**, NOT your GitHub account password.\n")
	return true
}

func (a *Automator) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
