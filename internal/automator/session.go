// ABOUTME: Interactive session that collects inputs and enters the repository.
// ABOUTME: Validates the path, switches directories, then delegates to Automator.
package automator

import (
	"context"
	"fmt"
	"os"
)

const (
	PathPrompt    = "Enter the full path to your local repository (e.g., /Users/yourname/my-project): "
	MessagePrompt = "Enter a commit message (e.g., 'Initial commit' or 'Fix secret issue'): "
)

// Prompter reads one line of user input after showing label.
type Prompter interface {
	Ask(label string) (string, error)
}

// Session gathers the repository path and commit message, then runs the steps
// from inside the repository.
type Session struct {
	prompter  Prompter
	automator *Automator
	chdir     func(string) error
	getwd     func() (string, error)
}

// NewSession wires a prompter to an automator.
func NewSession(prompter Prompter, automator *Automator) *Session {
	return &Session{
		prompter:  prompter,
		automator: automator,
		chdir:     os.Chdir,
		getwd:     os.Getwd,
	}
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Run executes one interactive push. The error is non-nil only when input
// could not be read; workflow failures are described by the report.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	a := s.automator

	path, err := s.prompter.Ask(PathPrompt)
	if err != nil {
		return nil, fmt.Errorf("reading repository path: %w", err)
	}

	report := &Report{RepoPath: path, StartedAt: a.now(), Completed: []string{}}
	if !IsDir(path) {
		a.printf("\n[ERROR] Path not found: %s\n", path)
		report.Outcome = OutcomeInvalidPath
		report.FinishedAt = a.now()
		return report, nil
	}

	prev, err := s.getwd()
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}
	if err := s.chdir(path); err != nil {
		a.printf("\n[ERROR] Unable to enter %s: %v\n", path, err)
		report.Outcome = OutcomeFailed
		report.Detail = err.Error()
		report.FinishedAt = a.now()
		return report, nil
	}
	defer func() {
		if err := s.chdir(prev); err != nil {
			a.logger.Warn().Err(err).Str("dir", prev).Msg("restoring working directory")
		}
	}()
	a.printf("\nSuccessfully navigated to: %s\n", path)

	message, err := s.prompter.Ask(MessagePrompt)
	if err != nil {
		return nil, fmt.Errorf("reading commit message: %w", err)
	}
	report.Message = message

	a.execute(ctx, report)
	return report, nil
}
