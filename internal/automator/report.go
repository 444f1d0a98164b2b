// ABOUTME: Run outcome types and sentinel errors for the push workflow.
// ABOUTME: Report captures how far a run got and why it stopped.
package automator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/gitpush/internal/gitexec"
)

var (
	// ErrPathNotFound means the repository path is not an existing directory.
	ErrPathNotFound = errors.New("path not found")
	// ErrChangeDir means the working directory could not be switched to the repository.
	ErrChangeDir = errors.New("changing directory")
	// ErrStepFailed means a git command exited unsuccessfully.
	ErrStepFailed = errors.New("git command failed")
)

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomePushed      Outcome = "pushed"
	OutcomeInvalidPath Outcome = "invalid_path"
	OutcomeFailed      Outcome = "failed"
)

// Report summarises one run.
type Report struct {
	RepoPath   string          `json:"repo_path"`
	Message    string          `json:"message"`
	Outcome    Outcome         `json:"outcome"`
	Completed  []string        `json:"completed"`
	FailedStep string          `json:"failed_step,omitempty"`
	Failure    *gitexec.Result `json:"failure,omitempty"`
	AuthHint   bool            `json:"auth_hint"`
	Detail     string          `json:"detail,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Err maps the outcome to an error suitable for an exit status.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	switch r.Outcome {
	case OutcomePushed:
		return nil
	case OutcomeInvalidPath:
		return fmt.Errorf("%w: %s", ErrPathNotFound, r.RepoPath)
	default:
		if r.FailedStep == "" {
			return fmt.Errorf("%w: %s", ErrChangeDir, r.Detail)
		}
		return fmt.Errorf("%w: %s", ErrStepFailed, r.FailedStep)
	}
}

// authDenied reports whether captured error text looks like a rejected credential.
func authDenied(stderr string) bool {
	return strings.Contains(stderr, "denied")
}
