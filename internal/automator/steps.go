// ABOUTME: Ordered git step definitions for the push workflow.
// ABOUTME: Builds add, commit and push commands with their console text.
package automator

import (
	"fmt"

	"github.com/harper/gitpush/internal/gitexec"
)

const (
	// DefaultBinary is the git executable used when none is configured.
	DefaultBinary = "git"
	// Remote is the push target; not configurable.
	Remote = "origin"
	// Branch is the push target branch; not configurable.
	Branch = "main"
)

// Step is one external command in the workflow.
type Step struct {
	Name    string
	Banner  string
	Command gitexec.Command
	Mode    gitexec.Mode
	Done    string
}

// Steps returns the add, commit and push steps in execution order.
// The message is passed to commit untouched, empty or not.
func Steps(binary, message string, interactivePush bool) []Step {
	if binary == "" {
		binary = DefaultBinary
	}
	pushMode := gitexec.Captured
	if interactivePush {
		pushMode = gitexec.Interactive
	}

	return []Step{
		{
			Name:    "add",
			Banner:  "Adding all files (git add .)",
			Command: gitexec.Command{Name: binary, Args: []string{"add", "."}},
			Mode:    gitexec.Captured,
			Done:    "  ✅ All files staged.",
		},
		{
			Name:    "commit",
			Banner:  "Creating commit",
			Command: gitexec.Command{Name: binary, Args: []string{"commit", "-m", message, "--allow-empty"}},
			Mode:    gitexec.Captured,
			Done:    fmt.Sprintf("  ✅ Commit created with message: '%s'", message),
		},
		{
			Name:    "push",
			Banner:  fmt.Sprintf("Pushing to GitHub (git push -u %s %s)", Remote, Branch),
			Command: gitexec.Command{Name: binary, Args: []string{"push", "-u", Remote, Branch}},
			Mode:    pushMode,
			Done:    "\n[SUCCESS] Push complete!",
		},
	}
}
