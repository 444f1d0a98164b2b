// ABOUTME: Conversion between automator reports and history records.
// ABOUTME: Persists finished runs to the local database.
package history

import (
	"context"
	"errors"
	"strings"

	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/db"
)

// RecordFromReport converts a run report into a database record.
func RecordFromReport(report *automator.Report) db.RunRecord {
	rec := db.RunRecord{
		RepoPath:   report.RepoPath,
		Message:    report.Message,
		Outcome:    string(report.Outcome),
		Completed:  append([]string(nil), report.Completed...),
		FailedStep: report.FailedStep,
		AuthHint:   report.AuthHint,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}
	if f := report.Failure; f != nil {
		rec.Command = f.Command.String()
		rec.ExitCode = f.ExitCode
		rec.Stdout = strings.TrimSpace(f.Stdout)
		rec.Stderr = strings.TrimSpace(f.Stderr)
		if rec.Stderr == "" && f.Err != nil && !f.Started() {
			rec.Stderr = f.Err.Error()
		}
	} else if report.Detail != "" {
		rec.Stderr = report.Detail
	}
	return rec
}

// Persist saves report and returns the new row ID.
func Persist(ctx context.Context, store *db.Store, report *automator.Report) (int64, error) {
	if report == nil {
		return 0, errors.New("report is nil")
	}
	return store.LogRun(ctx, RecordFromReport(report))
}
