// ABOUTME: History command for viewing recorded push runs.
// ABOUTME: Queries local SQLite database with date, text and outcome filters.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/db"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded push runs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "limit number of rows")
	cmd.Flags().String("since", "", "filter by natural language date (e.g. yesterday)")
	cmd.Flags().String("search", "", "search repository path and commit message")
	cmd.Flags().String("outcome", "", "filter by outcome (pushed, failed, invalid_path)")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = 20
	}

	sinceStr, _ := cmd.Flags().GetString("since")
	search, _ := cmd.Flags().GetString("search")
	outcome, _ := cmd.Flags().GetString("outcome")
	asJSON, _ := cmd.Flags().GetBool("json")

	if err := validateOutcome(outcome); err != nil {
		return err
	}

	since, err := parseSince(sinceStr)
	if err != nil {
		return fmt.Errorf("parse --since: %w", err)
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.QueryRuns(cmd.Context(), db.RunQuery{
		Limit:   limit,
		Since:   since,
		Search:  search,
		Outcome: outcome,
	})
	if err != nil {
		return err
	}

	if asJSON {
		return writeHistoryJSON(cmd, records)
	}
	writeHistoryTable(cmd, records)
	return nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := dateparse.ParseLocal(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func validateOutcome(outcome string) error {
	switch automator.Outcome(outcome) {
	case "", automator.OutcomePushed, automator.OutcomeFailed, automator.OutcomeInvalidPath:
		return nil
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}
}

func writeHistoryJSON(cmd *cobra.Command, records []db.RunRecord) error {
	if records == nil {
		records = []db.RunRecord{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeHistoryTable(cmd *cobra.Command, records []db.RunRecord) {
	if len(records) == 0 {
		cmd.Println("No history found.")
		return
	}
	for _, rec := range records {
		timestamp := rec.StartedAt.Local().Format(time.RFC3339)
		cmd.Printf("%s [%d] %s %s\n", timestamp, rec.ID, rec.Outcome, rec.RepoPath)
		if rec.Message != "" {
			cmd.Printf("  Message: %s\n", rec.Message)
		}
		if len(rec.Completed) > 0 {
			cmd.Printf("  Completed: %s\n", strings.Join(rec.Completed, ", "))
		}
		if rec.FailedStep != "" {
			cmd.Printf("  Failed: %s (%s, exit %d)\n", rec.FailedStep, rec.Command, rec.ExitCode)
		}
		if rec.Stderr != "" {
			cmd.Printf("  Stderr: %s\n", rec.Stderr)
		}
		if rec.AuthHint {
			cmd.Println("  Hint: authentication was denied")
		}
	}
}
