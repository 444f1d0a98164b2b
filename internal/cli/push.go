// ABOUTME: Default command running the interactive add, commit, push flow.
// ABOUTME: Wires the prompter, git runner and history recording together.
package cli

import (
	"context"
	"fmt"

	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/gitexec"
	"github.com/harper/gitpush/internal/history"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func runPush(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())
	logger.Debug().Str("config", cfgPath).Str("git", cfg.Binary()).Msg("loaded config")

	in, out, errOut := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
	if !isTerminal(in) {
		_, _ = fmt.Fprintln(errOut, "warning: stdin is not a terminal, git will not be able to ask for credentials")
	}

	runner := gitexec.NewRunner(
		gitexec.WithStdio(in, out, errOut),
		gitexec.WithLogger(logger),
	)
	auto := automator.New(runner, out,
		automator.WithBinary(cfg.Binary()),
		automator.WithLogger(logger),
	)
	session := automator.NewSession(newPrompter(in, out), auto)

	report, err := session.Run(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.HistoryEnabled() && !opts.noHistory {
		if err := recordRun(cmd.Context(), report, logger); err != nil {
			_, _ = fmt.Fprintf(errOut, "warning: unable to record run: %v\n", err)
		}
	}

	return report.Err()
}

func recordRun(ctx context.Context, report *automator.Report, logger zerolog.Logger) error {
	store, path, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := history.Persist(ctx, store, report)
	if err != nil {
		return err
	}
	logger.Debug().Int64("run_id", id).Str("db", path).Msg("recorded run")
	return nil
}
