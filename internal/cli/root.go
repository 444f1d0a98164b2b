// ABOUTME: Root command and CLI setup for the gitpush application.
// ABOUTME: Configures Cobra commands and resolves config/data paths.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/gitpush/internal/automator"
	"github.com/spf13/cobra"
)

// appOptions carries CLI-wide path overrides.
type appOptions struct {
	configPath string
	dataDir    string
	verbose    bool
	noHistory  bool
}

var opts = appOptions{}

// Execute runs the Cobra root command.
func Execute() error {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil && !alreadyReported(err) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// alreadyReported reports whether the push workflow printed its own diagnostic for err.
func alreadyReported(err error) bool {
	return errors.Is(err, automator.ErrPathNotFound) ||
		errors.Is(err, automator.ErrChangeDir) ||
		errors.Is(err, automator.ErrStepFailed)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitpush",
		Short: "Stage, commit and push a repository in one go",
		Long:  "Gitpush asks for a repository path and commit message, then runs git add, git commit and git push -u origin main.",
		Args:  cobra.NoArgs,
		RunE:  runPush,
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/gitpush/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data", "", "data directory (default ~/.local/share/gitpush)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log git invocations to stderr")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record this run")

	cmd.AddCommand(
		newHistoryCmd(),
		newConfigCmd(),
		newMCPCmd(),
	)

	return cmd
}

func resolveConfigPath() (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}

	// Use XDG_CONFIG_HOME if set, otherwise ~/.config (even on macOS)
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "gitpush", "config.toml"), nil
}

func resolveDataDir() (string, error) {
	if opts.dataDir != "" {
		return filepath.Abs(opts.dataDir)
	}

	// Use XDG_DATA_HOME if set, otherwise ~/.local/share (even on macOS)
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "gitpush"), nil
}
