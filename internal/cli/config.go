// ABOUTME: Config command for displaying current configuration.
// ABOUTME: Shows config file path and contents in TOML format.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/harper/gitpush/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}

	cmd.Flags().Bool("path", false, "print the config file path only")
	cmd.Flags().Bool("init", false, "write a default config file if none exists")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	showPathOnly, _ := cmd.Flags().GetBool("path")
	initFile, _ := cmd.Flags().GetBool("init")

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	if showPathOnly {
		cmd.Println(cfgPath)
		return nil
	}

	if initFile {
		if _, err := os.Stat(cfgPath); err == nil {
			cmd.Printf("Config already exists at %s\n", cfgPath)
		} else if errors.Is(err, os.ErrNotExist) {
			if err := config.Save(cfgPath, config.Default()); err != nil {
				return err
			}
			cmd.Printf("✓ Wrote default config to %s\n", cfgPath)
		} else {
			return fmt.Errorf("checking config: %w", err)
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	cmd.Printf("# %s\n%s", cfgPath, string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		cmd.Println()
	}
	return nil
}
