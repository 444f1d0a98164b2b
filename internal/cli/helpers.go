// ABOUTME: Helper functions shared across CLI commands.
// ABOUTME: Provides config loading, database access, and logger setup.
package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/harper/gitpush/internal/config"
	"github.com/harper/gitpush/internal/db"
	"github.com/rs/zerolog"
)

func loadConfig() (*config.Config, string, error) {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, cfgPath, nil
}

func databasePath() (string, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "gitpush.db"), nil
}

func openStore() (*db.Store, string, error) {
	path, err := databasePath()
	if err != nil {
		return nil, "", err
	}
	store, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	return store, path, nil
}

func newLogger(w io.Writer) zerolog.Logger {
	if !opts.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
