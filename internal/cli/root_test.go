// ABOUTME: Tests for the root command and its subcommands.
// ABOUTME: Runs the full CLI against a stub git script.
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/config"
	"github.com/harper/gitpush/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGit writes a fake git that logs its arguments and fails the named subcommand.
func stubGit(t *testing.T, dir, failOn, stderr string) (binary, logPath string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	logPath = filepath.Join(dir, "calls.log")
	script := "#!/bin/sh\n" +
		"echo \"$@\" >> '" + logPath + "'\n" +
		"if [ \"$1\" = '" + failOn + "' ]; then echo '" + stderr + "' 1>&2; exit 1; fi\n" +
		"exit 0\n"
	binary = filepath.Join(dir, "git")
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))
	return binary, logPath
}

type cliEnv struct {
	cfgPath string
	dataDir string
	logPath string
}

func newCLIEnv(t *testing.T, failOn, stderr string) cliEnv {
	t.Helper()
	root := t.TempDir()
	binary, logPath := stubGit(t, root, failOn, stderr)
	cfgPath := filepath.Join(root, "config.toml")
	require.NoError(t, config.Save(cfgPath, &config.Config{GitBinary: binary}))
	return cliEnv{cfgPath: cfgPath, dataDir: filepath.Join(root, "data"), logPath: logPath}
}

func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.cfgPath, "--data", e.dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e cliEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRootPushSuccess(t *testing.T) {
	env := newCLIEnv(t, "", "")
	repo := t.TempDir()

	out, err := env.run(t, repo+"\nShip it\n")
	require.NoError(t, err)

	assert.Contains(t, out, automator.PathPrompt)
	assert.Contains(t, out, automator.MessagePrompt)
	assert.Contains(t, out, "warning: stdin is not a terminal")
	assert.Contains(t, out, "Commit created with message: 'Ship it'")
	assert.Contains(t, out, "[SUCCESS] Push complete!")
	assert.Equal(t, []string{"add .", "commit -m Ship it --allow-empty", "push -u origin main"}, env.calls(t))

	hist, err := env.run(t, "", "history", "--json")
	require.NoError(t, err)
	var runs []db.RunRecord
	require.NoError(t, json.Unmarshal([]byte(hist), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "pushed", runs[0].Outcome)
	assert.Equal(t, repo, runs[0].RepoPath)
}

func TestRootPushInvalidPath(t *testing.T) {
	env := newCLIEnv(t, "", "")
	missing := filepath.Join(t.TempDir(), "missing")

	out, err := env.run(t, missing+"\n")
	require.ErrorIs(t, err, automator.ErrPathNotFound)
	assert.True(t, alreadyReported(err))

	assert.Contains(t, out, "[ERROR] Path not found: "+missing)
	assert.NotContains(t, out, automator.MessagePrompt)
	assert.Empty(t, env.calls(t))
}

func TestRootPushDeniedCommit(t *testing.T) {
	env := newCLIEnv(t, "commit", "fatal: permission denied")

	out, err := env.run(t, t.TempDir()+"\nmsg\n", "--no-history")
	require.ErrorIs(t, err, automator.ErrStepFailed)

	assert.Contains(t, out, "  Command: ")
	assert.Contains(t, out, "  Stderr: fatal: permission denied")
	assert.Contains(t, out, "Authentication Failed")
	assert.Equal(t, []string{"add .", "commit -m msg --allow-empty"}, env.calls(t))

	hist, err := env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, hist, "No history found.")
}

func TestRootPushMissingInput(t *testing.T) {
	env := newCLIEnv(t, "", "")

	_, err := env.run(t, "")
	require.Error(t, err)
	assert.False(t, alreadyReported(err))
}

func TestRootRejectsArgs(t *testing.T) {
	env := newCLIEnv(t, "", "")

	_, err := env.run(t, "", "unexpected")
	assert.Error(t, err)
}

func TestHistoryFilters(t *testing.T) {
	env := newCLIEnv(t, "push", "rejected")

	_, err := env.run(t, t.TempDir()+"\nfirst\n")
	require.Error(t, err)
	_, err = env.run(t, filepath.Join(t.TempDir(), "gone")+"\n")
	require.Error(t, err)

	out, err := env.run(t, "", "history", "--outcome", "invalid_path")
	require.NoError(t, err)
	assert.Contains(t, out, "invalid_path")
	assert.NotContains(t, out, "first")

	out, err = env.run(t, "", "history", "--search", "first", "--since", "2000-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Message: first")
	assert.Contains(t, out, "Failed: push")

	_, err = env.run(t, "", "history", "--outcome", "bogus")
	assert.Error(t, err)

	_, err = env.run(t, "", "history", "--since", "not a date at all")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "gitpush", "config.toml")
	env := cliEnv{cfgPath: cfgPath, dataDir: filepath.Join(root, "data")}

	out, err := env.run(t, "", "config", "--path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)

	out, err = env.run(t, "", "config", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")
	assert.Contains(t, out, "git_binary = 'git'")
	_, err = os.Stat(cfgPath)
	require.NoError(t, err)

	out, err = env.run(t, "", "config", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config already exists")
}

func TestPrompterAsk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain line", input: "hello\n", want: "hello"},
		{name: "keeps spaces", input: "  spaced  \n", want: "  spaced  "},
		{name: "crlf", input: "windows\r\n", want: "windows"},
		{name: "empty line", input: "\n", want: ""},
		{name: "no trailing newline", input: "last", want: "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := newPrompter(strings.NewReader(tt.input), &out)
			got, err := p.Ask("Label: ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Label: ", out.String())
		})
	}

	_, err := newPrompter(strings.NewReader(""), &bytes.Buffer{}).Ask("x")
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, isTerminal(f))
}
