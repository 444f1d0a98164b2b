// ABOUTME: Tests for MCP tool handlers.
// ABOUTME: Drives handlers directly with a fake git executor.
package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/config"
	"github.com/harper/gitpush/internal/db"
	"github.com/harper/gitpush/internal/gitexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExecutor struct {
	dir   string
	calls []gitexec.Command
	modes []gitexec.Mode
	fail  string
}

func (e *stubExecutor) Run(_ context.Context, cmd gitexec.Command, mode gitexec.Mode) gitexec.Result {
	e.calls = append(e.calls, cmd)
	e.modes = append(e.modes, mode)
	res := gitexec.Result{Command: cmd, Mode: mode.String()}
	if cmd.Args[0] == e.fail {
		res.ExitCode = 128
		res.Stderr = "remote: Permission to o/r.git denied to someone."
		res.Err = errors.New("exit status 128")
	}
	return res
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *stubExecutor) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gitpush.db")
	store, err := db.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv, err := NewServer(cfg, "/tmp/config.toml", store, dbPath)
	require.NoError(t, err)

	stub := &stubExecutor{}
	srv.newExecutor = func(dir string) gitexec.Executor {
		stub.dir = dir
		return stub
	}
	return srv, stub
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, "", &db.Store{}, "")
	assert.Error(t, err)
	_, err = NewServer(config.Default(), "", nil, "")
	assert.Error(t, err)
}

func TestPushRepositorySuccess(t *testing.T) {
	srv, stub := newTestServer(t, config.Default())
	repo := t.TempDir()

	result, out, err := srv.handlePushRepository(context.Background(), nil, PushRepositoryInput{RepoPath: repo, Message: ""})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.IsError)
	assert.Equal(t, repo, stub.dir)
	assert.Equal(t, []gitexec.Mode{gitexec.Captured, gitexec.Captured, gitexec.Captured}, stub.modes)
	assert.Equal(t, []string{"commit", "-m", "", "--allow-empty"}, stub.calls[1].Args)
	assert.Equal(t, automator.OutcomePushed, out.Report.Outcome)
	assert.Equal(t, repo, out.Report.RepoPath)
	assert.Contains(t, out.Transcript, "[SUCCESS] Push complete!")
	assert.Positive(t, out.RunID)

	runs, err := srv.store.QueryRuns(context.Background(), db.RunQuery{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "pushed", runs[0].Outcome)
}

func TestPushRepositoryDeniedPush(t *testing.T) {
	srv, stub := newTestServer(t, config.Default())
	stub.fail = "push"

	result, out, err := srv.handlePushRepository(context.Background(), nil, PushRepositoryInput{RepoPath: t.TempDir(), Message: "msg"})
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Equal(t, "push", out.Report.FailedStep)
	assert.True(t, out.Report.AuthHint)
	assert.Contains(t, out.Transcript, "Authentication Failed")
}

func TestPushRepositoryInvalidPath(t *testing.T) {
	srv, stub := newTestServer(t, config.Default())

	_, _, err := srv.handlePushRepository(context.Background(), nil, PushRepositoryInput{RepoPath: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, automator.ErrPathNotFound)
	assert.Empty(t, stub.calls)
}

func TestPushRepositoryHistoryDisabled(t *testing.T) {
	srv, _ := newTestServer(t, &config.Config{DisableHistory: true})

	_, out, err := srv.handlePushRepository(context.Background(), nil, PushRepositoryInput{RepoPath: t.TempDir(), Message: "msg"})
	require.NoError(t, err)
	assert.Zero(t, out.RunID)

	runs, err := srv.store.QueryRuns(context.Background(), db.RunQuery{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListRuns(t *testing.T) {
	srv, stub := newTestServer(t, config.Default())
	ctx := context.Background()

	_, _, err := srv.handlePushRepository(ctx, nil, PushRepositoryInput{RepoPath: t.TempDir(), Message: "good"})
	require.NoError(t, err)
	stub.fail = "add"
	_, _, err = srv.handlePushRepository(ctx, nil, PushRepositoryInput{RepoPath: t.TempDir(), Message: "bad"})
	require.NoError(t, err)

	failed := "failed"
	_, out, err := srv.handleListRuns(ctx, nil, ListRunsInput{Outcome: &failed})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "bad", out.Runs[0].Message)
	assert.Equal(t, "add", out.Runs[0].FailedStep)

	_, all, err := srv.handleListRuns(ctx, nil, ListRunsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, 20, all.Limit)

	bad := "not a date at all"
	_, _, err = srv.handleListRuns(ctx, nil, ListRunsInput{Since: &bad})
	assert.Error(t, err)
}
