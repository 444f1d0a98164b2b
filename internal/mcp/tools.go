// ABOUTME: MCP tool definitions and handlers.
// ABOUTME: Implements push_repository and list_runs operations.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/db"
	"github.com/harper/gitpush/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerPushRepositoryTool()
	s.registerListRunsTool()
}

func (s *Server) registerPushRepositoryTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"repo_path": map[string]any{
				"type":        "string",
				"description": "Path to an existing local repository directory",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Commit message. May be empty; empty commits are allowed.",
			},
		},
		"required": []string{"repo_path", "message"},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "push_repository",
		Description: "Run git add ., git commit --allow-empty and git push -u origin main in a repository. Git never prompts for credentials here.",
		InputSchema: schema,
	}, s.handlePushRepository)
}

func (s *Server) registerListRunsTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "Number of rows to return (default 20).",
			},
			"since": map[string]any{
				"type":        "string",
				"description": "Natural language or ISO date filter (e.g. 'yesterday', '2025-01-01').",
			},
			"search": map[string]any{
				"type":        "string",
				"description": "Search over repository path and commit message.",
			},
			"outcome": map[string]any{
				"type":        "string",
				"enum":        []string{"pushed", "failed", "invalid_path"},
				"description": "Only return runs with this outcome.",
			},
		},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_runs",
		Description: "Query recorded push runs from the local SQLite database.",
		InputSchema: schema,
	}, s.handleListRuns)
}

type PushRepositoryInput struct {
	RepoPath string `json:"repo_path"`
	Message  string `json:"message"`
}

type PushRepositoryOutput struct {
	Report     *automator.Report `json:"report"`
	Transcript string            `json:"transcript"`
	RunID      int64             `json:"run_id,omitempty"`
	Warning    string            `json:"warning,omitempty"`
}

func (s *Server) handlePushRepository(ctx context.Context, _ *mcp.CallToolRequest, input PushRepositoryInput) (*mcp.CallToolResult, PushRepositoryOutput, error) {
	if input.RepoPath == "" {
		return nil, PushRepositoryOutput{}, fmt.Errorf("repo_path is required")
	}
	if !automator.IsDir(input.RepoPath) {
		return nil, PushRepositoryOutput{}, fmt.Errorf("%w: %s", automator.ErrPathNotFound, input.RepoPath)
	}

	var transcript bytes.Buffer
	report := s.newAutomator(input.RepoPath, &transcript).Push(ctx, input.Message)
	report.RepoPath = input.RepoPath

	output := PushRepositoryOutput{
		Report:     report,
		Transcript: transcript.String(),
	}

	if s.cfg.HistoryEnabled() {
		id, err := history.Persist(ctx, s.store, report)
		if err != nil {
			output.Warning = fmt.Sprintf("failed to log history: %v", err)
		} else {
			output.RunID = id
		}
	}

	result, err := buildToolResult(output)
	if err != nil {
		return nil, output, err
	}
	result.IsError = report.Outcome != automator.OutcomePushed
	return result, output, nil
}

type ListRunsInput struct {
	Limit   *int    `json:"limit,omitempty"`
	Since   *string `json:"since,omitempty"`
	Search  *string `json:"search,omitempty"`
	Outcome *string `json:"outcome,omitempty"`
}

type ListRunsOutput struct {
	Count   int            `json:"count"`
	Limit   int            `json:"limit"`
	Since   *time.Time     `json:"since,omitempty"`
	Search  string         `json:"search,omitempty"`
	Outcome string         `json:"outcome,omitempty"`
	Runs    []db.RunRecord `json:"runs"`
}

func (s *Server) handleListRuns(ctx context.Context, _ *mcp.CallToolRequest, input ListRunsInput) (*mcp.CallToolResult, ListRunsOutput, error) {
	limit := 20
	if input.Limit != nil && *input.Limit > 0 {
		limit = *input.Limit
	}

	var sinceTime *time.Time
	if input.Since != nil && *input.Since != "" {
		parsed, err := dateparse.ParseLocal(*input.Since)
		if err != nil {
			return nil, ListRunsOutput{}, fmt.Errorf("invalid since value: %w", err)
		}
		sinceTime = &parsed
	}

	searchVal := ""
	if input.Search != nil {
		searchVal = *input.Search
	}
	outcomeVal := ""
	if input.Outcome != nil {
		outcomeVal = *input.Outcome
	}

	records, err := s.store.QueryRuns(ctx, db.RunQuery{
		Limit:   limit,
		Since:   sinceTime,
		Search:  searchVal,
		Outcome: outcomeVal,
	})
	if err != nil {
		return nil, ListRunsOutput{}, err
	}
	if records == nil {
		records = []db.RunRecord{}
	}

	output := ListRunsOutput{
		Count:   len(records),
		Limit:   limit,
		Since:   sinceTime,
		Search:  searchVal,
		Outcome: outcomeVal,
		Runs:    records,
	}

	result, err := buildToolResult(output)
	if err != nil {
		return nil, output, err
	}
	return result, output, nil
}

func buildToolResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
