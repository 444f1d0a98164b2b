// ABOUTME: MCP resource definitions and providers.
// ABOUTME: Exposes run history and tool status as resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourcePayload struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links,omitempty"`
}

type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	ResourceURI string    `json:"resource_uri"`
	Count       int       `json:"count"`
}

func (s *Server) registerResources() {
	s.registerHistoryResource()
	s.registerStatusResource()
}

func (s *Server) registerHistoryResource() {
	res := &mcp.Resource{
		URI:         "gitpush://history",
		Name:        "Recent Runs",
		Description: "Last 20 recorded push runs from the local SQLite database.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		records, err := s.store.QueryRuns(ctx, db.RunQuery{Limit: 20})
		if err != nil {
			return nil, err
		}
		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       len(records),
			},
			Data: records,
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func (s *Server) registerStatusResource() {
	res := &mcp.Resource{
		URI:         "gitpush://status",
		Name:        "Gitpush Status",
		Description: "Configuration and database summary for the gitpush CLI.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       1,
			},
			Data: s.status(),
			Links: map[string]string{
				"history": "gitpush://history",
			},
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func (s *Server) status() map[string]interface{} {
	return map[string]interface{}{
		"config": map[string]interface{}{
			"path":            s.cfgPath,
			"git_binary":      s.cfg.Binary(),
			"history_enabled": s.cfg.HistoryEnabled(),
		},
		"push": map[string]interface{}{
			"remote": automator.Remote,
			"branch": automator.Branch,
		},
		"database": map[string]interface{}{
			"path": s.dbPath,
		},
		"timestamp": time.Now(),
	}
}

func buildResourceResult(uri string, payload ResourcePayload) (*mcp.ReadResourceResult, error) {
	bytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(bytes),
			},
		},
	}, nil
}
