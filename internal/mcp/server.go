// ABOUTME: MCP server setup and initialization.
// ABOUTME: Wires together tools, resources, and the git runner.
package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/gitpush/internal/automator"
	"github.com/harper/gitpush/internal/config"
	"github.com/harper/gitpush/internal/db"
	"github.com/harper/gitpush/internal/gitexec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Server wraps the MCP runtime and gitpush integrations.
type Server struct {
	mcp     *mcp.Server
	cfg     *config.Config
	cfgPath string
	store   *db.Store
	dbPath  string
	logger  zerolog.Logger

	newExecutor func(dir string) gitexec.Executor
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the debug logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer sets up the MCP server with all tools and resources.
func NewServer(cfg *config.Config, cfgPath string, store *db.Store, dbPath string, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("database store is required")
	}

	impl := &mcp.Implementation{Name: "gitpush", Version: "1.0.0"}
	srv := mcp.NewServer(impl, nil)

	server := &Server{
		mcp:     srv,
		cfg:     cfg,
		cfgPath: cfgPath,
		store:   store,
		dbPath:  dbPath,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.newExecutor = server.defaultExecutor

	server.registerTools()
	server.registerResources()

	return server, nil
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	return s.mcp.Run(ctx, transport)
}

// defaultExecutor runs git inside dir without touching the process working
// directory. Stdio carries the protocol, so git must never prompt.
func (s *Server) defaultExecutor(dir string) gitexec.Executor {
	return gitexec.NewRunner(
		gitexec.WithDir(dir),
		gitexec.WithEnv("GIT_TERMINAL_PROMPT=0"),
		gitexec.WithLogger(s.logger),
	)
}

func (s *Server) newAutomator(dir string, transcript io.Writer) *automator.Automator {
	return automator.New(s.newExecutor(dir), transcript,
		automator.WithBinary(s.cfg.Binary()),
		automator.WithInteractivePush(false),
		automator.WithLogger(s.logger),
	)
}
