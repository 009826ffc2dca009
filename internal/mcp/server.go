// Package mcp provides an MCP (Model Context Protocol) server for worddiff.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/PixelogicMedia/worddiff/internal/logging"
	"github.com/PixelogicMedia/worddiff/internal/pathutil"
	"github.com/PixelogicMedia/worddiff/internal/ratelimit"
	"github.com/PixelogicMedia/worddiff/pkg/convert"
	"github.com/PixelogicMedia/worddiff/pkg/customword"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

// Server wraps the MCP SDK server and exposes worddiff as tools.
type Server struct {
	server       *sdk.Server
	dispatcher   *customword.Dispatcher
	options      *word.Options
	format       convert.Format
	toolLimiters ratelimit.ToolLimiters
	allowedDirs  []string
	trace        *logging.TraceLog
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "worddiff")
	Version string // Server version

	// Dispatcher serves every diff. Its registry is what the pattern
	// tools read and write. Nil creates a private dispatcher.
	Dispatcher *customword.Dispatcher

	// Options are the per-call defaults; tool arguments override them.
	Options *word.Options

	// Format is the default rendering for worddiff_diff. Empty means xml.
	Format convert.Format

	// AllowedDirs bounds the files worddiff_diff may read. Relative
	// file arguments resolve against the first. Empty means the working
	// directory.
	AllowedDirs []string

	// TraceLog receives one record per diff. May be nil.
	TraceLog *logging.TraceLog

	Logger *slog.Logger
}

// NewServer creates a new MCP server with worddiff tools.
func NewServer(cfg *Config) (*Server, error) {
	format := cfg.Format
	if format == "" {
		format = convert.FormatXML
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	allowedDirs, err := pathutil.AllowedDirs(cfg.AllowedDirs...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve allowed directories: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dispatcher := cfg.Dispatcher
	if dispatcher == nil {
		dispatcher = customword.NewDispatcher(nil, logger)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:       mcpServer,
		dispatcher:   dispatcher,
		options:      cfg.Options.Clone(),
		format:       format,
		toolLimiters: ratelimit.NewToolLimiters(),
		allowedDirs:  allowedDirs,
		trace:        cfg.TraceLog,
		logger:       logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := s.server.Run(ctx, &sdk.StdioTransport{})
	s.logger.Debug("mcp server stopped", "error", err)

	s.Close()

	return err
}

// Close releases the trace log.
func (s *Server) Close() error {
	s.trace.Close()
	return nil
}
