package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/navkit/calcontext-mcp/internal/codeindex"
	"github.com/navkit/calcontext-mcp/internal/loader"
	"github.com/navkit/calcontext-mcp/internal/refs"
	"github.com/navkit/calcontext-mcp/internal/symboldb"
)

const (
	// ServerName is the MCP server name
	ServerName = "calcontext-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Options carries the server's dependencies. Code may be nil when the code
// index is disabled; Lock may be shared with other shells over the same
// indexes and defaults to a private mutex.
type Options struct {
	DB     *symboldb.Database
	Refs   *refs.Index
	Code   *codeindex.Index
	Loader *loader.Loader
	Log    *zap.SugaredLogger
	Lock   *sync.RWMutex
}

// Server wraps the MCP server with the symbol database, the reference index
// and the code index. The indexes themselves are not goroutine-safe; every
// handler takes mu.
type Server struct {
	mcp     *server.MCPServer
	mu      *sync.RWMutex
	db      *symboldb.Database
	refIdx  *refs.Index
	codeIdx *codeindex.Index
	loader  *loader.Loader
	log     *zap.SugaredLogger

	lastReport *loader.Report
}

// NewServer creates a new MCP server instance over the given indexes.
func NewServer(opts Options) *Server {
	lock := opts.Lock
	if lock == nil {
		lock = &sync.RWMutex{}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		mu:      lock,
		db:      opts.DB,
		refIdx:  opts.Refs,
		codeIdx: opts.Code,
		loader:  opts.Loader,
		log:     log,
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown. stdout is
// protocol; all logging goes to stderr.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(loadObjectsTool(), s.handleLoadObjects)
	s.mcp.AddTool(searchObjectsTool(), s.handleSearchObjects)
	s.mcp.AddTool(getObjectTool(), s.handleGetObject)
	s.mcp.AddTool(getSummaryTool(), s.handleGetSummary)
	s.mcp.AddTool(getMembersTool(), s.handleGetMembers)
	s.mcp.AddTool(findReferencesTool(), s.handleFindReferences)
	s.mcp.AddTool(getDependencyGraphTool(), s.handleGetDependencyGraph)
	s.mcp.AddTool(getRelationMapTool(), s.handleGetRelationMap)
	s.mcp.AddTool(searchCodeTool(), s.handleSearchCode)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	s.mcp.AddTool(clearIndexTool(), s.handleClearIndex)
}
