package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/treeflat"
	"github.com/aretw0/treeflat/internal/presentation/graph"
	httpAdapter "github.com/aretw0/treeflat/pkg/adapters/http"
	"github.com/aretw0/treeflat/pkg/adapters/memory"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine is the part of treeflat.Engine the server depends on.
type Engine interface {
	FlattenText(ctx context.Context, text string, opts ...treeflat.Option) ([]string, treeflat.Stats, error)
}

// FlattenArgs are the arguments of the flatten_tree tool.
type FlattenArgs struct {
	Tree       string `json:"tree"`
	Root       *int   `json:"root,omitempty"`
	VisitLimit *int   `json:"visit_limit,omitempty"`
}

// FlattenResult is the structured output of the flatten_tree tool.
type FlattenResult struct {
	Rules []string       `json:"rules" jsonschema_description:"One rule per reachable leaf, in traversal order"`
	Stats treeflat.Stats `json:"stats" jsonschema_description:"Traversal statistics"`
}

// Server wraps the treeflat Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("treeflat-mcp", strings.TrimSpace(treeflat.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over Server-Sent Events on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	return httpAdapter.ListenAndServe(ctx, addr, mux, s.logger)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: flatten_tree
	flattenTool := mcp.NewTool("flatten_tree",
		mcp.WithDescription("Flatten a decision tree into one rule per reachable leaf. "+
			"Each line of the tree is either '<id>:[<cond> ||or|| <cond>] yes=<id>,no=<id>' or '<id>:leaf=<value>'."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("The tree, one node per line")),
		mcp.WithNumber("root", mcp.Description("Entry node id (default 0)")),
		mcp.WithNumber("visit_limit", mcp.Description("Abort after this many node visits (default unlimited)")),
		mcp.WithOutputSchema[FlattenResult](),
	)
	s.mcpServer.AddTool(flattenTool, mcp.NewStructuredToolHandler(s.handleFlatten))

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render a decision tree as a Mermaid flowchart."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("The tree, one node per line")),
	), s.handleRenderGraph)
}

func (s *Server) handleFlatten(ctx context.Context, request mcp.CallToolRequest, args FlattenArgs) (FlattenResult, error) {
	var opts []treeflat.Option
	if args.Root != nil {
		opts = append(opts, treeflat.WithRoot(domain.NodeID(*args.Root)))
	}
	if args.VisitLimit != nil {
		opts = append(opts, treeflat.WithVisitLimit(*args.VisitLimit))
	}

	lines, stats, err := s.engine.FlattenText(ctx, args.Tree, opts...)
	if err != nil {
		s.logger.Warn("MCP flatten_tree failed", "error", err)
		return FlattenResult{}, fmt.Errorf("flatten failed: %w", err)
	}
	if lines == nil {
		lines = []string{}
	}
	return FlattenResult{Rules: lines, Stats: stats}, nil
}

func (s *Server) handleRenderGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := request.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	nodes, err := graph.Collect(ctx, memory.FromText(tree))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(nodes, nil)), nil
}
