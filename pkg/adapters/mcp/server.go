package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/interpro2go"
	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// InfoURI is the resource describing the running service.
const InfoURI = "interpro2go://info"

// Annotator is the operation exposed as an MCP tool.
type Annotator interface {
	Interpro2GO(ctx context.Context, call domain.CallContext, params domain.Params) (*domain.Result, error)
}

// Server wraps the annotation service and exposes it as an MCP Server.
type Server struct {
	annotator Annotator
	token     string
	logger    *slog.Logger
	now       func() time.Time
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithToken sets the Workspace token used for every tool call.
// MCP has no per-call credentials, so the token is fixed for the server's lifetime.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithLogger configures a logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(annotator Annotator, opts ...Option) *Server {
	s := &Server{
		annotator: annotator,
		logger:    logging.NewNop(),
		now:       time.Now,
		mcpServer: server.NewMCPServer("interpro2go-mcp", strings.TrimSpace(interpro2go.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	tool := mcp.NewTool(domain.MethodName,
		mcp.WithDescription("Annotate a KBase genome with InterProScan and save it under a new name, together with a report."),
		mcp.WithString("workspace", mcp.Required(), mcp.Description("Workspace holding the input genome; the output is saved there too")),
		mcp.WithString("input_genome", mcp.Required(), mcp.Description("Name of the input Genome object")),
		mcp.WithString("output_genome", mcp.Required(), mcp.Description("Name for the annotated Genome object")),
		mcp.WithOutputSchema[domain.Result](),
	)
	s.mcpServer.AddTool(tool, mcp.NewStructuredToolHandler(s.handleInterpro2GO))
}

func (s *Server) handleInterpro2GO(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Result, error) {
	var params domain.Params
	if err := mapstructure.Decode(args, &params); err != nil {
		return domain.Result{}, fmt.Errorf("invalid arguments: %w", err)
	}

	call := domain.CallContext{
		Token: s.token,
		Provenance: []domain.ProvenanceAction{{
			Service:      domain.ServiceName,
			Method:       domain.MethodName,
			MethodParams: []any{params},
			Description:  "invoked over MCP",
			Time:         s.now().UTC().Format(time.RFC3339),
		}},
	}

	res, err := s.annotator.Interpro2GO(ctx, call, params)
	if err != nil {
		s.logger.Error("MCP interpro2go failed", "error", err)
		return domain.Result{}, err
	}
	return *res, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(InfoURI, "Service information",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.info())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      InfoURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) info() map[string]string {
	return map[string]string{
		"service": domain.ServiceName,
		"method":  domain.MethodName,
		"version": strings.TrimSpace(interpro2go.Version),
	}
}
