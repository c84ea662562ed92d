package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/interpro2go"
	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
)

// rpcVersion is the protocol version spoken by KBase services.
const rpcVersion = "1.1"

// maxBodyBytes bounds the size of a request body.
const maxBodyBytes = 1 << 20

// Annotator is the operation exposed over JSON-RPC.
type Annotator interface {
	Interpro2GO(ctx context.Context, call domain.CallContext, params domain.Params) (*domain.Result, error)
}

// Request is a JSON-RPC 1.1 call envelope.
type Request struct {
	Version string            `json:"version"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      any               `json:"id"`
}

// Response is a JSON-RPC 1.1 reply envelope. Exactly one of Result and Error is set.
type Response struct {
	Version string `json:"version"`
	Result  []any  `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id"`
}

// Error is the error object of a failed call.
type Error struct {
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// Server serves the annotation method.
type Server struct {
	Annotator Annotator
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer exposes the collectors of g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the annotator.
func NewHandler(annotator Annotator, opts ...Option) http.Handler {
	server := &Server{
		Annotator: annotator,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/", server.Call)
	r.Post("/rpc", server.Call)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Call handles a JSON-RPC request.
func (s *Server) Call(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, nil, http.StatusBadRequest, &Error{
			Name:    "JSONRPCError",
			Code:    CodeParseError,
			Message: "Parse error",
			Detail:  err.Error(),
		})
		return
	}

	want := domain.ServiceName + "." + domain.MethodName
	if req.Method != want {
		s.writeError(w, req.ID, http.StatusNotFound, &Error{
			Name:    "JSONRPCError",
			Code:    CodeMethodNotFound,
			Message: "Method not found: " + req.Method,
		})
		return
	}
	if len(req.Params) != 1 {
		s.writeError(w, req.ID, http.StatusBadRequest, &Error{
			Name:    "JSONRPCError",
			Code:    CodeInvalidParams,
			Message: "Invalid params: expected exactly one argument",
		})
		return
	}

	var params domain.Params
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		s.writeError(w, req.ID, http.StatusBadRequest, &Error{
			Name:    "JSONRPCError",
			Code:    CodeInvalidParams,
			Message: "Invalid params",
			Detail:  err.Error(),
		})
		return
	}

	call := domain.CallContext{
		Token: bearerToken(r.Header.Get("Authorization")),
		Provenance: []domain.ProvenanceAction{{
			Service:      domain.ServiceName,
			Method:       domain.MethodName,
			MethodParams: []any{params},
			Time:         s.now().UTC().Format(time.RFC3339),
		}},
	}

	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
	logger.Info("rpc call", "method", req.Method)

	res, err := s.Annotator.Interpro2GO(r.Context(), call, params)
	if err != nil {
		logger.Error("rpc call failed", "method", req.Method, "error", err)
		code := CodeServerError
		if errors.Is(err, domain.ErrValidation) {
			code = CodeInvalidParams
		}
		s.writeError(w, req.ID, http.StatusInternalServerError, &Error{
			Name:    "Server error",
			Code:    code,
			Message: err.Error(),
		})
		return
	}

	s.write(w, http.StatusOK, Response{
		Version: rpcVersion,
		Result:  []any{res},
		ID:      req.ID,
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, map[string]string{
		"app":     "interpro2go-http",
		"service": domain.ServiceName,
		"version": strings.TrimSpace(interpro2go.Version),
	})
}

func (s *Server) writeError(w http.ResponseWriter, id any, status int, rpcErr *Error) {
	s.write(w, status, Response{
		Version: rpcVersion,
		Error:   rpcErr,
		ID:      id,
	})
}

func (s *Server) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// bearerToken accepts both a raw token and the "Bearer <token>" form.
func bearerToken(header string) string {
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(header)
}
