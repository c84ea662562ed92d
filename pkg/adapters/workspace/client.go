package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/ports"
	"github.com/google/uuid"
)

// Client implements ports.ObjectStore against a Workspace service using JSON-RPC 1.1 over HTTP.
type Client struct {
	url    string
	token  string
	http   *http.Client
	logger *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken sets the auth token sent with every call.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger configures a logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Workspace client for the service at url.
// The default HTTP client has no timeout; calls block until the service answers or ctx is done.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		http:   &http.Client{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory returns a ports.StoreFactory building one client per caller token.
func Factory(url string, opts ...Option) ports.StoreFactory {
	return func(token string) ports.ObjectStore {
		withToken := append(append([]Option{}, opts...), WithToken(token))
		return New(url, withToken...)
	}
}

type objectIdentity struct {
	Ref string `json:"ref"`
}

// GetObjects calls Workspace.get_objects.
func (c *Client) GetObjects(ctx context.Context, refs []string) ([]domain.ObjectData, error) {
	ids := make([]objectIdentity, len(refs))
	for i, ref := range refs {
		ids[i] = objectIdentity{Ref: ref}
	}

	var result [][]domain.ObjectData
	if err := c.call(ctx, "Workspace.get_objects", []any{ids}, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 || len(result[0]) != len(refs) {
		return nil, fmt.Errorf("get_objects: unexpected result size")
	}
	return result[0], nil
}

// SaveObjects calls Workspace.save_objects.
func (c *Client) SaveObjects(ctx context.Context, params domain.SaveObjectsParams) ([]domain.ObjectInfo, error) {
	var result [][]domain.ObjectInfo
	if err := c.call(ctx, "Workspace.save_objects", []any{params}, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 || len(result[0]) != len(params.Objects) {
		return nil, fmt.Errorf("save_objects: unexpected result size")
	}
	return result[0], nil
}

type rpcRequest struct {
	Version string `json:"version"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      string `json:"id"`
}

type rpcResponse struct {
	Version string          `json:"version"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      string          `json:"id"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		Version: "1.1",
		Method:  method,
		Params:  params,
		ID:      uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", method, err)
	}
	c.logger.Debug("Workspace call", "method", method, "status", resp.StatusCode, "duration", time.Since(start))

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
		}
		return fmt.Errorf("%s: failed to decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}
	if err := domain.DecodeJSON(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%s: failed to decode result: %w", method, err)
	}
	return nil
}
