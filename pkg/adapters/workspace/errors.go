package workspace

import "fmt"

// RPCError is a JSON-RPC error returned by the Workspace service.
type RPCError struct {
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Detail holds the server side trace, when provided.
	Detail string `json:"error,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}
