package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAnnotator records the last call and returns a scripted result.
type mockAnnotator struct {
	result *domain.Result
	err    error

	call   domain.CallContext
	params domain.Params
	calls  int
}

func (m *mockAnnotator) Interpro2GO(ctx context.Context, call domain.CallContext, params domain.Params) (*domain.Result, error) {
	m.calls++
	m.call = call
	m.params = params
	return m.result, m.err
}

func post(t *testing.T, h http.Handler, body string, header map[string]string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

const validCall = `{"version":"1.1","method":"ElectronicAnnotationMethods.interpro2go","id":"42",
"params":[{"workspace":"ws","input_genome":"in","output_genome":"out"}]}`

func TestCall_Success(t *testing.T) {
	ann := &mockAnnotator{result: &domain.Result{
		ReportName:      "interpro2go_report_x",
		ReportRef:       "10/6/1",
		OutputGenomeRef: "10/5/2",
	}}
	h := NewHandler(ann)

	w, resp := post(t, h, validCall, map[string]string{"Authorization": "TOKEN"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "1.1", resp.Version)
	assert.Equal(t, "42", resp.ID)
	assert.Nil(t, resp.Error)

	require.Len(t, resp.Result, 1)
	assert.Equal(t, map[string]any{
		"report_name":       "interpro2go_report_x",
		"report_ref":        "10/6/1",
		"output_genome_ref": "10/5/2",
	}, resp.Result[0])

	assert.Equal(t, domain.Params{Workspace: "ws", InputGenome: "in", OutputGenome: "out"}, ann.params)
	assert.Equal(t, "TOKEN", ann.call.Token)
	require.Len(t, ann.call.Provenance, 1)
	assert.Equal(t, domain.ServiceName, ann.call.Provenance[0].Service)
	assert.Equal(t, domain.MethodName, ann.call.Provenance[0].Method)
	assert.NotEmpty(t, ann.call.Provenance[0].Time)
}

func TestCall_BearerToken(t *testing.T) {
	ann := &mockAnnotator{result: &domain.Result{}}
	post(t, NewHandler(ann), validCall, map[string]string{"Authorization": "Bearer abc"})
	assert.Equal(t, "abc", ann.call.Token)
}

func TestCall_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantHTTP int
		wantCode int
		wantMsg  string
		invoked  bool
	}{
		{
			name:     "Malformed JSON",
			body:     `{"version":`,
			wantHTTP: http.StatusBadRequest,
			wantCode: CodeParseError,
		},
		{
			name:     "Unknown method",
			body:     `{"version":"1.1","method":"ElectronicAnnotationMethods.nope","params":[{}],"id":1}`,
			wantHTTP: http.StatusNotFound,
			wantCode: CodeMethodNotFound,
			wantMsg:  "Method not found",
		},
		{
			name:     "Wrong arity",
			body:     `{"version":"1.1","method":"ElectronicAnnotationMethods.interpro2go","params":[],"id":1}`,
			wantHTTP: http.StatusBadRequest,
			wantCode: CodeInvalidParams,
		},
		{
			name:     "Validation failure",
			body:     validCall,
			err:      domain.MissingParam("workspace"),
			wantHTTP: http.StatusInternalServerError,
			wantCode: CodeInvalidParams,
			wantMsg:  "Parameter workspace is not set in input arguments",
			invoked:  true,
		},
		{
			name:     "Fetch failure",
			body:     validCall,
			err:      domain.FetchError("Genome", errors.New("no such object")),
			wantHTTP: http.StatusInternalServerError,
			wantCode: CodeServerError,
			wantMsg:  "error loading input Genome object from workspace: no such object",
			invoked:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := &mockAnnotator{err: tt.err}
			w, resp := post(t, NewHandler(ann), tt.body, nil)

			assert.Equal(t, tt.wantHTTP, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMsg)
			assert.Nil(t, resp.Result)
			if tt.invoked {
				assert.Equal(t, 1, ann.calls)
			} else {
				assert.Zero(t, ann.calls)
			}
		})
	}
}

func TestGetHealthAndInfo(t *testing.T) {
	h := NewHandler(&mockAnnotator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/info", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, domain.ServiceName, info["service"])
	assert.NotEmpty(t, info["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	metrics.ObserveFeatures(3)

	h := NewHandler(&mockAnnotator{}, WithGatherer(reg))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "interpro2go_features_projected")

	// Without a gatherer the route does not exist.
	w = httptest.NewRecorder()
	NewHandler(&mockAnnotator{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
