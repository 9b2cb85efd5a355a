package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/dcp"
	"github.com/njchilds90/dcp/internal/lawspec"
)

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func newTestHandlers(t *testing.T, law *lawspec.Spec) *Handlers {
	t.Helper()
	engine, err := dcp.New(dcp.DefaultConfig())
	require.NoError(t, err)
	return NewHandlers(engine, law)
}

func resultJSON(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

type errorPayload struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestHandleReflect(t *testing.T) {
	h := newTestHandlers(t, nil)
	res, err := h.HandleReflect(context.Background(), makeRequest(map[string]any{"z": 3.5}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out struct {
		N        int       `json:"n"`
		ZFinal   float64   `json:"z_final"`
		Instants []float64 `json:"instants"`
	}
	resultJSON(t, res, &out)
	assert.Equal(t, 2, out.N)
	assert.InDelta(t, -0.5, out.ZFinal, 1e-10)
	assert.Len(t, out.Instants, 2)
}

func TestHandleReflect_Errors(t *testing.T) {
	h := newTestHandlers(t, nil)
	tests := []struct {
		name string
		args map[string]any
		code string
	}{
		{"selector", map[string]any{"z": 1.0, "selector": 7}, "INVALID_SELECTOR"},
		{"law kind", map[string]any{"z": 1.0, "law": map[string]any{"kind": "warp"}}, "INVALID_ARGUMENT"},
		{"bad type", map[string]any{"z": "far"}, "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.HandleReflect(context.Background(), makeRequest(tt.args))
			require.NoError(t, err)
			require.True(t, res.IsError)
			var payload errorPayload
			resultJSON(t, res, &payload)
			assert.Equal(t, tt.code, payload.Error.Code)
		})
	}
}

func TestHandleMoore_RequestLawWins(t *testing.T) {
	h := newTestHandlers(t, &lawspec.Spec{Kind: lawspec.KindStatic, L0: 2})

	res, err := h.HandleMoore(context.Background(), makeRequest(map[string]any{"z": 3.0}))
	require.NoError(t, err)
	var out map[string]float64
	resultJSON(t, res, &out)
	assert.InDelta(t, 1.5, out["r"], 1e-10)

	res, err = h.HandleMoore(context.Background(), makeRequest(map[string]any{
		"z":   3.0,
		"law": map[string]any{"kind": "static", "l0": 1},
	}))
	require.NoError(t, err)
	resultJSON(t, res, &out)
	assert.InDelta(t, 3.0, out["r"], 1e-10)
}

func TestHandleBogoliubov(t *testing.T) {
	h := newTestHandlers(t, nil)
	res, err := h.HandleBogoliubov(context.Background(), makeRequest(map[string]any{"t": 0.2, "n": 1, "m": 1}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out struct {
		Alpha struct{ Re, Im, Abs float64 } `json:"alpha"`
		Beta  struct{ Re, Im, Abs float64 } `json:"beta"`
	}
	resultJSON(t, res, &out)
	assert.InDelta(t, 1, out.Alpha.Abs, 1e-5)
	assert.Less(t, out.Beta.Abs, 1e-5)

	res, err = h.HandleBogoliubov(context.Background(), makeRequest(map[string]any{"t": 0.2, "n": 1, "m": 1, "b": 0.7}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	var payload errorPayload
	resultJSON(t, res, &payload)
	assert.Equal(t, "INVALID_BOUNDARY_CONDITION", payload.Error.Code)
	assert.Equal(t, 0.7, payload.Error.Details["b"])
}

func TestHandleQuanta(t *testing.T) {
	h := newTestHandlers(t, nil)
	res, err := h.HandleQuanta(context.Background(), makeRequest(map[string]any{"t": 0.2, "n": 1, "m": 2}))
	require.NoError(t, err)
	var out struct {
		Quanta float64 `json:"quanta"`
	}
	resultJSON(t, res, &out)
	assert.Less(t, out.Quanta, 1e-10)
}

func TestHandleSpectrum(t *testing.T) {
	h := newTestHandlers(t, nil)

	res, err := h.HandleSpectrum(context.Background(), makeRequest(map[string]any{"t": 0.5, "n": 1, "mmax": 2}))
	require.NoError(t, err)
	var mode dcp.ModeSum
	resultJSON(t, res, &mode)
	assert.Equal(t, 2, mode.LastMode)

	res, err = h.HandleSpectrum(context.Background(), makeRequest(map[string]any{"t": 0.5, "nmax": 2, "mmax": 2}))
	require.NoError(t, err)
	var total dcp.TimeSum
	resultJSON(t, res, &total)
	assert.Equal(t, 2, total.LastN)
	assert.Len(t, total.Modes, 2)
}

func TestHandleSpectrum_Canceled(t *testing.T) {
	h := newTestHandlers(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.HandleSpectrum(ctx, makeRequest(map[string]any{"t": 0.5, "nmax": 3, "mmax": 3}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	var payload errorPayload
	resultJSON(t, res, &payload)
	assert.Equal(t, "CANCELED", payload.Error.Code)
}

func TestHandleEnergy(t *testing.T) {
	h := newTestHandlers(t, nil)
	res, err := h.HandleEnergy(context.Background(), makeRequest(map[string]any{"t": 0.1}))
	require.NoError(t, err)
	var out map[string]float64
	resultJSON(t, res, &out)
	assert.InDelta(t, 0, out["energy"], 1e-9)
}

func TestToolRegistry(t *testing.T) {
	names := []string{"dcp_reflect", "dcp_moore", "dcp_bogoliubov", "dcp_quanta", "dcp_spectrum", "dcp_energy"}
	assert.Len(t, toolRegistry, len(names))
	for _, name := range names {
		entry, ok := toolRegistry[name]
		require.True(t, ok, name)
		assert.Equal(t, name, entry.def.Name)
	}

	assert.NotNil(t, newServer(newTestHandlers(t, nil), "test"))
}

func TestTraced_PassesThrough(t *testing.T) {
	h := newTestHandlers(t, nil)
	handler := traced("dcp_moore", h.HandleMoore)
	res, err := handler(context.Background(), makeRequest(map[string]any{"z": 0.5}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestRecoverer(t *testing.T) {
	h := recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
