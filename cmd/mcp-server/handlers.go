package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/njchilds90/dcp"
	"github.com/njchilds90/dcp/internal/lawspec"
	"github.com/njchilds90/dcp/internal/runid"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	engine *dcp.Engine
	law    *lawspec.Spec
}

// NewHandlers creates a new Handlers instance. law is used when a request
// does not describe one; nil means a static cavity with L0 = 1.
func NewHandlers(engine *dcp.Engine, law *lawspec.Spec) *Handlers {
	return &Handlers{engine: engine, law: law}
}

// Request types for each tool

// ReflectRequest represents the arguments for dcp_reflect.
type ReflectRequest struct {
	Law      *lawspec.Spec `json:"law,omitempty"`
	Z        float64       `json:"z"`
	Selector int           `json:"selector,omitempty"`
}

// MooreRequest represents the arguments for dcp_moore.
type MooreRequest struct {
	Law *lawspec.Spec `json:"law,omitempty"`
	Z   float64       `json:"z"`
}

// ModeRequest represents the arguments for dcp_bogoliubov and dcp_quanta.
type ModeRequest struct {
	Law *lawspec.Spec `json:"law,omitempty"`
	T   float64       `json:"t"`
	N   int           `json:"n"`
	M   int           `json:"m"`
	B   float64       `json:"b,omitempty"`
}

// SpectrumRequest represents the arguments for dcp_spectrum.
type SpectrumRequest struct {
	Law  *lawspec.Spec `json:"law,omitempty"`
	T    float64       `json:"t"`
	B    float64       `json:"b,omitempty"`
	N    *int          `json:"n,omitempty"`
	Nmax int           `json:"nmax,omitempty"`
	Mmax int           `json:"mmax,omitempty"`
}

// EnergyRequest represents the arguments for dcp_energy.
type EnergyRequest struct {
	Law *lawspec.Spec `json:"law,omitempty"`
	T   float64       `json:"t"`
}

// HandleReflect handles dcp_reflect.
func (h *Handlers) HandleReflect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[ReflectRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	law, err := h.buildLaw(in.Law)
	if err != nil {
		return errorResult(err), nil
	}
	sel := dcp.Selector(in.Selector)
	if in.Selector == 0 {
		sel = dcp.SelectAll
	}
	res, err := h.engine.ReflectionCounter(law, in.Z, sel)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(res)
}

// HandleMoore handles dcp_moore.
func (h *Handlers) HandleMoore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[MooreRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	law, err := h.buildLaw(in.Law)
	if err != nil {
		return errorResult(err), nil
	}
	r, err := h.engine.Moore(law, in.Z)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]float64{"z": in.Z, "r": r})
}

// HandleBogoliubov handles dcp_bogoliubov.
func (h *Handlers) HandleBogoliubov(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[ModeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	law, err := h.buildLaw(in.Law)
	if err != nil {
		return errorResult(err), nil
	}
	coef, err := h.engine.Bogoliubov(in.T, in.M, in.N, in.B, law)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(coef)
}

// HandleQuanta handles dcp_quanta.
func (h *Handlers) HandleQuanta(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[ModeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	law, err := h.buildLaw(in.Law)
	if err != nil {
		return errorResult(err), nil
	}
	q, err := h.engine.NQuantaPerMode(in.T, in.N, in.M, in.B, law)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"n": in.N, "m": in.M, "quanta": q})
}

// HandleSpectrum handles dcp_spectrum.
func (h *Handlers) HandleSpectrum(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[SpectrumRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	law, err := h.buildLaw(in.Law)
	if err != nil {
		return errorResult(err), nil
	}
	if in.Nmax == 0 {
		in.Nmax = 10
	}
	if in.Mmax == 0 {
		in.Mmax = 30
	}
	if in.N != nil {
		sum, err := h.engine.NParticlesPerMode(ctx, in.T, *in.N, in.B, law, in.Mmax)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(sum)
	}
	sum, err := h.engine.NParticlesPerTime(ctx, in.T, law, in.B, in.Nmax, in.Mmax)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(sum)
}

// HandleEnergy handles dcp_energy.
func (h *Handlers) HandleEnergy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[EnergyRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	law, err := h.buildLaw(in.Law)
	if err != nil {
		return errorResult(err), nil
	}
	e, err := h.engine.EnergyDD(in.T, law)
	if err != nil {
		return errorResult(err), nil
	}
	l0 := law.L(0)
	return successResult(map[string]float64{
		"t":       in.T,
		"energy":  e,
		"tcas_dd": dcp.TcasDD(l0),
		"tcas_dn": dcp.TcasDN(l0),
	})
}

func (h *Handlers) buildLaw(spec *lawspec.Spec) (dcp.Law, error) {
	spec = lawspec.Merge(h.law, spec)
	if spec == nil {
		spec = &lawspec.Spec{Kind: lawspec.KindStatic}
	}
	return spec.Build()
}

// traced logs each tool call with a run id and its duration.
func traced(name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := runid.New()
		start := time.Now()
		res, err := next(ctx, req)
		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		log.Printf("[%s] %s %s in %s", id, name, status, time.Since(start).Round(time.Millisecond))
		return res, err
	}
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, &dcp.Error{Code: dcp.ErrInvalidArgument, Message: "marshal args", Err: err}
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, &dcp.Error{Code: dcp.ErrInvalidArgument, Message: fmt.Sprintf("unmarshal args: %v", err)}
	}
	return result, nil
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
func errorResult(err error) *mcp.CallToolResult {
	errorObj := map[string]any{
		"code":    "INTERNAL",
		"message": "an internal error occurred",
	}
	var dErr *dcp.Error
	if errors.As(err, &dErr) {
		errorObj["code"] = dErr.Code
		errorObj["message"] = dErr.Message
		if dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
	}

	content, mErr := json.Marshal(map[string]any{"error": errorObj})
	if mErr != nil {
		delete(errorObj, "details")
		content, _ = json.Marshal(map[string]any{"error": errorObj})
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
