package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func lawOption() mcp.ToolOption {
	return mcp.WithObject("law",
		mcp.Description(`Law of motion, e.g. {"kind":"sinusoidal","l0":1,"e":0.1,"q":2,"s":1}. `+
			`Kinds: static, sinusoidal, logcosh, law1994, expr. Defaults to the configured law or a static cavity with l0=1.`),
	)
}

func modeOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("t", mcp.Required(), mcp.Description("Time")),
		mcp.WithNumber("n", mcp.Required(), mcp.Description("Mode n")),
		mcp.WithNumber("m", mcp.Required(), mcp.Description("Mode m")),
		mcp.WithNumber("b", mcp.Description("Boundary condition: 0 Dirichlet-Dirichlet (default), 0.5 Neumann-Dirichlet")),
	}
}

var reflectToolDef = mcp.NewTool("dcp_reflect",
	mcp.WithDescription("Trace the null line ending at z back through its reflections off the moving mirror."),
	lawOption(),
	mcp.WithNumber("z", mcp.Required(), mcp.Description("End point of the null line")),
	mcp.WithNumber("selector", mcp.Description("1 count, 2 final position, 3 both, 4 all (default)")),
)

var mooreToolDef = mcp.NewTool("dcp_moore",
	mcp.WithDescription("Evaluate Moore's function R(z) = 2N + z_final/L0."),
	lawOption(),
	mcp.WithNumber("z", mcp.Required(), mcp.Description("Argument of R")),
)

var bogoliubovToolDef = mcp.NewTool("dcp_bogoliubov",
	append([]mcp.ToolOption{
		mcp.WithDescription("Bogoliubov coefficients alpha_mn(t) and beta_mn(t)."),
		lawOption(),
	}, modeOptions()...)...,
)

var quantaToolDef = mcp.NewTool("dcp_quanta",
	append([]mcp.ToolOption{
		mcp.WithDescription("Number of quanta |beta_nm(t)|^2 for one pair of modes."),
		lawOption(),
	}, modeOptions()...)...,
)

var spectrumToolDef = mcp.NewTool("dcp_spectrum",
	mcp.WithDescription("Number of created particles at time t. With n, the sum over m for that mode; without, the total over n."),
	lawOption(),
	mcp.WithNumber("t", mcp.Required(), mcp.Description("Time")),
	mcp.WithNumber("b", mcp.Description("Boundary condition: 0 (default) or 0.5")),
	mcp.WithNumber("n", mcp.Description("Single mode n")),
	mcp.WithNumber("nmax", mcp.Description("Largest mode n of the total (default 10)")),
	mcp.WithNumber("mmax", mcp.Description("Largest mode m of each mode sum (default 30)")),
)

var energyToolDef = mcp.NewTool("dcp_energy",
	mcp.WithDescription("Energy in a Dirichlet-Dirichlet cavity at time t, relative to the static Casimir energy."),
	lawOption(),
	mcp.WithNumber("t", mcp.Required(), mcp.Description("Time")),
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"dcp_reflect": {
		def:     reflectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReflect },
	},
	"dcp_moore": {
		def:     mooreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMoore },
	},
	"dcp_bogoliubov": {
		def:     bogoliubovToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBogoliubov },
	},
	"dcp_quanta": {
		def:     quantaToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleQuanta },
	},
	"dcp_spectrum": {
		def:     spectrumToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSpectrum },
	},
	"dcp_energy": {
		def:     energyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEnergy },
	},
}

// newServer creates the MCP server with every tool registered.
func newServer(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"dcp",
		version,
		server.WithToolCapabilities(true),
	)
	for name, entry := range toolRegistry {
		s.AddTool(entry.def, traced(name, entry.handler(h)))
	}
	return s
}
