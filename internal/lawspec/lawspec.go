// Package lawspec turns declarative motion-law descriptions into dcp laws.
package lawspec

import (
	"encoding/json"
	"fmt"

	"github.com/njchilds90/dcp"
	"github.com/njchilds90/dcp/symbolic"
)

// Kinds of law a Spec can describe.
const (
	KindStatic     = "static"
	KindSinusoidal = "sinusoidal"
	KindLogCosh    = "logcosh"
	KindLaw1994    = "law1994"
	KindExpr       = "expr"
)

// Spec describes a law of motion. Only the fields of its Kind are read.
type Spec struct {
	Kind string  `json:"kind"`
	L0   float64 `json:"l0,omitempty"`

	// sinusoidal: L0*(1 + E*sin(Q*pi*t/L0)^S); logcosh: L0 + E*ln(cosh t)
	E float64 `json:"e,omitempty"`
	Q float64 `json:"q,omitempty"`
	S int     `json:"s,omitempty"`

	// law1994
	Theta float64 `json:"theta,omitempty"`

	// Tmax bounds the motion to [0, Tmax] for sinusoidal and expr laws.
	Tmax float64 `json:"tmax,omitempty"`

	// expr: a symbolic expression tree in the symbolic JSON encoding.
	Variable string          `json:"variable,omitempty"`
	Expr     json.RawMessage `json:"expr,omitempty"`
}

// Parse decodes a JSON Spec.
func Parse(data []byte) (Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return Spec{}, invalid("decode law: %v", err)
	}
	return s, nil
}

// Build constructs the law. An empty Kind means a static cavity.
func (s Spec) Build() (dcp.Law, error) {
	l0 := s.L0
	if l0 == 0 && s.Kind != KindExpr {
		l0 = 1
	}
	switch s.Kind {
	case "", KindStatic:
		if l0 <= 0 {
			return nil, invalid("l0 must be positive, got %v", l0)
		}
		return dcp.Static{L0: l0}, nil
	case KindSinusoidal:
		power := s.S
		if power == 0 {
			power = 1
		}
		return symbolicLaw(dcp.Sinusoidal(l0, s.E, s.Q, power, dcp.Window{Tmax: s.Tmax}))
	case KindLogCosh:
		return symbolicLaw(dcp.LogCosh(l0, s.E))
	case KindLaw1994:
		return symbolicLaw(dcp.Law1994(l0, s.Theta))
	case KindExpr:
		if len(s.Expr) == 0 {
			return nil, invalid("expr law needs an expression")
		}
		expr, err := symbolic.ParseJSON(s.Expr)
		if err != nil {
			return nil, &dcp.Error{Code: dcp.ErrInvalidArgument, Message: "parse law expression", Err: err}
		}
		variable := s.Variable
		if variable == "" {
			variable = "t"
		}
		return symbolicLaw(dcp.NewSymbolicLaw(expr, variable, dcp.Window{Tmax: s.Tmax}))
	default:
		return nil, invalid("unknown law kind %q", s.Kind)
	}
}

// Merge returns overlay when it names a kind, base otherwise.
func Merge(base, overlay *Spec) *Spec {
	if overlay != nil && overlay.Kind != "" {
		return overlay
	}
	return base
}

// symbolicLaw keeps a nil *SymbolicLaw out of the Law interface.
func symbolicLaw(law *dcp.SymbolicLaw, err error) (dcp.Law, error) {
	if err != nil {
		return nil, err
	}
	return law, nil
}

func invalid(format string, args ...any) *dcp.Error {
	return &dcp.Error{Code: dcp.ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
