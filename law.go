package dcp

import (
	"fmt"
	"math"

	"github.com/njchilds90/dcp/symbolic"
)

// Law is the law of motion of the right boundary. L(0) is the rest length
// L0 > 0 and the boundary must stay sub-luminal, |DL(t)| < 1.
//
// Implementations must be pure and safe for concurrent use: the engine calls
// them from several goroutines when Config.Workers > 1.
type Law interface {
	L(t float64) float64
	DL(t float64) float64
	D2L(t float64) float64
	D3L(t float64) float64
}

// Window is the interval [0, Tmax] in which a law moves. Outside it the
// boundary rests at L0 with zero derivatives. Tmax <= 0 disables the window;
// Tmax = +Inf only clamps t < 0.
type Window struct {
	Tmax float64 `json:"tmax,omitempty"`
}

func (w Window) active(t float64) bool {
	return w.Tmax <= 0 || (t >= 0 && t <= w.Tmax)
}

// Static is a cavity at rest.
type Static struct{ L0 float64 }

func (s Static) L(float64) float64   { return s.L0 }
func (s Static) DL(float64) float64  { return 0 }
func (s Static) D2L(float64) float64 { return 0 }
func (s Static) D3L(float64) float64 { return 0 }

// FuncLaw is a law given by closed-form closures.
type FuncLaw struct {
	Fn, DFn, D2Fn, D3Fn func(float64) float64
	Window             Window
}

func (f FuncLaw) L(t float64) float64 {
	if !f.Window.active(t) {
		return f.Fn(0)
	}
	return f.Fn(t)
}

func (f FuncLaw) DL(t float64) float64  { return f.eval(f.DFn, t) }
func (f FuncLaw) D2L(t float64) float64 { return f.eval(f.D2Fn, t) }
func (f FuncLaw) D3L(t float64) float64 { return f.eval(f.D3Fn, t) }

func (f FuncLaw) eval(fn func(float64) float64, t float64) float64 {
	if !f.Window.active(t) {
		return 0
	}
	return fn(t)
}

// SymbolicLaw differentiates an expression three times at construction and
// evaluates compiled closures afterwards.
type SymbolicLaw struct {
	expr   symbolic.Expr
	fns    [4]symbolic.Func1
	l0     float64
	window Window
}

// NewSymbolicLaw builds a law from expr, whose only free symbol must be
// variable.
func NewSymbolicLaw(expr symbolic.Expr, variable string, window Window) (*SymbolicLaw, error) {
	for _, name := range symbolic.FreeSymbols(expr) {
		if name != variable {
			return nil, newInvalidArgument(fmt.Sprintf("law has unbound parameter %q", name))
		}
	}
	law := &SymbolicLaw{expr: expr.Simplify(), window: window}
	e := law.expr
	for k := 0; k < 4; k++ {
		fn, err := symbolic.Compile(e, variable)
		if err != nil {
			return nil, &Error{Code: ErrInvalidArgument, Message: "compile law", Err: err}
		}
		law.fns[k] = fn
		e = symbolic.Diff(e, variable)
	}
	law.l0 = law.fns[0](0)
	if !(law.l0 > 0) || math.IsInf(law.l0, 0) {
		return nil, newInvalidArgument(fmt.Sprintf("L(0) must be positive and finite, got %v", law.l0))
	}
	return law, nil
}

// Expr returns the law expression.
func (s *SymbolicLaw) Expr() symbolic.Expr { return s.expr }

func (s *SymbolicLaw) L(t float64) float64 {
	if !s.window.active(t) {
		return s.l0
	}
	return s.fns[0](t)
}

func (s *SymbolicLaw) DL(t float64) float64  { return s.deriv(1, t) }
func (s *SymbolicLaw) D2L(t float64) float64 { return s.deriv(2, t) }
func (s *SymbolicLaw) D3L(t float64) float64 { return s.deriv(3, t) }

func (s *SymbolicLaw) deriv(k int, t float64) float64 {
	if !s.window.active(t) {
		return 0
	}
	return s.fns[k](t)
}

// Sinusoidal returns L0*(1 + e*sin(q*pi*t/L0)^s).
func Sinusoidal(l0, e, q float64, s int, window Window) (*SymbolicLaw, error) {
	if !(l0 > 0) {
		return nil, newInvalidArgument("L0 must be positive")
	}
	t := symbolic.S("t")
	arg := symbolic.MulOf(symbolic.NFloat(q/l0), symbolic.Pi, t)
	expr := symbolic.MulOf(symbolic.NFloat(l0), symbolic.AddOf(
		symbolic.N(1),
		symbolic.MulOf(symbolic.NFloat(e), symbolic.PowOf(symbolic.SinOf(arg), symbolic.N(int64(s)))),
	))
	return NewSymbolicLaw(expr, "t", window)
}

// LogCosh returns L0 + e*ln(cosh(t)).
func LogCosh(l0, e float64) (*SymbolicLaw, error) {
	t := symbolic.S("t")
	expr := symbolic.AddOf(symbolic.NFloat(l0), symbolic.MulOf(symbolic.NFloat(e), symbolic.LnOf(symbolic.CoshOf(t))))
	return NewSymbolicLaw(expr, "t", Window{})
}

// Law1994 returns L0 + L0/(2pi)*(asin(sin(theta)*cos(2pi*t/L0)) - theta),
// resting at L0 before t = 0.
func Law1994(l0, theta float64) (*SymbolicLaw, error) {
	if !(l0 > 0) {
		return nil, newInvalidArgument("L0 must be positive")
	}
	t := symbolic.S("t")
	wave := symbolic.CosOf(symbolic.MulOf(symbolic.NFloat(2/l0), symbolic.Pi, t))
	swing := symbolic.AddOf(
		symbolic.AsinOf(symbolic.MulOf(symbolic.NFloat(math.Sin(theta)), wave)),
		symbolic.NFloat(-theta),
	)
	expr := symbolic.AddOf(symbolic.NFloat(l0), symbolic.MulOf(symbolic.NFloat(l0/(2*math.Pi)), swing))
	return NewSymbolicLaw(expr, "t", Window{Tmax: math.Inf(1)})
}
