// Package dcp computes particle creation in a one-dimensional cavity with a
// moving mirror (the dynamical Casimir effect).
//
// A null line ending at z is traced backwards through its reflections off
// the moving boundary L(t). The reflection count and the final position give
// Moore's function R, from which the Bogoliubov coefficients and the number
// of created particles follow by quadrature.
//
// Quick start:
//
//	law, _ := dcp.Sinusoidal(1, 0.1, 2, 1, dcp.Window{})
//	r, _ := dcp.Moore(law, 3.2)
//	beta, _ := dcp.Beta(1.5, 1, 1, dcp.DirichletDirichlet, law)
package dcp

import "math"

// Engine runs every computation of the package with one Config. An Engine is
// immutable and safe for concurrent use.
type Engine struct {
	cfg Config
}

// New returns an Engine for cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

var std = &Engine{cfg: DefaultConfig()}

// Default returns the engine behind the package-level functions.
func Default() *Engine { return std }

func (e *Engine) quadOptions() QuadOptions {
	return QuadOptions{EpsAbs: e.cfg.QuadEpsAbs, EpsRel: e.cfg.QuadEpsRel, Limit: e.cfg.QuadLimit}
}

// quad integrates with the engine tolerances and warns when the subdivision
// limit is reached.
func (e *Engine) quad(f Integrand, a, b float64) (float64, error) {
	res, err := Integrate(f, a, b, e.quadOptions())
	if err != nil {
		return 0, err
	}
	if !res.Converged {
		e.cfg.warnf("dcp: quadrature on [%g, %g] stopped at %d subintervals, abserr %.3g",
			a, b, res.Intervals, res.AbsErr)
	}
	return res.Value, nil
}

func restLength(law Law) (float64, error) {
	l0 := law.L(0)
	if !(l0 > 0) || math.IsInf(l0, 0) {
		return 0, newInvalidArgument("law must have a positive finite L(0)")
	}
	return l0, nil
}

// ReflectionCounter runs Engine.ReflectionCounter on the default engine.
func ReflectionCounter(law Law, z float64, s Selector) (ReflectionResult, error) {
	return std.ReflectionCounter(law, z, s)
}

// Reflections runs Engine.Reflections on the default engine.
func Reflections(law Law, z float64) (ReflectionResult, error) {
	return std.Reflections(law, z)
}

// Moore runs Engine.Moore on the default engine.
func Moore(law Law, z float64) (float64, error) { return std.Moore(law, z) }

// ATilde runs Engine.ATilde on the default engine.
func ATilde(law Law, z float64) (float64, error) { return std.ATilde(law, z) }

// BTilde runs Engine.BTilde on the default engine.
func BTilde(law Law, z float64) (float64, error) { return std.BTilde(law, z) }

// H runs Engine.H on the default engine.
func H(hs func(float64) float64, law Law, z float64) (float64, error) {
	return std.H(hs, law, z)
}

// G runs Engine.G on the default engine.
func G(gs func(float64) float64, law, deriv Law, z float64) (float64, error) {
	return std.G(gs, law, deriv, z)
}

// Alpha runs Engine.Alpha on the default engine.
func Alpha(t float64, m, n int, b float64, law Law) (complex128, error) {
	return std.Alpha(t, m, n, b, law)
}

// Beta runs Engine.Beta on the default engine.
func Beta(t float64, m, n int, b float64, law Law) (complex128, error) {
	return std.Beta(t, m, n, b, law)
}

// EnergyDD runs Engine.EnergyDD on the default engine.
func EnergyDD(t float64, law Law) (float64, error) { return std.EnergyDD(t, law) }
