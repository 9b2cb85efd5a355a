package dcp

import "log"

// Config holds the numerical knobs of the engine. The defaults reproduce the
// reference numbers; changing them changes results.
type Config struct {
	// BracketFactor is the geometric growth applied to the bracket while
	// searching for a sign change.
	BracketFactor float64 `json:"bracket_factor"`

	// BracketTries bounds the bracket expansion.
	BracketTries int `json:"bracket_tries"`

	// RootXTol, RootRTol and RootMaxIter control the Brent solver. The root
	// is accepted once the bracket is below RootXTol + RootRTol*|x|.
	RootXTol    float64 `json:"root_xtol"`
	RootRTol    float64 `json:"root_rtol"`
	RootMaxIter int     `json:"root_max_iter"`

	// QuadEpsAbs, QuadEpsRel and QuadLimit control the adaptive integrator.
	QuadEpsAbs float64 `json:"quad_epsabs,omitempty"`
	QuadEpsRel float64 `json:"quad_epsrel"`
	QuadLimit  int     `json:"quad_limit"`

	// ModeTol is the relative tolerance of the sum over m in
	// NParticlesPerMode.
	ModeTol float64 `json:"mode_tol"`

	// TimeTol is the relative tolerance of the sum over n in
	// NParticlesPerTime.
	TimeTol float64 `json:"time_tol"`

	// ConvergenceCount is the number of consecutive quiet terms that ends a
	// mode sum.
	ConvergenceCount int `json:"convergence_count"`

	// MaxReflections caps the reflection loop of a single null line.
	MaxReflections int `json:"max_reflections"`

	// Rebracket searches a fresh bracket for every reflection instead of
	// reusing the one found for the initial null line.
	Rebracket bool `json:"rebracket,omitempty"`

	// Workers > 1 evaluates mode-sum terms concurrently. Results do not
	// depend on it.
	Workers int `json:"workers,omitempty"`

	// Logger receives warnings such as an exhausted subdivision limit.
	// nil keeps the engine silent.
	Logger *log.Logger `json:"-"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		BracketFactor:    1.6,
		BracketTries:     50,
		RootXTol:         2e-12,
		RootRTol:         4 * machEps,
		RootMaxIter:      100,
		QuadEpsAbs:       0,
		QuadEpsRel:       1e-6,
		QuadLimit:        1000,
		ModeTol:          1e-3,
		TimeTol:          1e-4,
		ConvergenceCount: 5,
		MaxReflections:   1 << 20,
		Workers:          1,
	}
}

// MergeConfig combines base and overlay. Overlay values win when non-zero;
// booleans are OR-ed.
func MergeConfig(base, overlay Config) Config {
	out := base
	if overlay.BracketFactor != 0 {
		out.BracketFactor = overlay.BracketFactor
	}
	if overlay.BracketTries != 0 {
		out.BracketTries = overlay.BracketTries
	}
	if overlay.RootXTol != 0 {
		out.RootXTol = overlay.RootXTol
	}
	if overlay.RootRTol != 0 {
		out.RootRTol = overlay.RootRTol
	}
	if overlay.RootMaxIter != 0 {
		out.RootMaxIter = overlay.RootMaxIter
	}
	if overlay.QuadEpsAbs != 0 {
		out.QuadEpsAbs = overlay.QuadEpsAbs
	}
	if overlay.QuadEpsRel != 0 {
		out.QuadEpsRel = overlay.QuadEpsRel
	}
	if overlay.QuadLimit != 0 {
		out.QuadLimit = overlay.QuadLimit
	}
	if overlay.ModeTol != 0 {
		out.ModeTol = overlay.ModeTol
	}
	if overlay.TimeTol != 0 {
		out.TimeTol = overlay.TimeTol
	}
	if overlay.ConvergenceCount != 0 {
		out.ConvergenceCount = overlay.ConvergenceCount
	}
	if overlay.MaxReflections != 0 {
		out.MaxReflections = overlay.MaxReflections
	}
	if overlay.Workers != 0 {
		out.Workers = overlay.Workers
	}
	out.Rebracket = base.Rebracket || overlay.Rebracket
	if overlay.Logger != nil {
		out.Logger = overlay.Logger
	}
	return out
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.BracketFactor <= 0:
		return newInvalidArgument("bracket_factor must be positive")
	case c.BracketTries < 2:
		return newInvalidArgument("bracket_tries must be at least 2")
	case c.RootXTol <= 0 || c.RootRTol <= 0:
		return newInvalidArgument("root tolerances must be positive")
	case c.RootMaxIter < 1:
		return newInvalidArgument("root_max_iter must be positive")
	case c.QuadEpsAbs < 0 || c.QuadEpsRel < 0 || (c.QuadEpsAbs == 0 && c.QuadEpsRel == 0):
		return newInvalidArgument("quadrature tolerances must be non-negative and not both zero")
	case c.QuadLimit < 1:
		return newInvalidArgument("quad_limit must be positive")
	case c.ModeTol <= 0 || c.TimeTol <= 0:
		return newInvalidArgument("mode_tol and time_tol must be positive")
	case c.ConvergenceCount < 1:
		return newInvalidArgument("convergence_count must be positive")
	case c.MaxReflections < 1:
		return newInvalidArgument("max_reflections must be positive")
	case c.Workers < 0:
		return newInvalidArgument("workers must not be negative")
	}
	return nil
}

func (c Config) warnf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
