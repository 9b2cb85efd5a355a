package dcp

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Selector picks the fields ReflectionCounter fills in.
type Selector int

const (
	SelectCount      Selector = 1 // N
	SelectFinal      Selector = 2 // ZFinal
	SelectCountFinal Selector = 3 // N and ZFinal
	SelectAll        Selector = 4 // N, ZFinal and Instants
)

// Valid reports whether s is one of the four selectors.
func (s Selector) Valid() bool { return s >= SelectCount && s <= SelectAll }

// ReflectionResult describes the backward history of a null line.
type ReflectionResult struct {
	// N is the number of reflections off the moving mirror.
	N int `json:"n"`
	// ZFinal is the position the null line starts from on the static
	// interval [-L0, L0].
	ZFinal float64 `json:"z_final"`
	// Instants are the reflection times in discovery order, latest first.
	// For z <= L0 it holds the single crossing instant and N is 0.
	Instants []float64 `json:"instants,omitempty"`
}

// Chronological returns the instants in increasing time order.
func (r ReflectionResult) Chronological() []float64 {
	out := slices.Clone(r.Instants)
	slices.Reverse(out)
	return out
}

func (r ReflectionResult) project(s Selector) ReflectionResult {
	var out ReflectionResult
	switch s {
	case SelectCount:
		out.N = r.N
	case SelectFinal:
		out.ZFinal = r.ZFinal
	case SelectCountFinal:
		out.N, out.ZFinal = r.N, r.ZFinal
	case SelectAll:
		out = r
	}
	return out
}

// ReflectionCounter counts the reflections of the null line ending at z and
// returns the fields chosen by s. An invalid selector fails before any
// computation.
func (e *Engine) ReflectionCounter(law Law, z float64, s Selector) (ReflectionResult, error) {
	if !s.Valid() {
		return ReflectionResult{}, newInvalidSelector(s)
	}
	res, err := e.Reflections(law, z)
	if err != nil {
		return ReflectionResult{}, err
	}
	return res.project(s), nil
}

// Reflections traces the null line ending at z backwards. Each reflection
// solves t + L(t) = zFinal and moves zFinal to t - L(t), until zFinal lies in
// the static interval.
func (e *Engine) Reflections(law Law, z float64) (ReflectionResult, error) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return ReflectionResult{}, newInvalidArgument(fmt.Sprintf("z must be finite, got %v", z))
	}
	l0, err := restLength(law)
	if err != nil {
		return ReflectionResult{}, err
	}

	zFinal := z
	f := func(t float64) float64 { return t + law.L(t) - zFinal }
	lo, hi, err := BracketZero(f, -l0, z+2*l0, e.cfg.BracketFactor, e.cfg.BracketTries)
	if err != nil {
		return ReflectionResult{}, withZ(err, z)
	}
	solve := func() (float64, error) {
		a, b := lo, hi
		if e.cfg.Rebracket {
			var err error
			if a, b, err = BracketZero(f, -l0, zFinal+2*l0, e.cfg.BracketFactor, e.cfg.BracketTries); err != nil {
				return 0, err
			}
		}
		return Brent(f, a, b, e.cfg.RootXTol, e.cfg.RootRTol, e.cfg.RootMaxIter)
	}

	res := ReflectionResult{ZFinal: z}
	if z <= l0 {
		tk, err := Brent(f, lo, hi, e.cfg.RootXTol, e.cfg.RootRTol, e.cfg.RootMaxIter)
		if err != nil {
			return ReflectionResult{}, withZ(err, z)
		}
		res.Instants = []float64{tk}
		return res, nil
	}

	for zFinal > l0 {
		if res.N >= e.cfg.MaxReflections {
			return ReflectionResult{}, &Error{
				Code:    ErrReflectionLimit,
				Message: fmt.Sprintf("more than %d reflections", e.cfg.MaxReflections),
				Details: map[string]any{"z": z, "z_final": zFinal},
			}
		}
		tk, err := solve()
		if err != nil {
			return ReflectionResult{}, withZ(err, z)
		}
		if res.N > 0 && !(tk < res.Instants[res.N-1]) {
			return ReflectionResult{}, &Error{
				Code:    ErrNonMonotonic,
				Message: "reflection instants must strictly decrease",
				Details: map[string]any{"z": z, "previous": res.Instants[res.N-1], "next": tk},
			}
		}
		zFinal = tk - law.L(tk)
		res.Instants = append(res.Instants, tk)
		res.N++
	}
	res.ZFinal = zFinal
	return res, nil
}

// withZ records the queried point on a package error.
func withZ(err error, z float64) error {
	var dErr *Error
	if errors.As(err, &dErr) {
		if dErr.Details == nil {
			dErr.Details = map[string]any{}
		}
		dErr.Details["z"] = z
	}
	return err
}
