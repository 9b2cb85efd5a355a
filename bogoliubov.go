package dcp

import (
	"encoding/json"
	"fmt"
	"math"
	"math/cmplx"
)

// Boundary conditions accepted by the Bogoliubov coefficients.
const (
	DirichletDirichlet = 0.0
	NeumannDirichlet   = 0.5
)

// Coefficients holds the pair of Bogoliubov coefficients for (m, n).
type Coefficients struct {
	Alpha complex128
	Beta  complex128
}

type complexJSON struct {
	Re  float64 `json:"re"`
	Im  float64 `json:"im"`
	Abs float64 `json:"abs"`
}

func toComplexJSON(z complex128) complexJSON {
	return complexJSON{Re: real(z), Im: imag(z), Abs: cmplx.Abs(z)}
}

// MarshalJSON encodes each coefficient as an object with re, im and abs.
func (c Coefficients) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Alpha complexJSON `json:"alpha"`
		Beta  complexJSON `json:"beta"`
	}{toComplexJSON(c.Alpha), toComplexJSON(c.Beta)})
}

func checkModes(m, n int, b float64) error {
	if b != DirichletDirichlet && b != NeumannDirichlet {
		return newInvalidBoundaryCondition(b)
	}
	if float64(m)+b <= 0 || float64(n)+b <= 0 {
		return &Error{
			Code:    ErrInvalidArgument,
			Message: fmt.Sprintf("modes need m+b > 0 and n+b > 0, got m=%d n=%d b=%v", m, n, b),
			Details: map[string]any{"m": m, "n": n, "b": b},
		}
	}
	return nil
}

// Alpha is the Bogoliubov coefficient alpha_{m,n}(t) for boundary condition
// b (0 or 0.5).
func (e *Engine) Alpha(t float64, m, n int, b float64, law Law) (complex128, error) {
	if err := checkModes(m, n, b); err != nil {
		return 0, err
	}
	z, err := e.overlap(t, m, n, b, law, -1)
	if err != nil {
		return 0, err
	}
	return complex(0.5*math.Sqrt((float64(m)+b)/(float64(n)+b)), 0) * z, nil
}

// Beta is the Bogoliubov coefficient beta_{m,n}(t) for boundary condition b
// (0 or 0.5).
func (e *Engine) Beta(t float64, m, n int, b float64, law Law) (complex128, error) {
	if err := checkModes(m, n, b); err != nil {
		return 0, err
	}
	z, err := e.overlap(t, m, n, b, law, 1)
	if err != nil {
		return 0, err
	}
	return complex(-0.5*math.Sqrt((float64(m)+b)/(float64(n)+b)), 0) * z, nil
}

// Bogoliubov computes both coefficients.
func (e *Engine) Bogoliubov(t float64, m, n int, b float64, law Law) (Coefficients, error) {
	alpha, err := e.Alpha(t, m, n, b, law)
	if err != nil {
		return Coefficients{}, err
	}
	beta, err := e.Beta(t, m, n, b, law)
	if err != nil {
		return Coefficients{}, err
	}
	return Coefficients{Alpha: alpha, Beta: beta}, nil
}

// overlap integrates exp(i*pi*((n+b)R(L0 x) + sign*(m+b)x)) over one cavity
// round trip around t/L0. The integrands are shifted by 1 so that the
// relative tolerance never faces a vanishing integral; the shift is removed
// afterwards.
func (e *Engine) overlap(t float64, m, n int, b float64, law Law, sign float64) (complex128, error) {
	l0, err := restLength(law)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, newInvalidArgument(fmt.Sprintf("t must be finite, got %v", t))
	}
	lo, hi := t/l0-1, t/l0+1
	nb, mb := float64(n)+b, float64(m)+b
	phase := func(x float64) (float64, error) {
		r, err := e.Moore(law, l0*x)
		if err != nil {
			return 0, err
		}
		return math.Pi * (nb*r + sign*mb*x), nil
	}

	re, err := e.quad(func(x float64) (float64, error) {
		p, err := phase(x)
		return 1 + math.Cos(p), err
	}, lo, hi)
	if err != nil {
		return 0, err
	}
	im, err := e.quad(func(x float64) (float64, error) {
		p, err := phase(x)
		return 1 + math.Sin(p), err
	}, lo, hi)
	if err != nil {
		return 0, err
	}
	return complex(re-(hi-lo), im-(hi-lo)), nil
}

// Bogoliubov runs Engine.Bogoliubov on the default engine.
func Bogoliubov(t float64, m, n int, b float64, law Law) (Coefficients, error) {
	return std.Bogoliubov(t, m, n, b, law)
}
