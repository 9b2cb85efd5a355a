package dcp

import "math"

// A is the Doppler factor ((DL-1)/(DL+1))^2 at t.
func A(law Law, t float64) float64 {
	dl := law.DL(t)
	return (dl - 1) * (dl - 1) / ((1 + dl) * (1 + dl))
}

// B is the Schwarzian contribution of one reflection at t.
func B(law Law, t float64) float64 {
	dl, d2l, d3l := law.DL(t), law.D2L(t), law.D3L(t)
	p, m := 1+dl, 1-dl
	return -d3l/(12*math.Pi*p*p*p*m) - d2l*d2l*dl/(4*math.Pi*p*p*p*p*m*m)
}

func aTilde(law Law, r ReflectionResult) float64 {
	prod := 1.0
	for _, t := range r.Instants[:r.N] {
		prod *= A(law, t)
	}
	return prod
}

// bTilde accumulates B(t_j) times the product of A over the earlier
// discovered instants.
func bTilde(law Law, r ReflectionResult) float64 {
	sum, prod := 0.0, 1.0
	for _, t := range r.Instants[:r.N] {
		sum += B(law, t) * prod
		prod *= A(law, t)
	}
	return sum
}

// ATilde is the product of A over the reflection instants of z. It is 1 when
// there is no reflection.
func (e *Engine) ATilde(law Law, z float64) (float64, error) {
	r, err := e.Reflections(law, z)
	if err != nil {
		return 0, err
	}
	return aTilde(law, r), nil
}

// BTilde is the sum over j of B(t_j) * A(t_0)...A(t_{j-1}). It is 0 when there
// is no reflection.
func (e *Engine) BTilde(law Law, z float64) (float64, error) {
	r, err := e.Reflections(law, z)
	if err != nil {
		return 0, err
	}
	return bTilde(law, r), nil
}

// H transports the static kernel hs along the reflections of z.
func (e *Engine) H(hs func(float64) float64, law Law, z float64) (float64, error) {
	r, err := e.Reflections(law, z)
	if err != nil {
		return 0, err
	}
	v := hs(r.ZFinal)
	if r.N == 0 {
		return v, nil
	}
	return v*aTilde(law, r) + bTilde(law, r), nil
}

// G transports gs along the reflections of z under law, weighting each
// reflection by the Doppler factor of deriv.
func (e *Engine) G(gs func(float64) float64, law, deriv Law, z float64) (float64, error) {
	r, err := e.Reflections(law, z)
	if err != nil {
		return 0, err
	}
	prod := 1.0
	for _, t := range r.Instants[:r.N] {
		prod *= A(deriv, t)
	}
	return gs(r.ZFinal) * prod, nil
}

// Moore is Moore's function R(z) = 2N + zFinal/L0.
func (e *Engine) Moore(law Law, z float64) (float64, error) {
	r, err := e.Reflections(law, z)
	if err != nil {
		return 0, err
	}
	return 2*float64(r.N) + r.ZFinal/law.L(0), nil
}
