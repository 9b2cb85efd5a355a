package dcp

import "math"

// TcasDD is the static Casimir energy density for Dirichlet-Dirichlet walls.
func TcasDD(l0 float64) float64 { return -math.Pi / (24 * l0 * l0) }

// TcasDN is the static Casimir energy density for Neumann-Dirichlet walls.
func TcasDN(l0 float64) float64 { return math.Pi / (48 * l0 * l0) }

// EnergyDD is the energy in the cavity at time t for Dirichlet-Dirichlet
// walls, measured from the static Casimir energy -pi/(24 L0).
func (e *Engine) EnergyDD(t float64, law Law) (float64, error) {
	l0, err := restLength(law)
	if err != nil {
		return 0, err
	}
	eCas := -math.Pi / (24 * l0)
	hs := func(float64) float64 { return math.Pi / (48 * l0 * l0) }
	v, err := e.quad(func(u float64) (float64, error) {
		return e.H(hs, law, u)
	}, t-l0, t+l0)
	if err != nil {
		return 0, err
	}
	return -v - eCas, nil
}
