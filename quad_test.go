package dcp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"
)

type integral struct {
	Name  string
	A, B  float64
	F     func(float64) float64
	Value float64
}

var integrals = []integral{
	{Name: "sin", A: 0, B: math.Pi, F: math.Sin, Value: 2},
	{Name: "exp", A: 0, B: 1, F: math.Exp, Value: math.E - 1},
	{Name: "lorentz", A: 0, B: 1, F: func(x float64) float64 { return 1 / (1 + x*x) }, Value: math.Pi / 4},
	{Name: "sqrt", A: 0, B: 1, F: math.Sqrt, Value: 2.0 / 3},
	{Name: "x^9", A: -1, B: 2, F: func(x float64) float64 { return math.Pow(x, 9) }, Value: 102.3},
	{Name: "log", A: 0, B: 1, F: math.Log, Value: -1},
	{Name: "oscillating", A: 0, B: 2 * math.Pi, F: func(x float64) float64 { return 1 + math.Cos(40*x) }, Value: 2 * math.Pi},
}

func TestIntegrate_Fixtures(t *testing.T) {
	opts := DefaultConfig()
	for _, in := range integrals {
		t.Run(in.Name, func(t *testing.T) {
			res, err := Integrate(Plain(in.F), in.A, in.B, QuadOptions{EpsRel: opts.QuadEpsRel, Limit: opts.QuadLimit})
			require.NoError(t, err)
			assert.True(t, res.Converged)
			assert.InDelta(t, in.Value, res.Value, 1e-6*math.Abs(in.Value))
		})
	}
}

func TestIntegrate_MatchesGonumLegendre(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(-x*x) * math.Cos(3*x) }
	want := quad.Fixed(f, -1, 2, 60, quad.Legendre{}, 0)
	got, err := Quad(Plain(f), -1, 2, QuadOptions{EpsRel: 1e-10, Limit: 1000})
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestIntegrate_Orientation(t *testing.T) {
	fwd, err := Quad(Plain(math.Exp), 0, 1, QuadOptions{EpsRel: 1e-6, Limit: 100})
	require.NoError(t, err)
	rev, err := Quad(Plain(math.Exp), 1, 0, QuadOptions{EpsRel: 1e-6, Limit: 100})
	require.NoError(t, err)
	assert.InDelta(t, -fwd, rev, 1e-12)

	res, err := Integrate(Plain(math.Exp), 3, 3, QuadOptions{EpsRel: 1e-6, Limit: 100})
	require.NoError(t, err)
	assert.Zero(t, res.Value)
	assert.True(t, res.Converged)
}

func TestIntegrate_LimitReached(t *testing.T) {
	f := Plain(func(x float64) float64 { return 1 + math.Sin(200*x) })
	res, err := Integrate(f, 0, 10, QuadOptions{EpsRel: 1e-10, Limit: 1})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Intervals)
	assert.Equal(t, 21, res.Evals)
}

func TestIntegrate_IntegrandError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	f := func(x float64) (float64, error) {
		calls++
		if calls > 30 {
			return 0, boom
		}
		return math.Sin(50 * x), nil
	}
	_, err := Integrate(f, 0, 10, QuadOptions{EpsRel: 1e-8, Limit: 100})
	assert.ErrorIs(t, err, boom)
}
