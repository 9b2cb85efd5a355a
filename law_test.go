package dcp

import (
	"math"
	"testing"

	"github.com/njchilds90/dcp/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	law := Static{L0: 2}
	for _, x := range []float64{-3, 0, 7.5} {
		assert.Equal(t, 2.0, law.L(x))
		assert.Zero(t, law.DL(x))
		assert.Zero(t, law.D2L(x))
		assert.Zero(t, law.D3L(x))
	}
}

func TestSinusoidal_Derivatives(t *testing.T) {
	law, err := Sinusoidal(1, 0.1, 2, 1, Window{})
	require.NoError(t, err)

	w := 2 * math.Pi
	for _, x := range []float64{0, 0.1, 0.25, 0.8} {
		assert.InDelta(t, 1+0.1*math.Sin(w*x), law.L(x), 1e-12)
		assert.InDelta(t, 0.1*w*math.Cos(w*x), law.DL(x), 1e-12)
		assert.InDelta(t, -0.1*w*w*math.Sin(w*x), law.D2L(x), 1e-10)
		assert.InDelta(t, -0.1*w*w*w*math.Cos(w*x), law.D3L(x), 1e-9)
	}
}

func TestSinusoidal_Power(t *testing.T) {
	law, err := Sinusoidal(2, 0.05, 1, 2, Window{})
	require.NoError(t, err)
	k := math.Pi / 2
	x := 0.7
	s, c := math.Sin(k*x), math.Cos(k*x)
	assert.InDelta(t, 2*(1+0.05*s*s), law.L(x), 1e-12)
	assert.InDelta(t, 2*0.05*2*s*c*k, law.DL(x), 1e-12)
}

func TestSinusoidal_Window(t *testing.T) {
	law, err := Sinusoidal(1, 0.1, 2, 1, Window{Tmax: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, law.L(-0.2))
	assert.Equal(t, 1.0, law.L(1.5))
	assert.Zero(t, law.DL(1.5))
	assert.Zero(t, law.D2L(-0.2))
	assert.Zero(t, law.D3L(2))
	assert.NotZero(t, law.DL(0.5))
}

func TestLogCosh(t *testing.T) {
	law, err := LogCosh(1, 0.5)
	require.NoError(t, err)
	x := 0.8
	th, ch := math.Tanh(x), math.Cosh(x)
	assert.InDelta(t, 1+0.5*math.Log(ch), law.L(x), 1e-12)
	assert.InDelta(t, 0.5*th, law.DL(x), 1e-12)
	assert.InDelta(t, 0.5/(ch*ch), law.D2L(x), 1e-12)
	assert.InDelta(t, -th/(ch*ch), law.D3L(x), 1e-12)
}

func TestLaw1994(t *testing.T) {
	theta := 0.3
	law, err := Law1994(1, theta)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, law.L(0), 1e-12)
	assert.Equal(t, 1.0, law.L(-1))
	assert.Zero(t, law.DL(-1))
	assert.InDelta(t, 1-theta/(2*math.Pi), law.L(0.25), 1e-12)
	assert.InDelta(t, -math.Sin(theta), law.DL(0.25), 1e-12)
	assert.InDelta(t, 0, law.DL(0.5), 1e-12)
}

func TestNewSymbolicLaw_Errors(t *testing.T) {
	tt := symbolic.S("t")
	_, err := NewSymbolicLaw(symbolic.AddOf(symbolic.N(1), symbolic.MulOf(symbolic.S("a"), tt)), "t", Window{})
	assert.True(t, IsCode(err, ErrInvalidArgument))

	_, err = NewSymbolicLaw(symbolic.AddOf(symbolic.N(-1), tt), "t", Window{})
	assert.True(t, IsCode(err, ErrInvalidArgument))

	_, err = Sinusoidal(0, 0.1, 1, 1, Window{})
	assert.True(t, IsCode(err, ErrInvalidArgument))
}

func TestFuncLaw(t *testing.T) {
	law := FuncLaw{
		Fn:     func(x float64) float64 { return 1 + 0.1*x*x },
		DFn:    func(x float64) float64 { return 0.2 * x },
		D2Fn:   func(float64) float64 { return 0.2 },
		D3Fn:   func(float64) float64 { return 0 },
		Window: Window{Tmax: 2},
	}
	assert.InDelta(t, 1.1, law.L(1), 1e-15)
	assert.InDelta(t, 0.2, law.DL(1), 1e-15)
	assert.Equal(t, 1.0, law.L(3))
	assert.Zero(t, law.D2L(3))
}
