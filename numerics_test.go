package dcp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketZero_ExpandsTowardRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	lo, hi, err := BracketZero(f, 0, 0.5, 1.6, 50)
	require.NoError(t, err)
	assert.Less(t, f(lo)*f(hi), 0.0)
	assert.LessOrEqual(t, lo, math.Sqrt2)
	assert.GreaterOrEqual(t, hi, math.Sqrt2)
}

func TestBracketZero_AlreadyBracketed(t *testing.T) {
	lo, hi, err := BracketZero(math.Sin, -1, 1, 1.6, 50)
	require.NoError(t, err)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestBracketZero_Errors(t *testing.T) {
	_, _, err := BracketZero(math.Sin, 2, 2, 1.6, 50)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrInvalidRange))

	calls := 0
	noRoot := func(x float64) float64 { calls++; return 1 + x*x }
	_, _, err = BracketZero(noRoot, 0, 1, 1.6, 50)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrBracketingFailure))
	// two initial evaluations plus one per expansion
	assert.Equal(t, 2+49, calls)
}

func TestBrent(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		a, b float64
		want float64
	}{
		{"sqrt2", func(x float64) float64 { return x*x - 2 }, 0, 2, math.Sqrt2},
		{"dottie", func(x float64) float64 { return math.Cos(x) - x }, 0, 1, 0.7390851332151607},
		{"cubic", func(x float64) float64 { return x*x*x - x - 1 }, 1, 2, 1.3247179572447460},
		{"reversed", func(x float64) float64 { return math.Exp(x) - 3 }, 5, -5, math.Log(3)},
		{"root at endpoint", func(x float64) float64 { return x - 1 }, 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Brent(tt.f, tt.a, tt.b, 2e-12, 4*machEps, 100)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-11)
		})
	}
}

func TestBrent_Failures(t *testing.T) {
	_, err := Brent(func(x float64) float64 { return x*x + 1 }, -1, 1, 2e-12, 4*machEps, 100)
	assert.True(t, IsCode(err, ErrRootSolveFailure))

	_, err = Brent(func(float64) float64 { return math.NaN() }, -1, 1, 2e-12, 4*machEps, 100)
	assert.True(t, IsCode(err, ErrRootSolveFailure))

	_, err = Brent(func(x float64) float64 { return math.Atan(x - 0.3) }, -1000, 1000, 2e-12, 4*machEps, 2)
	assert.True(t, IsCode(err, ErrRootSolveFailure))
}
