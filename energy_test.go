package dcp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasimirDensities(t *testing.T) {
	assert.InDelta(t, -math.Pi/24, TcasDD(1), 1e-15)
	assert.InDelta(t, math.Pi/(48*4), TcasDN(2), 1e-15)
}

func TestEnergyDD_StaticCavityIsZero(t *testing.T) {
	for _, tt := range []float64{0, 0.7, 3.1} {
		e, err := EnergyDD(tt, Static{L0: 1})
		require.NoError(t, err)
		assert.InDelta(t, 0, e, 1e-9, "t=%v", tt)
	}
}

func TestEnergyDD_MovingMirror(t *testing.T) {
	e, err := EnergyDD(1.7, sinusoidal(t))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(e))
	assert.NotZero(t, e)
}

func TestEnergyDD_InvalidLaw(t *testing.T) {
	_, err := EnergyDD(0, Static{L0: math.Inf(1)})
	assert.True(t, IsCode(err, ErrInvalidArgument))
}
