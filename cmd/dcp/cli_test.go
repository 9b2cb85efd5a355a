package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	app := newCLIApp()
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr

	// an empty config keeps the user's files out of the tests
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{}`), 0o600))

	err := app.Run(append([]string{"dcp", "--config", cfgPath}, args...))
	return stdout.String(), stderr.String(), err
}

func TestAbout(t *testing.T) {
	out, _, err := run(t, "about")
	require.NoError(t, err)
	assert.Contains(t, out, "Dynamical Casimir package (release date: 2022)(c)")
	assert.Contains(t, out, "by Danilo T. Alves and Edney R. Granhen.")
	assert.Contains(t, out, "kindly request that this software be referenced")
	assert.Contains(t, out, "version dev")
}

func TestReflect_Static(t *testing.T) {
	out, errOut, err := run(t, "reflect", "--z", "3.5")
	require.NoError(t, err)

	var res struct {
		N        int       `json:"n"`
		ZFinal   float64   `json:"z_final"`
		Instants []float64 `json:"instants"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.N)
	assert.InDelta(t, -0.5, res.ZFinal, 1e-10)
	assert.Len(t, res.Instants, 2)
	// the run is logged with its id
	assert.Contains(t, errOut, "dcp [")
	assert.Contains(t, errOut, "reflect: law static")
}

func TestReflect_InvalidSelector(t *testing.T) {
	out, errOut, err := run(t, "--quiet", "reflect", "--z", "1", "--selector", "9")
	require.Error(t, err)
	assert.Empty(t, out)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(errOut), &payload))
	assert.Equal(t, "INVALID_SELECTOR", payload.Error.Code)
}

func TestMoore_Sinusoidal(t *testing.T) {
	out, _, err := run(t, "--quiet", "moore", "--law", "sinusoidal", "--e", "0.1", "--q", "2", "--z", "0.5")
	require.NoError(t, err)
	var res map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 0.5, res["r"], 1e-12)
}

func TestBogoliubov_Static(t *testing.T) {
	out, _, err := run(t, "--quiet", "bogoliubov", "--t", "0.3")
	require.NoError(t, err)
	var res struct {
		Alpha struct{ Re, Im float64 } `json:"alpha"`
		Beta  struct{ Abs float64 }    `json:"beta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 1, res.Alpha.Re, 1e-5)
	assert.Less(t, res.Beta.Abs, 1e-5)
}

func TestBogoliubov_InvalidBoundary(t *testing.T) {
	_, errOut, err := run(t, "--quiet", "bogoliubov", "--t", "0", "--b", "0.3")
	require.Error(t, err)
	assert.Contains(t, errOut, "INVALID_BOUNDARY_CONDITION")
}

func TestQuanta_Static(t *testing.T) {
	out, _, err := run(t, "--quiet", "quanta", "--t", "0.3", "--m", "2")
	require.NoError(t, err)
	var res struct {
		Quanta float64 `json:"quanta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Less(t, res.Quanta, 1e-10)
}

func TestSpectrum_PerModeAndTotal(t *testing.T) {
	out, _, err := run(t, "--quiet", "spectrum", "--t", "0.5", "--n", "1", "--mmax", "3")
	require.NoError(t, err)
	var mode struct {
		Total     float64 `json:"total"`
		LastMode  int     `json:"last_mode"`
		Converged bool    `json:"converged"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &mode))
	assert.Equal(t, 3, mode.LastMode)
	assert.False(t, mode.Converged)

	out, _, err = run(t, "--quiet", "--workers", "2", "spectrum", "--t", "0.5", "--nmax", "2", "--mmax", "2")
	require.NoError(t, err)
	var total struct {
		Modes []struct {
			N int `json:"n"`
		} `json:"modes"`
		LastN int `json:"last_n"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &total))
	assert.Equal(t, 2, total.LastN)
	assert.Len(t, total.Modes, 2)
}

func TestEnergy_Static(t *testing.T) {
	out, _, err := run(t, "--quiet", "energy", "--t", "0.4", "--l0", "2")
	require.NoError(t, err)
	var res map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 0, res["energy"], 1e-9)
	assert.InDelta(t, -0.032724923474893676, res["tcas_dd"], 1e-15)
}

func TestConfigFileLaw(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dcp.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"law": {"kind": "static", "l0": 2}}`), 0o600))

	app := newCLIApp()
	var stdout, stderr bytes.Buffer
	app.Writer, app.ErrWriter = &stdout, &stderr
	require.NoError(t, app.Run([]string{"dcp", "--config", cfgPath, "--quiet", "moore", "--z", "3"}))

	var res map[string]float64
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.InDelta(t, 1.5, res["r"], 1e-10)
}
