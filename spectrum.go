package dcp

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"golang.org/x/sync/errgroup"
)

// ModeSum is the number of particles created in one mode n, summed over the
// modes m it couples to.
type ModeSum struct {
	Total float64 `json:"total"`
	// Unitarity is the sum of |alpha|^2 - |beta|^2 over the visited modes.
	Unitarity float64 `json:"unitarity"`
	LastMode  int     `json:"last_mode"`
	// Converged is false when Mmax was reached before the sum went quiet.
	Converged bool `json:"converged"`
}

// ModeRow is one n of a TimeSum.
type ModeRow struct {
	N         int     `json:"n"`
	Particles float64 `json:"particles"`
	Unitarity float64 `json:"unitarity"`
	LastMode  int     `json:"last_mode"`
	Converged bool    `json:"converged"`
}

// TimeSum is the total number of particles at time t.
type TimeSum struct {
	Total     float64   `json:"total"`
	Modes     []ModeRow `json:"modes"`
	LastN     int       `json:"last_n"`
	Converged bool      `json:"converged"`
}

// NQuantaPerMode is |beta_{n,m}(t)|^2.
func (e *Engine) NQuantaPerMode(t float64, n, m int, b float64, law Law) (float64, error) {
	beta, err := e.Beta(t, n, m, b, law)
	if err != nil {
		return 0, err
	}
	a := cmplx.Abs(beta)
	return a * a, nil
}

type modeTerm struct {
	quanta    float64
	unitarity float64
}

// NParticlesPerMode sums |beta_{n,m}(t)|^2 over m = 1-2b .. mmax. The sum
// stops early after ConvergenceCount consecutive terms that move it by less
// than ModeTol relative.
func (e *Engine) NParticlesPerMode(ctx context.Context, t float64, n int, b float64, law Law, mmax int) (ModeSum, error) {
	return e.particlesPerMode(ctx, t, n, b, law, mmax, e.cfg.Workers)
}

func (e *Engine) particlesPerMode(ctx context.Context, t float64, n int, b float64, law Law, mmax, workers int) (ModeSum, error) {
	if b != DirichletDirichlet && b != NeumannDirichlet {
		return ModeSum{}, newInvalidBoundaryCondition(b)
	}
	mstart := int(math.Round(1 - 2*b))
	if mmax < mstart {
		return ModeSum{}, newInvalidArgument(fmt.Sprintf("mmax must be at least %d, got %d", mstart, mmax))
	}

	var sum ModeSum
	old, quiet := 0.0, 0
	eval := func(m int) (modeTerm, error) {
		alpha, err := e.Alpha(t, n, m, b, law)
		if err != nil {
			return modeTerm{}, err
		}
		beta, err := e.Beta(t, n, m, b, law)
		if err != nil {
			return modeTerm{}, err
		}
		aa, bb := cmplx.Abs(alpha), cmplx.Abs(beta)
		return modeTerm{quanta: bb * bb, unitarity: aa*aa - bb*bb}, nil
	}
	accept := func(_ int, term modeTerm) bool {
		sum.Unitarity += term.unitarity
		sum.Total += term.quanta
		if math.Abs(sum.Total-old) < e.cfg.ModeTol*old {
			quiet++
		} else {
			quiet = 0
		}
		if quiet >= e.cfg.ConvergenceCount {
			return true
		}
		old = sum.Total
		return false
	}

	last, done, err := sweep(ctx, workers, mstart, mmax, eval, accept)
	if err != nil {
		return ModeSum{}, err
	}
	sum.LastMode, sum.Converged = last, done
	if !done {
		e.cfg.warnf("dcp: mode sum for n=%d at t=%g reached mmax=%d without converging", n, t, mmax)
	}
	return sum, nil
}

// NParticlesPerTime sums NParticlesPerMode over n = 1 .. nmax. The sum stops
// early after ConvergenceCount consecutive modes whose share of the running
// total is at most TimeTol. A running total of exactly zero counts as quiet.
func (e *Engine) NParticlesPerTime(ctx context.Context, t float64, law Law, b float64, nmax, mmax int) (TimeSum, error) {
	if b != DirichletDirichlet && b != NeumannDirichlet {
		return TimeSum{}, newInvalidBoundaryCondition(b)
	}
	if nmax < 1 {
		return TimeSum{}, newInvalidArgument(fmt.Sprintf("nmax must be positive, got %d", nmax))
	}

	var sum TimeSum
	quiet := 0
	// Modes n are spread over the workers; each mode sum runs sequentially.
	eval := func(n int) (ModeSum, error) {
		return e.particlesPerMode(ctx, t, n, b, law, mmax, 1)
	}
	accept := func(n int, ms ModeSum) bool {
		sum.Modes = append(sum.Modes, ModeRow{
			N:         n,
			Particles: ms.Total,
			Unitarity: ms.Unitarity,
			LastMode:  ms.LastMode,
			Converged: ms.Converged,
		})
		sum.Total += ms.Total
		if sum.Total == 0 || ms.Total/sum.Total <= e.cfg.TimeTol {
			quiet++
		} else {
			quiet = 0
		}
		return quiet >= e.cfg.ConvergenceCount
	}

	last, done, err := sweep(ctx, e.cfg.Workers, 1, nmax, eval, accept)
	if err != nil {
		return TimeSum{}, err
	}
	sum.LastN, sum.Converged = last, done
	if !done {
		e.cfg.warnf("dcp: time sum at t=%g reached nmax=%d without converging", t, nmax)
	}
	return sum, nil
}

// sweep evaluates eval(i) for i = from..to and hands the results to accept in
// index order until accept reports done. With more than one worker, terms are
// computed in batches of that size. A term's result or error only counts once
// the reduction reaches its index, so terms past the stopping index never
// change the outcome and the reduction matches the sequential one.
func sweep[T any](ctx context.Context, workers, from, to int, eval func(int) (T, error), accept func(int, T) bool) (last int, done bool, err error) {
	if workers < 1 {
		workers = 1
	}
	batch := make([]T, workers)
	errs := make([]error, workers)
	for start := from; start <= to; start += workers {
		end := min(start+workers-1, to)
		if workers == 1 {
			if err := ctx.Err(); err != nil {
				errs[0] = newCanceled(err)
			} else {
				batch[0], errs[0] = eval(start)
			}
		} else {
			var g errgroup.Group
			g.SetLimit(workers)
			for i := start; i <= end; i++ {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						errs[i-start] = newCanceled(err)
						return nil
					}
					batch[i-start], errs[i-start] = eval(i)
					return nil
				})
			}
			g.Wait()
		}
		for i := start; i <= end; i++ {
			if err := errs[i-start]; err != nil {
				return last, false, err
			}
			last = i
			if accept(i, batch[i-start]) {
				return last, true, nil
			}
		}
	}
	return last, false, nil
}

// NQuantaPerMode runs Engine.NQuantaPerMode on the default engine.
func NQuantaPerMode(t float64, n, m int, b float64, law Law) (float64, error) {
	return std.NQuantaPerMode(t, n, m, b, law)
}

// NParticlesPerMode runs Engine.NParticlesPerMode on the default engine.
func NParticlesPerMode(ctx context.Context, t float64, n int, b float64, law Law, mmax int) (ModeSum, error) {
	return std.NParticlesPerMode(ctx, t, n, b, law, mmax)
}

// NParticlesPerTime runs Engine.NParticlesPerTime on the default engine.
func NParticlesPerTime(ctx context.Context, t float64, law Law, b float64, nmax, mmax int) (TimeSum, error) {
	return std.NParticlesPerTime(ctx, t, law, b, nmax, mmax)
}
