package dcp

import "math"

const machEps = 2.220446049250313e-16

// BracketZero grows [x1, x2] geometrically until f changes sign across it.
// Each round moves the endpoint whose |f| is smaller, by factor times the
// current width. The sign is tested before every expansion, tries-1 times.
func BracketZero(f func(float64) float64, x1, x2, factor float64, tries int) (lo, hi float64, err error) {
	if x1 == x2 {
		return 0, 0, newInvalidRange(x1)
	}
	f1, f2 := f(x1), f(x2)
	for i := 1; i < tries; i++ {
		if f1*f2 < 0 {
			return x1, x2, nil
		}
		if math.Abs(f1) < math.Abs(f2) {
			x1 += factor * (x1 - x2)
			f1 = f(x1)
		} else {
			x2 += factor * (x2 - x1)
			f2 = f(x2)
		}
	}
	return 0, 0, newBracketingFailure(x1, x2, tries)
}

// Brent finds a root of f inside [a, b] using inverse quadratic
// interpolation guarded by bisection. f(a) and f(b) must have opposite signs
// (or one of them be zero). Convergence means the bracket shrank below
// xtol + rtol*|x|.
func Brent(f func(float64) float64, a, b, xtol, rtol float64, maxIter int) (float64, error) {
	xpre, xcur := a, b
	fpre, fcur := f(a), f(b)
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		return 0, newRootSolveFailure("function is NaN at the bracket", a, b)
	}
	if fpre*fcur > 0 {
		return 0, newRootSolveFailure("root not bracketed", a, b)
	}
	if fpre == 0 {
		return xpre, nil
	}
	if fcur == 0 {
		return xcur, nil
	}

	var xblk, fblk, spre, scur float64
	for i := 0; i < maxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (xtol + rtol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else {
			xcur += math.Copysign(delta, sbis)
		}
		fcur = f(xcur)
		if math.IsNaN(fcur) {
			return 0, newRootSolveFailure("function became NaN", xpre, xcur)
		}
	}
	return 0, newRootSolveFailure("maximum iterations exceeded", xpre, xcur)
}
