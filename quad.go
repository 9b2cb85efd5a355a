package dcp

import (
	"container/heap"
	"math"
)

// Integrand is a scalar function that may fail. The first error stops the
// integration and is returned unchanged.
type Integrand func(x float64) (float64, error)

// QuadOptions mirrors the QUADPACK knobs.
type QuadOptions struct {
	EpsAbs float64
	EpsRel float64
	Limit  int
}

// QuadResult is the full outcome of an adaptive integration.
type QuadResult struct {
	Value     float64
	AbsErr    float64
	Intervals int
	Evals     int
	// Converged is false when Limit subintervals were used (or roundoff
	// stopped further bisection) before the error target was met.
	Converged bool
}

// Gauss-Kronrod 21-point abscissae on [-1, 1], decreasing, center last.
// Odd indices are the 10-point Gauss nodes.
var xgk21 = [11]float64{
	0.995657163025808080735527280689003,
	0.973906528517171720077964012084452,
	0.930157491355708226001207180059508,
	0.865063366688984510732096688423493,
	0.780817726586416897063717578345042,
	0.679409568299024406234327365114874,
	0.562757134668604683339000099272694,
	0.433395394129247190799265943165784,
	0.294392862701460198131126603103866,
	0.148874338981631210884826001129720,
	0,
}

var wgk21 = [11]float64{
	0.011694638867371874278064396062192,
	0.032558162307964727478818972459390,
	0.054755896574351996031381300244580,
	0.075039674810919952767043140916190,
	0.093125454583697605535065465083366,
	0.109387158802297641899210590325805,
	0.123491976262065851077958109831074,
	0.134709217311473325928054001771707,
	0.142775938577060080797094273138717,
	0.147739104901338491374841515972068,
	0.149445554002916905664936468389821,
}

var wg10 = [5]float64{
	0.066671344308688137593568809893332,
	0.149451349150580593145776339657697,
	0.219086362515982043995534934228163,
	0.269266719309996355091226921569469,
	0.295524224714752870173892994651338,
}

type segment struct {
	a, b   float64
	value  float64
	abserr float64
}

// segments is a max-heap on abserr.
type segments []segment

func (s segments) Len() int            { return len(s) }
func (s segments) Less(i, j int) bool  { return s[i].abserr > s[j].abserr }
func (s segments) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s *segments) Push(x any)         { *s = append(*s, x.(segment)) }
func (s *segments) Pop() any {
	old := *s
	n := len(old)
	x := old[n-1]
	*s = old[:n-1]
	return x
}

// qk21 applies the 21-point Kronrod rule with the embedded 10-point Gauss
// rule on [a, b] and returns the estimate and its QUADPACK error bound.
func qk21(f Integrand, a, b float64) (value, abserr float64, err error) {
	center := 0.5 * (a + b)
	half := 0.5 * (b - a)
	absHalf := math.Abs(half)

	var fv1, fv2 [10]float64
	fc, err := f(center)
	if err != nil {
		return 0, 0, err
	}
	resg := 0.0
	resk := wgk21[10] * fc
	resabs := math.Abs(resk)

	for j := 0; j < 10; j++ {
		dx := half * xgk21[j]
		f1, err := f(center - dx)
		if err != nil {
			return 0, 0, err
		}
		f2, err := f(center + dx)
		if err != nil {
			return 0, 0, err
		}
		fv1[j], fv2[j] = f1, f2
		resk += wgk21[j] * (f1 + f2)
		resabs += wgk21[j] * (math.Abs(f1) + math.Abs(f2))
		if j%2 == 1 {
			resg += wg10[j/2] * (f1 + f2)
		}
	}

	reskh := 0.5 * resk
	resasc := wgk21[10] * math.Abs(fc-reskh)
	for j := 0; j < 10; j++ {
		resasc += wgk21[j] * (math.Abs(fv1[j]-reskh) + math.Abs(fv2[j]-reskh))
	}

	value = resk * half
	resabs *= absHalf
	resasc *= absHalf
	abserr = math.Abs((resk - resg) * half)
	if resasc != 0 && abserr != 0 {
		abserr = resasc * math.Min(1, math.Pow(200*abserr/resasc, 1.5))
	}
	if resabs > math.SmallestNonzeroFloat64/(50*machEps) {
		abserr = math.Max(50*machEps*resabs, abserr)
	}
	return value, abserr, nil
}

// Integrate computes the integral of f over [a, b] by repeatedly bisecting
// the subinterval with the largest error estimate until the total error is
// below max(EpsAbs, EpsRel*|value|) or Limit subintervals exist.
func Integrate(f Integrand, a, b float64, opts QuadOptions) (QuadResult, error) {
	if opts.Limit < 1 {
		opts.Limit = 1
	}
	if a == b {
		return QuadResult{Converged: true}, nil
	}
	value, abserr, err := qk21(f, a, b)
	if err != nil {
		return QuadResult{}, err
	}
	res := QuadResult{Value: value, AbsErr: abserr, Intervals: 1, Evals: 21}
	tol := func() float64 { return math.Max(opts.EpsAbs, opts.EpsRel*math.Abs(res.Value)) }
	if res.AbsErr <= tol() {
		res.Converged = true
		return res, nil
	}

	h := &segments{{a: a, b: b, value: value, abserr: abserr}}
	for h.Len() < opts.Limit {
		worst := heap.Pop(h).(segment)
		mid := 0.5 * (worst.a + worst.b)
		if mid <= math.Min(worst.a, worst.b) || mid >= math.Max(worst.a, worst.b) {
			// roundoff: the interval cannot be split any further
			heap.Push(h, worst)
			break
		}
		v1, e1, err := qk21(f, worst.a, mid)
		if err != nil {
			return QuadResult{}, err
		}
		v2, e2, err := qk21(f, mid, worst.b)
		if err != nil {
			return QuadResult{}, err
		}
		res.Evals += 42
		heap.Push(h, segment{a: worst.a, b: mid, value: v1, abserr: e1})
		heap.Push(h, segment{a: mid, b: worst.b, value: v2, abserr: e2})

		res.Value += v1 + v2 - worst.value
		res.AbsErr += e1 + e2 - worst.abserr
		if res.AbsErr <= tol() {
			res.Converged = true
			break
		}
	}

	// Re-sum to drop the drift of the running updates.
	res.Value, res.AbsErr = 0, 0
	for _, s := range *h {
		res.Value += s.value
		res.AbsErr += s.abserr
	}
	res.Intervals = h.Len()
	if !res.Converged && res.AbsErr <= tol() {
		res.Converged = true
	}
	return res, nil
}

// Quad integrates f with opts and returns only the estimate.
func Quad(f Integrand, a, b float64, opts QuadOptions) (float64, error) {
	res, err := Integrate(f, a, b, opts)
	return res.Value, err
}

// Plain adapts an infallible function to an Integrand.
func Plain(f func(float64) float64) Integrand {
	return func(x float64) (float64, error) { return f(x), nil }
}
