package jhobby

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/querycurve"
)

// open is an open skeleton path with unit tensions and curls.
type open struct {
	z []pair
}

func (p open) n() int {
	return len(p.z)
}

func (p open) delta(i int) pair {
	return p.z[i+1] - p.z[i]
}

func (p open) d(i int) float64 {
	return cmplx.Abs(p.delta(i).C())
}

// Turning angle at z.i; 0 at both ends.
func (p open) psi(i int) float64 {
	if i <= 0 || i >= p.n()-1 {
		return 0
	}
	return reduceAngle(cmplx.Phase(p.delta(i).C()) - cmplx.Phase(p.delta(i-1).C()))
}

func validate(knots []pair) error {
	if len(knots) < 2 {
		return fmt.Errorf("%w: open path needs at least 2 knots, got %d", ErrTooFewKnots, len(knots))
	}
	for i, z := range knots {
		if z.IsNaN() {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	for i := 0; i < len(knots)-1; i++ {
		if cmplx.Abs((knots[i+1] - knots[i]).C()) <= _epsilon {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, i+1)
		}
	}
	return nil
}

// FindControls finds the Hobby-spline control points for an open path
// through knots. pre[i] is the control point before knot i, post[i] the one
// after it. pre[0] and post[n-1] are set to their knots.
func FindControls(knots []pair) (pre, post []pair, err error) {
	if err = validate(knots); err != nil {
		return nil, nil, err
	}
	path := open{z: knots}
	theta := solveOpenPath(path)
	pre, post = setControls(path, theta)
	tracer().Debugf("controls for %d knots: %s", path.n(), asString(path, pre, post))
	return pre, post, nil
}

// solveOpenPath returns the angles theta.i between the chord z.i→z.(i+1) and
// the outgoing direction at z.i.
//
// With tension 1 everywhere the mock-curvature equations of Hobby's paper
// reduce to a tridiagonal system, solved by forward elimination (u, v) and
// back substitution.
func solveOpenPath(path open) []float64 {
	n := path.n()
	theta := make([]float64, n)
	if n == 2 {
		return theta // curl 1 at both ends of a single segment gives a straight line
	}
	u := make([]float64, n)
	v := make([]float64, n)
	// start with curl 1: u.0 = ((3-a)c + b) / (ac + 3 - b) = 1 for a = b = c = 1
	u[0] = 1
	v[0] = -u[0] * path.psi(1)
	for i := 1; i < n-1; i++ {
		A := 1 / path.d(i-1)
		B := 2 / path.d(i-1)
		C := 2 / path.d(i)
		D := 1 / path.d(i)
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*path.psi(i) - D*path.psi(i+1) - A*v[i-1]) / t
		tracer().Debugf("u.%d = %.4g, v.%d = %.4g", i, u[i], i, v[i])
	}
	// end with curl 1: u.n = (bc + 3 - a) / ((3-b)c + a) = 1
	last := n - 1
	u[last] = 1
	theta[last] = v[last-1] / (u[last-1] - u[last])
	for i := last - 1; i >= 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
		tracer().Debugf("theta.%d = %.4g", i, rad2deg(theta[i]))
	}
	return theta
}

func setControls(path open, theta []float64) (pre, post []pair) {
	n := path.n()
	pre = make([]pair, n)
	post = make([]pair, n)
	pre[0], post[n-1] = path.z[0], path.z[n-1]
	for i := 0; i < n-1; i++ {
		phi := -path.psi(i+1) - theta[i+1]
		p2, p3 := controlPoints(theta[i], phi, path.delta(i))
		post[i] = path.z[i] + p2
		pre[i+1] = path.z[i+1] - p3
	}
	return pre, post
}

// Hobby's velocity function f(theta, phi), with tension 1.
func velocity(theta, phi float64) float64 {
	const constA = 1.41421356     // sqrt(2) -- empiric constants, as explained by J.Hobby
	const constB = 0.0625         // 1/16
	const constC = 0.38196601125  // (3 - sqrt(5)) / 2
	const constCC = 0.61803398875 // 1 - c
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	return (2 + alpha) / (1 + constCC*ct + constC*cf)
}

// Calculate the offsets of the control points between z.i and z.(i+1),
// relative to z.i and z.(i+1) respectively.
func controlPoints(theta, phi float64, dvec pair) (pair, pair) {
	rho := velocity(theta, phi)
	sigma := velocity(phi, theta)
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	dx, dy := dvec.F()
	uv1 := querycurve.P(dx*ct-dy*st, dx*st+dy*ct)  // chord rotated by theta
	uv2 := querycurve.P(dx*cf+dy*sf, -dx*sf+dy*cf) // chord rotated by -phi
	return scaled(uv1, rho/3), scaled(uv2, sigma/3)
}

func scaled(p pair, a float64) pair {
	return querycurve.P(p.X()*a, p.Y()*a)
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > math.Pi {
		if a > 0 {
			a -= 2 * math.Pi
		} else {
			a += 2 * math.Pi
		}
	}
	return a
}

func rad2deg(a float64) float64 {
	return a * 180 / math.Pi
}

func asString(path open, pre, post []pair) string {
	c := querycurve.Curve{Points: make([]querycurve.Point, path.n())}
	for i := range c.Points {
		c.Points[i] = querycurve.Point{At: path.z[i], Handle: [2]pair{pre[i], post[i]}}
	}
	return c.String()
}
