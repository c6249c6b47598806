package gradient

import (
	"math"

	"github.com/ffigura/ttcr/geometry"
	"gonum.org/v1/gonum/mat"
)

// RefineConstrained implements the penalty-constrained nonlinear
// least-squares refinement the source calls solveSystem: given a design
// matrix and right-hand side, it fits three coefficients to the matrix's
// first three columns while driving their norm toward a target gradient
// norm via a Gauss-Newton step with a quadratic penalty row, for at most 20
// iterations with penalty weight alpha=10.
//
// Recover reaches it only through Linear3DDirect with Options.Constrained
// set; every other method ignores that flag.
func RefineConstrained(a *mat.Dense, b *mat.VecDense, norm float64) geometry.Vec3 {
	const iterations = 20
	const alpha = 10.0

	n, _ := a.Dims()
	x := mat.NewVecDense(3, nil)

	for i := 0; i < iterations; i++ {
		j := mat.NewDense(n+1, 3, nil)
		for r := 0; r < n; r++ {
			j.Set(r, 0, a.At(r, 0))
			j.Set(r, 1, a.At(r, 1))
			j.Set(r, 2, a.At(r, 2))
		}
		x0, x1, x2 := x.AtVec(0), x.AtVec(1), x.AtVec(2)
		j.Set(n, 0, 2*x0*alpha)
		j.Set(n, 1, 2*x1*alpha)
		j.Set(n, 2, 2*x2*alpha)

		r := mat.NewVecDense(n+1, nil)
		for row := 0; row < n; row++ {
			var av float64
			for c := 0; c < 3; c++ {
				av += a.At(row, c) * x.AtVec(c)
			}
			r.SetVec(row, av-b.AtVec(row))
		}
		r.SetVec(n, ((x0*x0+x1*x1+x2*x2)-norm*norm)*alpha)

		var jt mat.Dense
		jt.Mul(j.T(), j)
		var jtr mat.VecDense
		jtr.MulVec(j.T(), r)

		var jtInv mat.Dense
		if err := jtInv.Inverse(&jt); err != nil {
			break
		}
		var s mat.VecDense
		s.MulVec(&jtInv, &jtr)

		xNorm := math.Sqrt(x0*x0 + x1*x1 + x2*x2)
		sNorm := math.Sqrt(s.AtVec(0)*s.AtVec(0) + s.AtVec(1)*s.AtVec(1) + s.AtVec(2)*s.AtVec(2))
		if xNorm > 0 && (sNorm/xNorm)*100 <= 0.01 {
			break
		}
		x.SubVec(x, &s)
	}
	return geometry.Vec3{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
}
