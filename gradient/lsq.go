package gradient

import (
	"math"

	"github.com/ffigura/ttcr/utils"
	"gonum.org/v1/gonum/mat"
)

// leastSquares solves A x = b for the over-determined system A (n x k),
// k <= n, the gonum analogue of the original's
// A.jacobiSvd(ComputeFullU|ComputeFullV).solve(b): mat.VecDense.SolveVec performs
// an orthogonal-decomposition least-squares solve for non-square A.
// The condition number of A (via SVD) is checked separately to flag
// DegenerateSolve before the possibly-meaningless solution is trusted.
func leastSquares(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	rows, cols := a.Dims()
	if rows < cols {
		return nil, ErrInsufficientSamples
	}
	if utils.ConditionNumber(a) > conditionThreshold {
		return nil, ErrDegenerateSolve
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, ErrDegenerateSolve
	}
	out := make([]float64, cols)
	for i := 0; i < cols; i++ {
		v := x.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrDegenerateSolve
		}
		out[i] = v
	}
	return out, nil
}

// solve3x3 solves the square 3x3 system A x = b directly, the "treat as
// solve the 3x3 system explicitly" reading of ABM_grad's Dynamic,8-declared
// but 3x3-resized matrix (see DESIGN.md's Open Question decision).
func solve3x3(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, ErrDegenerateSolve
	}
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v := x.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrDegenerateSolve
		}
		out[i] = v
	}
	return out, nil
}
