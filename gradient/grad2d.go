package gradient

import (
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/utils"
	"gonum.org/v1/gonum/mat"
)

// linear2D fits a plane to 3 or more samples: centroid anchor, inverse-
// distance weighted anchor time, least squares on columns (dx, dz)
// (Grad2D::ls_grad).
func linear2D(samples []Sample) (geometry.Vec3, error) {
	if len(samples) < 3 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	cent := centroid2(samples)
	t := anchorTime2(cent, samples)

	n := len(samples)
	a := mat.NewDense(n, 2, nil)
	b := mat.NewVecDense(n, nil)
	for i, s := range samples {
		dx := s.Pos.X - cent.X
		dz := s.Pos.Z - cent.Z
		a.SetRow(i, []float64{dx, dz})
		b.SetVec(i, t-s.T)
	}
	x, err := leastSquares(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: x[0], Z: x[1]}, nil
}

// highOrder2D fits {dx, dz, dx^2, dz^2, dx*dz} over >=5 samples around the
// centroid (Grad2D_ho::ls_grad); the first two coefficients are the
// gradient.
func highOrder2D(samples []Sample) (geometry.Vec3, error) {
	if len(samples) < 5 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	cent := centroid2(samples)
	t := anchorTime2(cent, samples)

	n := len(samples)
	a := mat.NewDense(n, 5, nil)
	b := mat.NewVecDense(n, nil)
	for i, s := range samples {
		dx := s.Pos.X - cent.X
		dz := s.Pos.Z - cent.Z
		a.SetRow(i, []float64{dx, dz, utils.POW(dx, 2), utils.POW(dz, 2), dx * dz})
		b.SetVec(i, t-s.T)
	}
	x, err := leastSquares(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: x[0], Z: x[1]}, nil
}
