package gradient

import (
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/utils"
	"gonum.org/v1/gonum/mat"
)

// rm4D fits {x, y, z, 1} with diagonal weights 1/d^2 (d = distance to the
// query point) and b = -T; the gradient is the fit's first three
// coefficients directly, since the basis is already linear in the absolute
// coordinates rather than centered differences (Grad3D::RM4D_grad).
func rm4D(samples []Sample, opts Options) (geometry.Vec3, error) {
	if len(samples) < 5 || !opts.HasAnchor {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	n := len(samples)
	a := mat.NewDense(n, 4, nil)
	b := mat.NewVecDense(n, nil)
	for i, s := range samples {
		w := 1 / squaredDist3(s.Pos, opts.Anchor)
		a.SetRow(i, []float64{w * s.Pos.X, w * s.Pos.Y, w * s.Pos.Z, w})
		b.SetVec(i, -w*s.T)
	}
	x, err := leastSquares(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: x[0], Y: x[1], Z: x[2]}, nil
}

// freconstruction fits the full trilinear basis {1,x,y,z,xy,xz,yz,xyz} with
// weights 1/d^4 and b=-T, then evaluates the gradient of that fitted field
// analytically at the query point (Grad3D::FReconstraction_grad).
func freconstruction(samples []Sample, opts Options) (geometry.Vec3, error) {
	if len(samples) < 8 || !opts.HasAnchor {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	x, err := trilinearFit(samples, opts.Anchor, true)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return evalTrilinearGradient(x, opts.Anchor), nil
}

// interpGrad fits the same trilinear basis unweighted, again evaluated
// analytically at the query point (Grad3D::Interp_grad).
func interpGrad(samples []Sample, opts Options) (geometry.Vec3, error) {
	if len(samples) < 8 || !opts.HasAnchor {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	x, err := trilinearFit(samples, opts.Anchor, false)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return evalTrilinearGradient(x, opts.Anchor), nil
}

func squaredDist3(a, b geometry.Vec3) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// trilinearFit assembles and solves the 8-column {1,x,y,z,xy,xz,yz,xyz}
// system, with weights 1/d^4 to the anchor when weighted is true.
func trilinearFit(samples []Sample, anchor geometry.Vec3, weighted bool) ([]float64, error) {
	n := len(samples)
	a := mat.NewDense(n, 8, nil)
	b := mat.NewVecDense(n, nil)
	for i, s := range samples {
		px, py, pz := s.Pos.X, s.Pos.Y, s.Pos.Z
		row := []float64{1, px, py, pz, px * py, px * pz, py * pz, px * py * pz}
		w := 1.0
		if weighted {
			d2 := squaredDist3(s.Pos, anchor)
			w = 1 / utils.POW(d2, 2)
		}
		for j := range row {
			row[j] *= w
		}
		a.SetRow(i, row)
		b.SetVec(i, -w*s.T)
	}
	return leastSquares(a, b)
}

// evalTrilinearGradient evaluates the analytic gradient of
// f(x,y,z) = x0 + x1 x + x2 y + x3 z + x4 xy + x5 xz + x6 yz + x7 xyz
// at point p.
func evalTrilinearGradient(x []float64, p geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{
		X: x[1] + x[4]*p.Y + x[5]*p.Z + x[7]*p.Y*p.Z,
		Y: x[2] + x[4]*p.X + x[6]*p.Z + x[7]*p.X*p.Z,
		Z: x[3] + x[5]*p.X + x[6]*p.Y + x[7]*p.X*p.Y,
	}
}
