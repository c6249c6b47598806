package gradient

import (
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/utils"
	"gonum.org/v1/gonum/mat"
)

// linear3DDirect solves the 3x3 system of pairwise differences against the
// first sample directly — the "treat as solve the 3x3 explicitly" reading
// of Grad3D::ABM_grad (see DESIGN.md). When opts.Constrained is set, the
// plain 3x3 solve is replaced by RefineConstrained's penalty-constrained
// refinement toward opts.Norm (Grad.h's solveSystem, normally dead code in
// the source but reachable here through the same flag).
func linear3DDirect(samples []Sample, opts Options) (geometry.Vec3, error) {
	if len(samples) < 4 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	n0 := samples[0]
	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	for i := 0; i < 3; i++ {
		s := samples[i+1]
		a.SetRow(i, []float64{s.Pos.X - n0.Pos.X, s.Pos.Y - n0.Pos.Y, s.Pos.Z - n0.Pos.Z})
		b.SetVec(i, n0.T-s.T)
	}
	if opts.Constrained {
		return RefineConstrained(a, b, opts.Norm), nil
	}
	x, err := solve3x3(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: x[0], Y: x[1], Z: x[2]}, nil
}

// linear3DPlane fits T = a*x+b*y+c*z+d over exactly 4 tet vertices; the
// gradient of that plane is (-a,-b,-c) (Grad3D::ls_grad, plane form).
func linear3DPlane(samples []Sample) (geometry.Vec3, error) {
	if len(samples) < 4 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	a := mat.NewDense(4, 4, nil)
	b := mat.NewVecDense(4, nil)
	for i := 0; i < 4; i++ {
		s := samples[i]
		a.SetRow(i, []float64{s.Pos.X, s.Pos.Y, s.Pos.Z, 1})
		b.SetVec(i, s.T)
	}
	x, err := solve4x4(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: -x[0], Y: -x[1], Z: -x[2]}, nil
}

func solve4x4(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, ErrDegenerateSolve
	}
	out := make([]float64, 4)
	for i := 0; i < 4; i++ {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

// linear3DRecentered fits centered differences against an anchor (default
// centroid) over >=4 samples (Grad3D::ls_grad, recentered form and its
// node-set overload).
func linear3DRecentered(samples []Sample, opts Options) (geometry.Vec3, error) {
	if len(samples) < 4 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	anchor := anchorOf3(samples, opts)
	t := anchorTime3(anchor, samples)

	type row struct {
		dx, dy, dz, b float64
	}
	var rows []row
	for _, s := range samples {
		d := geometry.Dist3(s.Pos, anchor)
		if d == 0 {
			continue // coincident with anchor, drop (matches source's "remove" count)
		}
		rows = append(rows, row{s.Pos.X - anchor.X, s.Pos.Y - anchor.Y, s.Pos.Z - anchor.Z, t - s.T})
	}
	if len(rows) < 3 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	a := mat.NewDense(len(rows), 3, nil)
	b := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		a.SetRow(i, []float64{r.dx, r.dy, r.dz})
		b.SetVec(i, r.b)
	}
	x, err := leastSquares(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: x[0], Y: x[1], Z: x[2]}, nil
}

// highOrder3D fits the 9-term quadratic basis (dx,dy,dz,dx^2/2,dy^2/2,
// dz^2/2,dx*dy,dx*dz,dy*dz) over >=9 samples around the anchor (default
// centroid); the leading three coefficients are the gradient
// (Grad3D_ho::ls_grad).
func highOrder3D(samples []Sample, opts Options) (geometry.Vec3, error) {
	if len(samples) < 9 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	anchor := anchorOf3(samples, opts)
	t := anchorTime3(anchor, samples)

	type row struct {
		vals [9]float64
		b    float64
	}
	var rows []row
	for _, s := range samples {
		d := geometry.Dist3(s.Pos, anchor)
		if d == 0 {
			continue
		}
		dx := s.Pos.X - anchor.X
		dy := s.Pos.Y - anchor.Y
		dz := s.Pos.Z - anchor.Z
		rows = append(rows, row{
			vals: [9]float64{
				dx, dy, dz,
				0.5 * utils.POW(dx, 2), 0.5 * utils.POW(dy, 2), 0.5 * utils.POW(dz, 2),
				dx * dy, dx * dz, dy * dz,
			},
			b: t - s.T,
		})
	}
	if len(rows) < 9 {
		return geometry.Vec3{}, ErrInsufficientSamples
	}
	a := mat.NewDense(len(rows), 9, nil)
	b := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		a.SetRow(i, r.vals[:])
		b.SetVec(i, r.b)
	}
	x, err := leastSquares(a, b)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return geometry.Vec3{X: x[0], Y: x[1], Z: x[2]}, nil
}
