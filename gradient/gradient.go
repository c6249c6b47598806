// Package gradient recovers the gradient of a scalar time field over a node
// star by weighted least squares: an inverse-distance-weighted anchor time
// is formed, then a Taylor-expansion system A x = b is solved for the
// leading derivatives, with higher-order variants adding quadratic and
// cross terms, or a full trilinear basis evaluated analytically at the
// query point.
//
// This consolidates what the source spread across Grad2D, Grad2D_ho,
// Grad3D and Grad3D_ho into one dispatcher selecting (dimension, order,
// weighting) via Method.
package gradient

import (
	"errors"
	"math"

	"github.com/ffigura/ttcr/geometry"
)

// Method selects the basis, weighting and dimensionality of the
// least-squares gradient recovery.
type Method int

const (
	// Linear2D fits a plane to 3 or more nodes, typically the triangle
	// vertices (Grad2D::ls_grad).
	Linear2D Method = iota
	// HighOrder2D fits {dx,dz,dx^2,dz^2,dx*dz} over >=5 nodes (Grad2D_ho::ls_grad).
	HighOrder2D
	// Linear3DDirect solves the 3x3 system of differences against n0 directly
	// (Grad3D::ABM_grad, an explicit 3x3 solve — see DESIGN.md).
	Linear3DDirect
	// Linear3DPlane fits T = a*x+b*y+c*z+d over exactly 4 tet vertices; the
	// gradient is (-a,-b,-c) (Grad3D::ls_grad, 4-node plane form).
	Linear3DPlane
	// Linear3DRecentered fits centered differences against an anchor over
	// >=4 nodes (Grad3D::ls_grad, recentered form).
	Linear3DRecentered
	// HighOrder3D fits the 9-term quadratic basis over >=9 nodes
	// (Grad3D_ho::ls_grad).
	HighOrder3D
	// RM4D fits {x,y,z,1} with weights 1/d^2, b=-T (Grad3D::RM4D_grad).
	RM4D
	// FReconstruction fits the full trilinear basis with weights 1/d^4,
	// gradient evaluated analytically at the query point
	// (Grad3D::FReconstraction_grad).
	FReconstruction
	// Interp fits the full trilinear basis unweighted, gradient evaluated
	// analytically at the query point (Grad3D::Interp_grad).
	Interp
)

// Sample is one node of the support star: its position and its current
// traveltime.
type Sample struct {
	Pos geometry.Vec3
	T   float64
}

// Options configures a Recover call. Anchor is used only when HasAnchor is
// set. Without it, the 3D centroid-based variants anchor on the centroid of
// the samples, Linear2D and HighOrder2D always use the centroid, and the
// query-point variants (RM4D, FReconstruction, Interp) return
// ErrInsufficientSamples.
type Options struct {
	Anchor      geometry.Vec3
	HasAnchor   bool
	Constrained bool    // gate RefineConstrained (solveSystem), default off
	Norm        float64 // target gradient norm for RefineConstrained
}

var (
	// ErrInsufficientSamples is returned when a method's minimum node-star
	// size is not met.
	ErrInsufficientSamples = errors.New("gradient: insufficient samples for method")
	// ErrDegenerateSolve is returned when the least-squares system is
	// rank-deficient (collinear/coplanar star) or yields NaN.
	ErrDegenerateSolve = errors.New("gradient: degenerate least-squares solve")
)

// conditionThreshold above which a least-squares solve is treated as
// DegenerateSolve even though mat.VecDense.SolveVec would return without error —
// mirrors the intent of checking for NaN/rank deficiency in the source.
const conditionThreshold = 1e12

// Recover dispatches to the variant selected by method. samples must be
// ordered the same way every call for a given node star (callers typically
// pass the mesh neighbor-node list directly); minimum sizes are 3 for
// Linear2D, 5 for HighOrder2D, 4 for Linear3DDirect, 4 for Linear3DPlane and
// Linear3DRecentered, 9 for HighOrder3D, 5 for RM4D, 8 for FReconstruction
// and Interp.
func Recover(method Method, samples []Sample, opts Options) (geometry.Vec3, error) {
	switch method {
	case Linear2D:
		return linear2D(samples)
	case HighOrder2D:
		return highOrder2D(samples)
	case Linear3DDirect:
		return linear3DDirect(samples, opts)
	case Linear3DPlane:
		return linear3DPlane(samples)
	case Linear3DRecentered:
		return linear3DRecentered(samples, opts)
	case HighOrder3D:
		return highOrder3D(samples, opts)
	case RM4D:
		return rm4D(samples, opts)
	case FReconstruction:
		return freconstruction(samples, opts)
	case Interp:
		return interpGrad(samples, opts)
	default:
		return geometry.Vec3{}, errors.New("gradient: unknown method")
	}
}

func centroid2(samples []Sample) geometry.Vec2 {
	var c geometry.Vec2
	for _, s := range samples {
		c.X += s.Pos.X
		c.Z += s.Pos.Z
	}
	n := float64(len(samples))
	return geometry.Vec2{X: c.X / n, Z: c.Z / n}
}

func centroid3(samples []Sample) geometry.Vec3 {
	var c geometry.Vec3
	for _, s := range samples {
		c.X += s.Pos.X
		c.Y += s.Pos.Y
		c.Z += s.Pos.Z
	}
	n := float64(len(samples))
	return geometry.Vec3{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// anchorTime2/anchorTime3 compute the inverse-distance-weighted time at the
// anchor, removing any sample exactly coincident with the anchor by
// short-circuiting to its own time (matches the source's d==0 guard).
func anchorTime2(anchor geometry.Vec2, samples []Sample) float64 {
	var num, den float64
	for _, s := range samples {
		dx := s.Pos.X - anchor.X
		dz := s.Pos.Z - anchor.Z
		d := math.Hypot(dx, dz)
		if d == 0 {
			return s.T
		}
		w := 1 / d
		num += w * s.T
		den += w
	}
	return num / den
}

func anchorTime3(anchor geometry.Vec3, samples []Sample) float64 {
	var num, den float64
	for _, s := range samples {
		d := geometry.Dist3(s.Pos, anchor)
		if d == 0 {
			return s.T
		}
		w := 1 / d
		num += w * s.T
		den += w
	}
	return num / den
}

func anchorOf3(samples []Sample, opts Options) geometry.Vec3 {
	if opts.HasAnchor {
		return opts.Anchor
	}
	return centroid3(samples)
}
