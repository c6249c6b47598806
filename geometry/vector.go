// Package geometry provides pure vector and point-primitive tests used by
// the mesh, gradient, eikonal and ray-path packages: dot/cross products,
// norms, determinants, point-in-simplex tests and barycentric projection.
package geometry

import "math"

// Vec2 is a 2-component vector (x, z in the source's sxz convention).
type Vec2 struct {
	X, Z float64
}

// Vec3 is a 3-component vector (x, y, z).
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Z - b.Z} }
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Z + b.Z} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Z * s} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Det2 is the 2D cross product (determinant of the 2x2 matrix [a;b]).
func Det2(a, b Vec2) float64 {
	return a.X*b.Z - a.Z*b.X
}

func Dot2(a, b Vec2) float64 { return a.X*b.X + a.Z*b.Z }
func Dot3(a, b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func Cross3(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func Norm2(a Vec2) float64 { return math.Hypot(a.X, a.Z) }
func Norm3(a Vec3) float64 { return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z) }

// Dist2 and Dist3 are Euclidean distances between two points.
func Dist2(a, b Vec2) float64 { return Norm2(a.Sub(b)) }
func Dist3(a, b Vec3) float64 { return Norm3(a.Sub(b)) }
