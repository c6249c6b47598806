package geometry

// InsideTriangle2D reports whether p lies inside (or on the boundary of)
// the triangle v0,v1,v2, using the barycentric-determinant test from
// mathworld.wolfram.com/TriangleInterior.html.
func InsideTriangle2D(p, v0, v1, v2 Vec2) bool {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	invDenom := 1. / Det2(e1, e2)
	pv0 := p.Sub(v0)
	a := Det2(pv0, e2) * invDenom
	b := -Det2(pv0, e1) * invDenom
	return a >= 0. && b >= 0. && a+b <= 1.
}

// InsideTriangle3D reports whether p lies inside (or on the boundary of)
// the triangle a,b,c embedded in 3D, via three co-oriented cross products.
func InsideTriangle3D(p, a, b, c Vec3) bool {
	a = a.Sub(p)
	b = b.Sub(p)
	c = c.Sub(p)
	u := Cross3(b, c)
	v := Cross3(c, a)
	if Dot3(u, v) < 0 {
		return false
	}
	w := Cross3(a, b)
	if Dot3(u, w) < 0 {
		return false
	}
	return true
}

// InsideTet reports whether p lies inside (or on the boundary of) the
// tetrahedron with vertices v0..v3: the signed volume of p with each face
// must agree in sign with the signed volume of the whole tet.
func InsideTet(p, v0, v1, v2, v3 Vec3) bool {
	signs := make([]float64, 0, 4)
	tets := [4][4]Vec3{
		{p, v1, v2, v3},
		{v0, p, v2, v3},
		{v0, v1, p, v3},
		{v0, v1, v2, p},
	}
	for _, t := range tets {
		signs = append(signs, signedVolume6(t[0], t[1], t[2], t[3]))
	}
	total := signedVolume6(v0, v1, v2, v3)
	if total == 0 {
		return false
	}
	for _, s := range signs {
		if total > 0 && s < -1e-12 {
			return false
		}
		if total < 0 && s > 1e-12 {
			return false
		}
	}
	return true
}

func signedVolume6(a, b, c, d Vec3) float64 {
	return Dot3(Cross3(b.Sub(a), c.Sub(a)), d.Sub(a))
}

// RayTriangleIntersect solves p0 + t*dir = a + u*(b-a) + v*(c-a) for the
// ray parameter t and the triangle's barycentric coordinates (u, v, with
// w = 1-u-v implied), the standard Moller-Trumbore formulation. ok is
// false only when dir lies in the triangle's plane (det == 0); callers
// still need to check t and the barycentric bounds themselves to know
// whether the intersection lands inside the triangle and ahead of p0.
func RayTriangleIntersect(p0, dir, a, b, c Vec3) (t, u, v float64, ok bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := Cross3(dir, e2)
	det := Dot3(e1, pvec)
	if det == 0 {
		return 0, 0, 0, false
	}
	invDet := 1 / det
	tvec := p0.Sub(a)
	u = Dot3(tvec, pvec) * invDet
	qvec := Cross3(tvec, e1)
	v = Dot3(dir, qvec) * invDet
	t = Dot3(e2, qvec) * invDet
	return t, u, v, true
}

// ProjectToTriangle computes the barycentric coordinates (alpha, beta,
// gamma) of the projection of p onto the plane of triangle a,b,c, using
// Heidrich's cross-product method, and the projected point itself.
func ProjectToTriangle(p, a, b, c Vec3) (alpha, beta, gamma float64, proj Vec3) {
	n := Cross3(b.Sub(a), c.Sub(a))
	nLen2 := Dot3(n, n)
	if nLen2 == 0 {
		return 0, 0, 0, a
	}
	gamma = Dot3(Cross3(b.Sub(a), p.Sub(a)), n) / nLen2
	beta = Dot3(Cross3(p.Sub(a), c.Sub(a)), n) / nLen2
	alpha = 1 - beta - gamma
	proj = a.Scale(alpha).Add(b.Scale(beta)).Add(c.Scale(gamma))
	return
}
