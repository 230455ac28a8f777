package vmath

// Normal returns the (normalized) face normal of triangle a, b, c.
func Normal(tri [3]Vec3) Vec3 {
	a, b, c := tri[0], tri[1], tri[2]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Barycentric returns the barycentric coordinates (u, v, w) of point p with
// respect to triangle tri, with u+v+w == 1. Uses the triangle's normal and
// signed sub-areas (gamedev.stackexchange.com/questions/23743).
func Barycentric(p Vec3, tri [3]Vec3) Vec3 {
	a, b, c := tri[0], tri[1], tri[2]
	n := Normal(tri)

	areaABC := n.Dot(b.Sub(a).Cross(c.Sub(a)))
	areaPBC := n.Dot(b.Sub(p).Cross(c.Sub(p)))
	areaPCA := n.Dot(c.Sub(p).Cross(a.Sub(p)))

	u := areaPBC / areaABC
	v := areaPCA / areaABC

	return Vec3{u, v, 1 - (u + v)}
}

// ClosestPointOnTriangle returns the point on the closed surface of triangle
// tri closest to p, using Voronoi-region classification over the vertex,
// edge and face regions.
//
// Ported from the Embree tutorials' closest_point.h reference algorithm.
func ClosestPointOnTriangle(p Vec3, tri [3]Vec3) Vec3 {
	a, b, c := tri[0], tri[1], tri[2]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		v := d2 / (d2 - d6)
		return a.Add(ac.Mul(v))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		v := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(v))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// RemEuclid returns the non-negative remainder of a/m, matching Rust's
// f32::rem_euclid used to wrap UV coordinates into [0, 1).
func RemEuclid(a, m float32) float32 {
	r := a - m*float32(int64(a/m))
	if r < 0 {
		r += m
	}
	// Guard the case a/m truncation overshoots for negative a.
	if r >= m {
		r -= m
	}
	return r
}
