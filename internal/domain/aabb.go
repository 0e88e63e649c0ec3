package domain

// AABB is an axis-aligned bounding box in world space. The invariant
// Min <= Max (component-wise) is maintained by every constructor below;
// callers that build one by hand must preserve it.
type AABB struct {
	Min, Max Vector3
}

// Merge returns the smallest AABB containing both a and b (component-wise
// min/max).
func (a AABB) Merge(b AABB) AABB {
	return AABB{Min: Min(a.Min, b.Min), Max: Max(a.Max, b.Max)}
}

// Expand returns a grown by r in every direction, used to pad a swept
// query's bounds.
func (a AABB) Expand(r float32) AABB {
	pad := Vector3{r, r, r}
	return AABB{Min: a.Min.Sub(pad), Max: a.Max.Add(pad)}
}

// Overlaps reports whether a and b intersect (touching counts as overlap).
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Contains reports whether p lies within a (inclusive of the boundary).
func (a AABB) Contains(p Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Center returns the AABB's midpoint.
func (a AABB) Center() Vector3 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// HalfExtents returns half the AABB's size along each axis.
func (a AABB) HalfExtents() Vector3 {
	return a.Max.Sub(a.Min).Scale(0.5)
}

// FromPoint returns a zero-volume AABB located at p.
func FromPoint(p Vector3) AABB {
	return AABB{Min: p, Max: p}
}

// FromPoints returns the smallest AABB containing first and every point in
// rest.
func FromPoints(first Vector3, rest ...Vector3) AABB {
	box := FromPoint(first)
	for _, p := range rest {
		box = box.Merge(FromPoint(p))
	}
	return box
}

// ClosestPointOnSegment returns the closest point on segment [a,b] to p,
// along with the parametric t in [0,1] at which it occurs. Degenerate
// (zero-length) segments return a with t=0.
func ClosestPointOnSegment(a, b, p Vector3) (Vector3, float32) {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq <= 1e-12 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t)), t
}

// ClosestPointsOnSegments returns the closest points between segments
// [a0,a1] and [b0,b1], and the parametric values at which they occur. Used
// by capsule-capsule/cylinder narrow-phase tests.
func ClosestPointsOnSegments(a0, a1, b0, b1 Vector3) (onA, onB Vector3, s, t float32) {
	d1 := a1.Sub(a0)
	d2 := b1.Sub(b0)
	r := a0.Sub(b0)

	aLen := d1.Dot(d1)
	eLen := d2.Dot(d2)
	f := d2.Dot(r)

	const eps = 1e-12
	if aLen <= eps && eLen <= eps {
		return a0, b0, 0, 0
	}
	if aLen <= eps {
		s = 0
		t = clamp01(f / eLen)
	} else {
		c := d1.Dot(r)
		if eLen <= eps {
			t = 0
			s = clamp01(-c / aLen)
		} else {
			b := d1.Dot(d2)
			denom := aLen*eLen - b*b
			if denom > eps {
				s = clamp01((b*f - c*eLen) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / eLen
			if t < 0 {
				t = 0
				s = clamp01(-c / aLen)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / aLen)
			}
		}
	}

	onA = a0.Add(d1.Scale(s))
	onB = b0.Add(d2.Scale(t))
	return onA, onB, s, t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
