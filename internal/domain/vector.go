package domain

import "math"

// Vector3 is a three-component single-precision vector used throughout the
// spatial world and as the generic "position" type for entities.
type Vector3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSq returns the squared length of v.
func (v Vector3) LengthSq() float32 {
	return v.Dot(v)
}

// Length returns the length of v.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// Normalized returns v scaled to unit length. Zero-length vectors return the
// canonical axis (0,1,0) rather than dividing by zero, so degenerate
// normals stay unit length.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l <= 1e-12 {
		return Vector3{0, 1, 0}
	}
	return v.Scale(1 / l)
}

// Min returns the component-wise minimum of a and b.
func Min(a, b Vector3) Vector3 {
	return Vector3{minf(a.X, b.X), minf(a.Y, b.Y), minf(a.Z, b.Z)}
}

// Max returns the component-wise maximum of a and b.
func Max(a, b Vector3) Vector3 {
	return Vector3{maxf(a.X, b.X), maxf(a.Y, b.Y), maxf(a.Z, b.Z)}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// IsFiniteVector3 reports whether none of v's components are NaN or +-Inf.
// Narrow-phase tests use this to detect degenerate geometry and report
// "no hit" instead of propagating NaN.
func IsFiniteVector3(v Vector3) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
