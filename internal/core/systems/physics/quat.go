package physics

import "math"

// Quat is a rotation quaternion. The zero value is not a valid rotation; use Identity.
type Quat struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
	W float64 `json:"w" yaml:"w"`
}

// Identity returns the no-op rotation.
func Identity() Quat { return Quat{W: 1} }

// AxisAngle returns a rotation of rad radians about axis.
func AxisAngle(axis Vec3, rad float64) Quat {
	a := axis.Normalize()
	if a.IsZero() {
		return Identity()
	}
	s, c := math.Sincos(rad / 2)
	return Quat{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: c}
}

// Yaw returns a rotation of deg degrees about the world up axis.
// Positive angles turn +Z toward +X.
func Yaw(deg float64) Quat { return AxisAngle(Up, deg*math.Pi/180) }

// Mul composes q and r so that r is applied first, in q's local frame.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Normalize returns q scaled to unit length. A degenerate quaternion becomes Identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l < 1e-12 {
		return Identity()
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat { return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W} }

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward returns the direction +Z points to after rotation.
func (q Quat) Forward() Vec3 { return q.Rotate(Forward) }

// YawDegrees returns the heading of the rotated forward axis projected on the
// ground plane, in degrees, 0 meaning +Z and 90 meaning +X.
func (q Quat) YawDegrees() float64 {
	f := q.Forward()
	return math.Atan2(f.X, f.Z) * 180 / math.Pi
}

// ApproxEqual reports whether q and r describe the same rotation within eps.
// q and -q are treated as equal.
func (q Quat) ApproxEqual(r Quat, eps float64) bool {
	dot := q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
	return math.Abs(math.Abs(dot)-1) <= eps
}

// LookRotation returns the rotation whose forward axis points along forward and
// whose up axis is as close to up as possible. A zero forward yields Identity.
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f.IsZero() {
		return Identity()
	}
	r := up.Cross(f).Normalize()
	if r.IsZero() {
		// forward is parallel to up, pick any perpendicular reference
		r = Forward.Cross(f).Normalize()
		if r.IsZero() {
			r = Right
		}
	}
	u := f.Cross(r)

	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{W: 0.25 / s, X: (m21 - m12) * s, Y: (m02 - m20) * s, Z: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{W: (m21 - m12) / s, X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s}
	}
	return q.Normalize()
}
