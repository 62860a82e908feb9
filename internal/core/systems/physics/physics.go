package physics

import "math"

// Simple concrete value types for vectors.

type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func V2(x, y float64) Vec2    { return Vec2{X: x, Y: y} }
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vec3) IsZero() bool            { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vec3) Distance(o Vec3) float64 { return o.Sub(v).Length() }

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v is too short to carry a direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// MoveTowards moves cur toward target by at most maxDelta. When the target is
// within reach the target itself is returned, so the result never overshoots.
func MoveTowards(cur, target Vec3, maxDelta float64) Vec3 {
	delta := target.Sub(cur)
	dist := delta.Length()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return cur.Add(delta.Scale(maxDelta / dist))
}
