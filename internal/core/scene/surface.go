package scene

import (
	"math"

	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Surface is a tracked horizontal rectangle facing up.
type Surface struct {
	ID     string       `json:"id" yaml:"id"`
	Center physics.Vec3 `json:"center" yaml:"center"`
	HalfX  float64      `json:"half_x" yaml:"half_x"`
	HalfZ  float64      `json:"half_z" yaml:"half_z"`
	// Yaw turns the rectangle about the up axis, in degrees.
	Yaw float64 `json:"yaw" yaml:"yaw"`
}

func (s Surface) Validate() error {
	if s.ID == "" || !(s.HalfX > 0) || !(s.HalfZ > 0) {
		return ErrInvalidSurface
	}
	return nil
}

// Rotation is the orientation reported for hits on the surface.
func (s Surface) Rotation() physics.Quat { return physics.Yaw(s.Yaw) }

// Contains reports whether p, projected onto the surface plane, lies inside
// the rectangle. Edges are inclusive.
func (s Surface) Contains(p physics.Vec3) bool {
	local := physics.Yaw(-s.Yaw).Rotate(p.Sub(s.Center))
	const slack = 1e-9
	return math.Abs(local.X) <= s.HalfX+slack && math.Abs(local.Z) <= s.HalfZ+slack
}

// Intersect returns where the ray meets the surface plane and the distance
// along dir, which must be unit length. Hits outside the rectangle, behind
// the origin, or with a ray parallel to the plane report false.
func (s Surface) Intersect(origin, dir physics.Vec3) (physics.Vec3, float64, bool) {
	if math.Abs(dir.Y) < 1e-9 {
		return physics.Vec3{}, 0, false
	}
	t := (s.Center.Y - origin.Y) / dir.Y
	if t < 0 {
		return physics.Vec3{}, 0, false
	}
	p := origin.Add(dir.Scale(t))
	// pin the point onto the plane to drop rounding on Y
	p.Y = s.Center.Y
	if !s.Contains(p) {
		return physics.Vec3{}, 0, false
	}
	return p, t, true
}
