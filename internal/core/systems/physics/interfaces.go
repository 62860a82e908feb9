package physics

// Lightweight spatial abstractions shared by placement logic and scene adapters.
// World space is Y-up with +Z as forward.

// Transform is a mutable position and orientation in world space.
type Transform interface {
	Position() Vec3
	SetPosition(p Vec3)
	Rotation() Quat
	SetRotation(r Quat)
}

// Pose is an immutable position and orientation pair.
type Pose struct {
	Position Vec3 `json:"position" yaml:"position"`
	Rotation Quat `json:"rotation" yaml:"rotation"`
}

// NewPose builds a pose from a position and rotation.
func NewPose(p Vec3, r Quat) Pose { return Pose{Position: p, Rotation: r} }

var (
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)
