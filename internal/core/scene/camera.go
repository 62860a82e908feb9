package scene

import (
	"math"

	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Camera is a pinhole camera. Screen coordinates are in cells with the origin
// at the top left corner and Y growing downwards.
type Camera struct {
	Position physics.Vec3 `json:"position" yaml:"position"`
	Rotation physics.Quat `json:"rotation" yaml:"rotation"`
	// FOV is the vertical field of view in degrees.
	FOV    float64 `json:"fov" yaml:"fov"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	// PixelAspect is the height of one cell divided by its width. Terminal
	// cells are roughly twice as tall as they are wide.
	PixelAspect float64 `json:"pixel_aspect" yaml:"pixel_aspect"`
}

// TopDown returns a camera at height looking straight down, with world +Z at
// the top of the screen and +X to the right.
func TopDown(height, fov float64, width, rows int) Camera {
	return Camera{
		Position:    physics.V3(0, height, 0),
		Rotation:    physics.LookRotation(physics.Up.Scale(-1), physics.Forward),
		FOV:         fov,
		Width:       width,
		Height:      rows,
		PixelAspect: 2,
	}
}

func (c Camera) Validate() error {
	if !(c.FOV > 0 && c.FOV < 180) || !(c.PixelAspect > 0) {
		return ErrInvalidCamera
	}
	return nil
}

func (c Camera) tanHalf() float64 { return math.Tan(c.FOV * math.Pi / 360) }

func (c Camera) aspect() float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float64(c.Width) / (float64(c.Height) * c.PixelAspect)
}

// ScreenPointToRay returns the world space ray through a screen point. The
// direction is unit length.
func (c Camera) ScreenPointToRay(p physics.Vec2) (origin, dir physics.Vec3) {
	w, h := float64(max(c.Width, 1)), float64(max(c.Height, 1))
	nx := 2*p.X/w - 1
	ny := 1 - 2*p.Y/h

	t := c.tanHalf()
	local := physics.V3(nx*t*c.aspect(), ny*t, 1)
	return c.Position, c.Rotation.Rotate(local).Normalize()
}

// WorldToScreen projects p onto the screen. It reports false for points
// behind the camera.
func (c Camera) WorldToScreen(p physics.Vec3) (physics.Vec2, bool) {
	local := c.Rotation.Conjugate().Rotate(p.Sub(c.Position))
	if local.Z <= 1e-9 {
		return physics.Vec2{}, false
	}
	t := c.tanHalf()
	nx := local.X / (local.Z * t * c.aspect())
	ny := local.Y / (local.Z * t)

	w, h := float64(max(c.Width, 1)), float64(max(c.Height, 1))
	return physics.V2((nx+1)*w/2, (1-ny)*h/2), true
}
