package scene

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// World holds the camera and the tracked surfaces.
type World struct {
	mu       sync.RWMutex
	camera   Camera
	surfaces []Surface
}

func NewWorld(camera Camera, surfaces ...Surface) (*World, error) {
	if err := camera.Validate(); err != nil {
		return nil, err
	}
	w := &World{camera: camera}
	for _, s := range surfaces {
		if err := w.AddSurface(s); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// AddSurface starts tracking s. Surface ids are unique.
func (w *World) AddSurface(s Surface) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %q", err, s.ID)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, o := range w.surfaces {
		if o.ID == s.ID {
			return fmt.Errorf("%w: %q", ErrDuplicateSurface, s.ID)
		}
	}
	w.surfaces = append(w.surfaces, s)
	return nil
}

// RemoveSurface stops tracking the surface with id and reports whether it existed.
func (w *World) RemoveSurface(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := slices.IndexFunc(w.surfaces, func(s Surface) bool { return s.ID == id })
	if i < 0 {
		return false
	}
	w.surfaces = slices.Delete(w.surfaces, i, i+1)
	return true
}

func (w *World) Surfaces() []Surface {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.surfaces)
}

func (w *World) Camera() Camera {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.camera
}

// SetViewport resizes the camera's screen.
func (w *World) SetViewport(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.camera.Width, w.camera.Height = width, height
}

// Raycaster casts screen rays through the world camera.
type Raycaster struct {
	world *World
}

func NewRaycaster(w *World) *Raycaster { return &Raycaster{world: w} }

// Raycast returns every surface hit under the screen point, nearest first.
// Ties are broken by surface id so results are stable.
func (r *Raycaster) Raycast(screen physics.Vec2) []placement.Hit {
	r.world.mu.RLock()
	defer r.world.mu.RUnlock()

	origin, dir := r.world.camera.ScreenPointToRay(screen)
	var hits []placement.Hit
	for _, s := range r.world.surfaces {
		p, dist, ok := s.Intersect(origin, dir)
		if !ok {
			continue
		}
		hits = append(hits, placement.Hit{
			Pose:      physics.NewPose(p, s.Rotation()),
			Distance:  dist,
			SurfaceID: s.ID,
		})
	}
	slices.SortFunc(hits, func(a, b placement.Hit) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.SurfaceID, b.SurfaceID)
	})
	return hits
}
