package placement

import (
	"fmt"

	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

type recordingAnimation struct {
	played []string
	err    error
}

func (a *recordingAnimation) Play(name string) error {
	a.played = append(a.played, name)
	return a.err
}

func (a *recordingAnimation) count(name string) int {
	n := 0
	for _, p := range a.played {
		if p == name {
			n++
		}
	}
	return n
}

type recordingAudio struct {
	played []int
	err    error
}

func (a *recordingAudio) Play(clip int) error {
	a.played = append(a.played, clip)
	return a.err
}

type fakeAgent struct {
	id        string
	pos       physics.Vec3
	rot       physics.Quat
	rotations int
	anim      *recordingAnimation
	audio     *recordingAudio
}

func (a *fakeAgent) ID() string                 { return a.id }
func (a *fakeAgent) Position() physics.Vec3     { return a.pos }
func (a *fakeAgent) SetPosition(p physics.Vec3) { a.pos = p }
func (a *fakeAgent) Rotation() physics.Quat     { return a.rot }
func (a *fakeAgent) SetRotation(r physics.Quat) { a.rot = r; a.rotations++ }
func (a *fakeAgent) Animation() AnimationCue    { return a.anim }
func (a *fakeAgent) Audio() AudioCue            { return a.audio }

type fakeSpawner struct {
	spawned []*fakeAgent
	poses   []physics.Pose
	prefabs []string
	err     error
	noCaps  bool
}

func (s *fakeSpawner) Spawn(prefab string, pose physics.Pose) (Agent, error) {
	if s.err != nil {
		return nil, s.err
	}
	a := &fakeAgent{
		id:    fmt.Sprintf("agent-%d", len(s.spawned)+1),
		pos:   pose.Position,
		rot:   pose.Rotation,
		anim:  &recordingAnimation{},
		audio: &recordingAudio{},
	}
	s.spawned = append(s.spawned, a)
	s.poses = append(s.poses, pose)
	s.prefabs = append(s.prefabs, prefab)
	if s.noCaps {
		return &capless{a}, nil
	}
	return a, nil
}

func (s *fakeSpawner) last() *fakeAgent { return s.spawned[len(s.spawned)-1] }

type capless struct{ *fakeAgent }

func (capless) Animation() AnimationCue { return nil }

// scriptedRaycaster returns the hit queued for the current call, or the
// fallback when the queue is empty. A nil entry is a miss.
type scriptedRaycaster struct {
	queue    [][]Hit
	fallback []Hit
	calls    int
}

func (r *scriptedRaycaster) Raycast(physics.Vec2) []Hit {
	r.calls++
	if len(r.queue) > 0 {
		h := r.queue[0]
		r.queue = r.queue[1:]
		return h
	}
	return r.fallback
}

func hitAt(x, y, z float64) []Hit {
	return []Hit{{Pose: physics.NewPose(physics.V3(x, y, z), physics.Identity()), SurfaceID: "floor"}}
}
