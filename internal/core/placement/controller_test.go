package placement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tapwalk/internal/core/events/bus"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

type rig struct {
	press   *PressTracker
	ray     *scriptedRaycaster
	spawner *fakeSpawner
	events  bus.EventBus
	ctrl    *Controller
}

func newRig(t *testing.T, mutate ...func(*Config)) *rig {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PlacedPrefab = "cat"
	for _, m := range mutate {
		m(&cfg)
	}
	r := &rig{
		press:   NewPressTracker(),
		ray:     &scriptedRaycaster{},
		spawner: &fakeSpawner{},
		events:  bus.New(),
	}
	ctrl, err := NewController(cfg, r.press, r.ray, r.spawner, WithEventBus(r.events))
	require.NoError(t, err)
	r.ctrl = ctrl
	return r
}

// tap presses for one frame on the given hits and releases.
func (r *rig) tap(t *testing.T, hits []Hit, dt float64) {
	t.Helper()
	r.ray.queue = append(r.ray.queue, hits)
	r.press.PressBegin(physics.V2(10, 10))
	require.NoError(t, r.ctrl.Tick(dt))
	r.press.PressEnd()
}

func TestNewControllerRequiresPrefab(t *testing.T) {
	_, err := NewController(DefaultConfig(), NewPressTracker(), &scriptedRaycaster{}, &fakeSpawner{})
	assert.ErrorIs(t, err, ErrPrefabRequired)
}

func TestNewControllerRejectsNilCollaborators(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PlacedPrefab = "cat"
	_, err := NewController(cfg, NewPressTracker(), nil, &fakeSpawner{})
	assert.ErrorIs(t, err, ErrNilCollaborator)
}

func TestNotPressedSkipsRaycast(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, r.ctrl.Tick(0.016))
	}
	assert.Zero(t, r.ray.calls)
	assert.Nil(t, r.ctrl.Agent())
	assert.Equal(t, uint64(10), r.ctrl.Frame())
}

func TestFirstHitSpawnsAndPlaysAudio(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(1, 0, 2), 0.016)

	require.Len(t, r.spawner.spawned, 1)
	agent := r.spawner.last()
	assert.Equal(t, "cat", r.spawner.prefabs[0])
	assert.Equal(t, physics.V3(1, 0, 2), agent.pos)
	assert.Equal(t, []int{0}, agent.audio.played)
	assert.Empty(t, agent.anim.played)
	assert.Equal(t, MotionIdle, r.ctrl.Motion())
	assert.Same(t, agent, r.ctrl.Agent())
}

func TestSpawnOnce(t *testing.T) {
	r := newRig(t)
	r.ray.fallback = hitAt(0, 0, 0)
	r.press.PressBegin(physics.V2(1, 1))
	for i := 0; i < 50; i++ {
		require.NoError(t, r.ctrl.Tick(0.016))
	}
	r.press.PressEnd()
	for i := 0; i < 5; i++ {
		r.tap(t, hitAt(float64(i), 0, 1), 0.016)
	}
	assert.Len(t, r.spawner.spawned, 1)
}

func TestMissesBeforeSpawnDoNotSpawn(t *testing.T) {
	r := newRig(t)
	r.tap(t, nil, 0.016)
	r.tap(t, []Hit{}, 0.016)
	assert.Empty(t, r.spawner.spawned)
	assert.Equal(t, 2, r.ray.calls)

	r.tap(t, hitAt(0, 0, 0), 0.016)
	assert.Len(t, r.spawner.spawned, 1)
}

func TestMissLeavesStateUntouched(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(0, 0, 0), 0.1)
	r.tap(t, hitAt(0, 0, 1), 0.1)

	target, _ := r.ctrl.Target()
	motion := r.ctrl.Motion()
	agent := r.spawner.last()
	anims, clips := len(agent.anim.played), len(agent.audio.played)

	// zero delta keeps the stepper from moving so only the decision is observed
	r.tap(t, nil, 0)

	after, _ := r.ctrl.Target()
	assert.Equal(t, target, after)
	assert.Equal(t, motion, r.ctrl.Motion())
	assert.Len(t, r.spawner.spawned, 1)
	assert.Len(t, agent.anim.played, anims)
	assert.Len(t, agent.audio.played, clips)
}

func TestNearestHitWins(t *testing.T) {
	r := newRig(t)
	r.tap(t, []Hit{
		{Pose: physics.NewPose(physics.V3(0, 0.7, 0), physics.Identity()), Distance: 1, SurfaceID: "table"},
		{Pose: physics.NewPose(physics.V3(0, 0, 0), physics.Identity()), Distance: 2, SurfaceID: "floor"},
	}, 0.016)
	assert.Equal(t, physics.V3(0, 0.7, 0), r.spawner.last().pos)
}

func TestSpawnOrientationAppliesYawCorrection(t *testing.T) {
	rotations := []physics.Quat{
		physics.Identity(),
		physics.Yaw(45),
		physics.Yaw(-130),
		physics.AxisAngle(physics.V3(1, 0, 1), 0.3),
	}
	for _, rot := range rotations {
		r := newRig(t)
		r.tap(t, []Hit{{Pose: physics.NewPose(physics.V3(0, 0, 0), rot)}}, 0.016)

		want := rot.Mul(physics.Yaw(DefaultYawCorrection))
		got := r.spawner.poses[0].Rotation
		assert.True(t, got.ApproxEqual(want, 1e-9), "hit %+v got %+v want %+v", rot, got, want)
	}
}

func TestSpawnOrientationUsesConfiguredYaw(t *testing.T) {
	r := newRig(t, func(c *Config) { c.YawCorrection = -90 })
	r.tap(t, hitAt(0, 0, 0), 0.016)
	fwd := r.spawner.poses[0].Rotation.Forward()
	assert.True(t, fwd.ApproxEqual(physics.V3(-1, 0, 0), 1e-9), "got %+v", fwd)
}

func TestRetargetSetsFacingAndCuesImmediately(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(0, 0, 0), 0.1)
	agent := r.spawner.last()

	r.tap(t, hitAt(3, 0, 4), 0.1)

	target, ok := r.ctrl.Target()
	require.True(t, ok)
	assert.Equal(t, physics.V3(3, 0, 4), target.Position)
	assert.True(t, target.Facing.ApproxEqual(physics.V3(0.6, 0, 0.8), 1e-12))
	assert.Equal(t, MotionMoving, r.ctrl.Motion())
	assert.Equal(t, []string{AnimWalk}, agent.anim.played)
	assert.Equal(t, []int{0, 0}, agent.audio.played)

	// the same frame already advanced toward the target
	assert.InDelta(t, 0.02, agent.pos.Length(), 1e-12)
	assert.True(t, agent.rot.Forward().ApproxEqual(target.Facing, 1e-9))
}

func TestMotionContinuesAfterRelease(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(0, 0, 0), 0.1)
	r.tap(t, hitAt(0, 0, 1), 0.1)
	agent := r.spawner.last()

	before := agent.pos.Z
	for i := 0; i < 10; i++ {
		require.NoError(t, r.ctrl.Tick(0.1))
	}
	assert.Greater(t, agent.pos.Z, before)
	assert.Equal(t, 2, r.ray.calls)
}

func TestFacingFixedPerLeg(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(0, 0, 0), 0.1)
	r.tap(t, hitAt(2, 0, 1), 0.1)
	agent := r.spawner.last()
	target, _ := r.ctrl.Target()
	facing := target.Facing
	rot := agent.rot

	for i := 0; i < 20; i++ {
		// nudge the agent off its line; facing must not follow
		agent.pos = agent.pos.Add(physics.V3(0, 0, 0.001))
		require.NoError(t, r.ctrl.Tick(0.1))
		cur, _ := r.ctrl.Target()
		require.Equal(t, facing, cur.Facing)
		require.True(t, agent.rot.ApproxEqual(rot, 1e-12))
	}
}

func TestIdempotentRetarget(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(0, 0, 0), 0.1)
	r.tap(t, hitAt(0, 0, 1), 0.1)
	first, _ := r.ctrl.Target()
	agent := r.spawner.last()

	r.tap(t, hitAt(0, 0, 1), 0.1)

	second, _ := r.ctrl.Target()
	assert.Equal(t, first, second)
	assert.Len(t, r.spawner.spawned, 1)
	assert.Equal(t, MotionMoving, r.ctrl.Motion())
	assert.Equal(t, 1, agent.anim.count(AnimWalk))
	assert.InDelta(t, 0.04, agent.pos.Z, 1e-12)
}

func TestHeldPressOnIdleAgentDoesNotRestartCues(t *testing.T) {
	r := newRig(t)
	r.ray.fallback = hitAt(0, 0, 0)
	r.press.PressBegin(physics.V2(0, 0))
	for i := 0; i < 30; i++ {
		require.NoError(t, r.ctrl.Tick(0.016))
	}
	agent := r.spawner.last()
	assert.Empty(t, agent.anim.played)
	assert.Equal(t, []int{0}, agent.audio.played)
}

func TestDragRetargetsAlongPointer(t *testing.T) {
	r := newRig(t)
	r.tap(t, hitAt(0, 0, 0), 0.1)
	r.press.PressBegin(physics.V2(0, 0))
	r.ray.queue = append(r.ray.queue, hitAt(1, 0, 0), hitAt(0, 0, 1))
	require.NoError(t, r.ctrl.Tick(0.1))
	r.press.Move(physics.V2(5, 5))
	require.NoError(t, r.ctrl.Tick(0.1))

	target, _ := r.ctrl.Target()
	assert.Equal(t, physics.V3(0, 0, 1), target.Position)
	assert.Equal(t, uint64(2), target.Leg)
}

func TestDetachedPointerIsNotPressed(t *testing.T) {
	r := newRig(t)
	r.ray.fallback = hitAt(0, 0, 0)
	r.press.PressBegin(physics.V2(0, 0))
	r.press.Detach()
	require.NoError(t, r.ctrl.Tick(0.016))
	assert.Zero(t, r.ray.calls)
}

func TestEventsPublished(t *testing.T) {
	r := newRig(t)
	var types []string
	_, err := r.events.Subscribe(bus.AnyType, func(e bus.Event) error {
		types = append(types, e.Type())
		return errors.New("observer failure never breaks the frame")
	})
	require.NoError(t, err)

	r.tap(t, hitAt(0, 0, 0), 0.1)
	r.tap(t, hitAt(0, 0, 0.05), 0.1)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.ctrl.Tick(0.1))
	}
	assert.Equal(t, []string{EventSpawned, EventRetargeted, EventArrived}, types)
}

func TestCollaboratorFailuresPropagate(t *testing.T) {
	boom := errors.New("boom")

	t.Run("spawner", func(t *testing.T) {
		r := newRig(t)
		r.spawner.err = boom
		r.ray.queue = append(r.ray.queue, hitAt(0, 0, 0))
		r.press.PressBegin(physics.V2(0, 0))
		err := r.ctrl.Tick(0.016)
		assert.ErrorIs(t, err, ErrSpawnFailed)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, r.ctrl.Agent())
	})

	t.Run("missing capability", func(t *testing.T) {
		r := newRig(t)
		r.spawner.noCaps = true
		r.ray.queue = append(r.ray.queue, hitAt(0, 0, 0))
		r.press.PressBegin(physics.V2(0, 0))
		assert.ErrorIs(t, r.ctrl.Tick(0.016), ErrMissingCapability)
	})

	t.Run("missing capability is not retried", func(t *testing.T) {
		r := newRig(t)
		r.spawner.noCaps = true
		r.ray.fallback = hitAt(0, 0, 0)
		r.press.PressBegin(physics.V2(0, 0))
		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, r.ctrl.Tick(0.016), ErrMissingCapability)
		}
		assert.Len(t, r.spawner.spawned, 1)
		assert.Nil(t, r.ctrl.Agent())
	})

	t.Run("audio", func(t *testing.T) {
		r := newRig(t)
		r.tap(t, hitAt(0, 0, 0), 0.016)
		r.spawner.last().audio.err = boom
		r.ray.queue = append(r.ray.queue, hitAt(0, 0, 1))
		r.press.PressBegin(physics.V2(0, 0))
		err := r.ctrl.Tick(0.1)
		assert.ErrorIs(t, err, ErrCueFailed)
		assert.ErrorIs(t, err, boom)

		// the new leg still steps in the frame it was issued
		assert.Equal(t, MotionMoving, r.ctrl.Motion())
		assert.InDelta(t, DefaultWalkSpeed*0.1, r.ctrl.Agent().Position().Z, 1e-12)
	})

	t.Run("animation", func(t *testing.T) {
		r := newRig(t)
		r.tap(t, hitAt(0, 0, 0), 0.016)
		r.spawner.last().anim.err = boom
		r.ray.queue = append(r.ray.queue, hitAt(0, 0, 1))
		r.press.PressBegin(physics.V2(0, 0))
		assert.ErrorIs(t, r.ctrl.Tick(0.1), boom)
		assert.InDelta(t, DefaultWalkSpeed*0.1, r.ctrl.Agent().Position().Z, 1e-12)
	})
}

func TestNegativeDeltaRejected(t *testing.T) {
	r := newRig(t)
	assert.ErrorIs(t, r.ctrl.Tick(-0.1), ErrNegativeDelta)
}

func TestSetPlacedPrefab(t *testing.T) {
	r := newRig(t)
	assert.ErrorIs(t, r.ctrl.SetPlacedPrefab(""), ErrPrefabRequired)
	require.NoError(t, r.ctrl.SetPlacedPrefab("dog"))
	assert.Equal(t, "dog", r.ctrl.PlacedPrefab())

	r.tap(t, hitAt(0, 0, 0), 0.016)
	assert.Equal(t, []string{"dog"}, r.spawner.prefabs)
}

func TestSnapshot(t *testing.T) {
	r := newRig(t)
	snap := r.ctrl.Snapshot()
	assert.False(t, snap.HasAgent)
	assert.Nil(t, snap.Target)

	r.tap(t, hitAt(0, 0, 0), 0.1)
	snap = r.ctrl.Snapshot()
	assert.True(t, snap.HasAgent)
	assert.Equal(t, "agent-1", snap.AgentID)
	assert.Nil(t, snap.Target)

	r.tap(t, hitAt(0, 0, 1), 0.1)
	snap = r.ctrl.Snapshot()
	require.NotNil(t, snap.Target)
	assert.Equal(t, MotionMoving, snap.Motion)
	assert.Equal(t, uint64(1), snap.Target.Leg)
}
