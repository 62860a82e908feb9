package placement

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

func newSteppingState(start physics.Vec3) (*State, *fakeAgent) {
	agent := &fakeAgent{
		id:    "walker",
		pos:   start,
		rot:   physics.Identity(),
		anim:  &recordingAnimation{},
		audio: &recordingAudio{},
	}
	return &State{Agent: agent, animation: agent.anim, audio: agent.audio}, agent
}

func TestStepIdleIsNoop(t *testing.T) {
	s, agent := newSteppingState(physics.V3(1, 2, 3))
	l := NewLocomotionStepper(0.2, 1e-3, nil)

	arrived, err := l.Step(s, 1)
	require.NoError(t, err)
	assert.False(t, arrived)
	assert.Equal(t, physics.V3(1, 2, 3), agent.pos)
	assert.Zero(t, agent.rotations)

	arrived, err = l.Step(&State{Motion: MotionMoving}, 1)
	require.NoError(t, err)
	assert.False(t, arrived)
}

// walkSpeed 0.2 at dt 0.1 covers 0.02 per frame, so a 0.1 leg takes five
// moving frames and arrives on the sixth.
func TestStepConcreteScenario(t *testing.T) {
	s, agent := newSteppingState(physics.V3(0, 0, 0))
	l := NewLocomotionStepper(0.2, DefaultArrivalEpsilon, nil)
	target := physics.V3(0, 0, 0.1)
	l.Begin(s, Target{Position: target, Facing: physics.Forward, Leg: 1})

	moving := 0
	arrivals := 0
	for frame := 0; frame < 20; frame++ {
		arrived, err := l.Step(s, 0.1)
		require.NoError(t, err)
		if arrived {
			arrivals++
			assert.Equal(t, 5, moving, "arrival frame")
			assert.Equal(t, target, agent.pos)
			assert.Equal(t, MotionIdle, s.Motion)
			assert.True(t, s.Target.Arrived)
			continue
		}
		if s.Motion == MotionMoving {
			moving++
		}
	}

	assert.Equal(t, 5, moving)
	assert.Equal(t, 1, arrivals)
	assert.Equal(t, 1, agent.anim.count(AnimIdle))
	assert.Equal(t, target, agent.pos)
}

func TestStepNeverOvershoots(t *testing.T) {
	s, agent := newSteppingState(physics.V3(0, 0, 0))
	l := NewLocomotionStepper(10, 1e-3, nil)
	target := physics.V3(0.5, 0, 0)
	l.Begin(s, Target{Position: target, Facing: physics.Right})

	_, err := l.Step(s, 1)
	require.NoError(t, err)
	assert.Equal(t, target, agent.pos)
	assert.Equal(t, MotionMoving, s.Motion)

	arrived, err := l.Step(s, 1)
	require.NoError(t, err)
	assert.True(t, arrived)
}

func TestStepArrivalConvergence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		start := physics.V3(rng.Float64()*10-5, rng.Float64(), rng.Float64()*10-5)
		target := physics.V3(rng.Float64()*10-5, rng.Float64(), rng.Float64()*10-5)
		speed := 0.05 + rng.Float64()*2
		dt := 0.001 + rng.Float64()*0.05

		s, agent := newSteppingState(start)
		l := NewLocomotionStepper(speed, DefaultArrivalEpsilon, nil)
		l.Begin(s, Target{Position: target, Facing: target.Sub(start).Normalize()})

		limit := int(start.Distance(target)/(speed*dt)) + 3
		arrived := false
		for frame := 0; frame < limit && !arrived; frame++ {
			var err error
			arrived, err = l.Step(s, dt)
			require.NoError(t, err)
		}
		require.True(t, arrived, "case %d did not arrive within %d frames", i, limit)
		require.Equal(t, target, agent.pos)
		require.Equal(t, MotionIdle, s.Motion)
	}
}

func TestStepSnapsFacingOnce(t *testing.T) {
	s, agent := newSteppingState(physics.V3(0, 0, 0))
	l := NewLocomotionStepper(0.2, 1e-3, nil)
	facing := physics.V3(-1, 0, 0)
	l.Begin(s, Target{Position: physics.V3(-1, 0, 0), Facing: facing})

	_, err := l.Step(s, 0.016)
	require.NoError(t, err)
	assert.True(t, agent.rot.Forward().ApproxEqual(facing, 1e-9))
}

func TestStepZeroFacingKeepsRotation(t *testing.T) {
	s, agent := newSteppingState(physics.V3(0, 0, 0))
	agent.rot = physics.Yaw(33)
	l := NewLocomotionStepper(0.2, 1e-3, nil)
	l.Begin(s, Target{Position: physics.V3(0, 0, 0.0005)})

	arrived, err := l.Step(s, 0.016)
	require.NoError(t, err)
	assert.True(t, arrived)
	assert.Equal(t, physics.Yaw(33), agent.rot)
}

func TestSnapshotMotionDecodes(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"frame":3,"motion":"moving"}`), &snap))
	assert.Equal(t, MotionMoving, snap.Motion)

	require.NoError(t, json.Unmarshal([]byte(`{"motion":"idle"}`), &snap))
	assert.Equal(t, MotionIdle, snap.Motion)

	assert.Error(t, json.Unmarshal([]byte(`{"motion":"running"}`), &snap))
}
