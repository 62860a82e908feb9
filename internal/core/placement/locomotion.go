package placement

import (
	"fmt"

	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// LocomotionStepper advances the owned agent toward its target at a constant
// speed and detects arrival.
type LocomotionStepper struct {
	walkSpeed float64
	epsilon   float64
	log       log.Log
}

// NewLocomotionStepper builds a stepper. Values are expected to be validated
// through Config.Validate.
func NewLocomotionStepper(walkSpeed, epsilon float64, logger log.Log) *LocomotionStepper {
	if logger == nil {
		logger = log.Nop()
	}
	return &LocomotionStepper{walkSpeed: walkSpeed, epsilon: epsilon, log: logger}
}

// Begin starts a new leg toward target.
func (l *LocomotionStepper) Begin(s *State, target Target) {
	s.Target = target
	s.Motion = MotionMoving
}

// Step integrates one frame of motion. It reports true on the frame the agent
// arrives. Idle state, or no agent, is a no-op.
func (l *LocomotionStepper) Step(s *State, dt float64) (bool, error) {
	if s.Motion != MotionMoving || s.Agent == nil {
		return false, nil
	}

	cur := s.Agent.Position()
	goal := s.Target.Position
	if cur.Distance(goal) < l.epsilon {
		s.Agent.SetPosition(goal)
		s.Motion = MotionIdle
		s.Target.Arrived = true
		l.log.Info("agent arrived",
			log.String("agent", s.Agent.ID()),
			log.Uint64("leg", s.Target.Leg),
			log.Vec3("position", goal.X, goal.Y, goal.Z),
		)
		if err := s.animation.Play(AnimIdle); err != nil {
			return true, fmt.Errorf("%w: animation %q: %w", ErrCueFailed, AnimIdle, err)
		}
		return true, nil
	}

	if !s.Target.Facing.IsZero() {
		s.Agent.SetRotation(physics.LookRotation(s.Target.Facing, physics.Up))
	}

	next := physics.MoveTowards(cur, goal, l.walkSpeed*dt)
	if next.Distance(goal) < l.epsilon {
		next = goal
	}
	s.Agent.SetPosition(next)
	return false, nil
}
