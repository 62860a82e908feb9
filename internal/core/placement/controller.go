package placement

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/tapwalk/internal/core/events/bus"
	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Controller is the per-frame decision core. It owns the single agent handle
// and its current target, and drives a LocomotionStepper every frame.
type Controller struct {
	cfg     Config
	pointer PointerSource
	ray     SurfaceRaycaster
	spawner AgentSpawner
	stepper *LocomotionStepper
	events  bus.EventBus
	log     log.Log

	state State
	frame uint64
	leg   uint64

	// broken is set when a spawned agent turned out unusable. Placement stops
	// for the controller's lifetime.
	broken error
}

type Option func(*Controller)

// WithLogger sets the controller and stepper logger.
func WithLogger(l log.Log) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEventBus publishes spawn, retarget and arrival events to b.
func WithEventBus(b bus.EventBus) Option {
	return func(c *Controller) { c.events = b }
}

// NewController validates cfg and wires the collaborators. A missing prefab is
// reported here rather than on the first tap.
func NewController(cfg Config, pointer PointerSource, ray SurfaceRaycaster, spawner AgentSpawner, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pointer == nil || ray == nil || spawner == nil {
		return nil, ErrNilCollaborator
	}

	c := &Controller{
		cfg:     cfg,
		pointer: pointer,
		ray:     ray,
		spawner: spawner,
		log:     log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stepper = NewLocomotionStepper(cfg.WalkSpeed, cfg.ArrivalEpsilon, c.log)
	return c, nil
}

// Tick runs one frame: decide while pressed, then step locomotion
// unconditionally so a target issued this frame moves this frame.
func (c *Controller) Tick(dt float64) error {
	if dt < 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: %v", ErrNegativeDelta, dt)
	}
	c.frame++

	var decideErr error
	if c.pointer.IsPressed() {
		decideErr = c.decide()
	}

	arrived, stepErr := c.stepper.Step(&c.state, dt)
	if arrived {
		pos := c.state.Target.Position
		c.publish(EventArrived, ArrivedEvent{
			AgentID:  c.state.Agent.ID(),
			Position: pos,
			Leg:      c.state.Target.Leg,
			Frame:    c.frame,
		})
	}
	return errors.Join(decideErr, stepErr)
}

func (c *Controller) decide() error {
	screen, ok := c.pointer.Position()
	if !ok {
		return nil
	}

	hits := c.ray.Raycast(screen)
	if len(hits) == 0 {
		c.log.Debug("raycast miss", log.Float64("x", screen.X), log.Float64("y", screen.Y))
		return nil
	}

	// nearest first
	hit := hits[0]
	if c.broken != nil {
		return c.broken
	}
	if !c.state.HasAgent() {
		return c.spawn(hit)
	}
	return c.retarget(hit.Pose.Position)
}

func (c *Controller) spawn(hit Hit) error {
	pose := physics.NewPose(
		hit.Pose.Position,
		hit.Pose.Rotation.Mul(physics.Yaw(c.cfg.YawCorrection)).Normalize(),
	)

	agent, err := c.spawner.Spawn(c.cfg.PlacedPrefab, pose)
	if err != nil {
		return fmt.Errorf("%w: prefab %q: %w", ErrSpawnFailed, c.cfg.PlacedPrefab, err)
	}
	if agent == nil {
		return fmt.Errorf("%w: prefab %q returned no agent", ErrSpawnFailed, c.cfg.PlacedPrefab)
	}
	animation, audio := agent.Animation(), agent.Audio()
	if animation == nil || audio == nil {
		// the instance already exists; spawning again would orphan it
		c.broken = fmt.Errorf("%w: agent %s", ErrMissingCapability, agent.ID())
		c.log.Error("spawned agent unusable", log.String("agent", agent.ID()), log.Err(c.broken))
		return c.broken
	}

	c.state.Agent = agent
	c.state.animation = animation
	c.state.audio = audio

	c.log.Info("agent spawned",
		log.String("agent", agent.ID()),
		log.String("prefab", c.cfg.PlacedPrefab),
		log.String("surface", hit.SurfaceID),
		log.Vec3("position", pose.Position.X, pose.Position.Y, pose.Position.Z),
	)
	c.publish(EventSpawned, SpawnedEvent{
		AgentID:   agent.ID(),
		Pose:      pose,
		SurfaceID: hit.SurfaceID,
		Frame:     c.frame,
	})

	if err := audio.Play(c.cfg.AudioClip); err != nil {
		return fmt.Errorf("%w: audio clip %d: %w", ErrCueFailed, c.cfg.AudioClip, err)
	}
	return nil
}

func (c *Controller) retarget(p physics.Vec3) error {
	agent := c.state.Agent
	cur := agent.Position()

	// A tap on the current destination, or on an idle agent's own spot, keeps
	// the leg as is. Holding the pointer still would otherwise restart the
	// cues every frame.
	goal := cur
	if c.state.Motion == MotionMoving {
		goal = c.state.Target.Position
	}
	if p.Distance(goal) < c.cfg.ArrivalEpsilon {
		return nil
	}

	c.leg++
	target := Target{
		Position: p,
		Facing:   p.Sub(cur).Normalize(),
		Leg:      c.leg,
	}
	c.stepper.Begin(&c.state, target)

	c.log.Info("agent retargeted",
		log.String("agent", agent.ID()),
		log.Uint64("leg", target.Leg),
		log.Vec3("from", cur.X, cur.Y, cur.Z),
		log.Vec3("to", p.X, p.Y, p.Z),
	)
	c.publish(EventRetargeted, RetargetedEvent{AgentID: agent.ID(), Target: target, Frame: c.frame})

	if err := c.state.audio.Play(c.cfg.AudioClip); err != nil {
		return fmt.Errorf("%w: audio clip %d: %w", ErrCueFailed, c.cfg.AudioClip, err)
	}
	if err := c.state.animation.Play(AnimWalk); err != nil {
		return fmt.Errorf("%w: animation %q: %w", ErrCueFailed, AnimWalk, err)
	}
	return nil
}

// publish never fails the frame; observer errors are logged.
func (c *Controller) publish(typ string, data any) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(bus.NewEvent(typ, EventSource, data)); err != nil {
		c.log.Warn("event handler failed", log.String("event", typ), log.Err(err))
	}
}

// Agent returns the spawned agent, or nil before the first placement.
func (c *Controller) Agent() Agent { return c.state.Agent }

// Motion returns the current locomotion state.
func (c *Controller) Motion() MotionState { return c.state.Motion }

// Target returns the current leg target and whether an agent exists.
func (c *Controller) Target() (Target, bool) { return c.state.Target, c.state.HasAgent() }

// Frame returns the number of ticks processed.
func (c *Controller) Frame() uint64 { return c.frame }

// PlacedPrefab returns the prefab spawned on the first hit.
func (c *Controller) PlacedPrefab() string { return c.cfg.PlacedPrefab }

// SetPlacedPrefab changes the prefab used for a future spawn. It has no effect
// on an agent that already exists.
func (c *Controller) SetPlacedPrefab(prefab string) error {
	if prefab == "" {
		return ErrPrefabRequired
	}
	c.cfg.PlacedPrefab = prefab
	return nil
}

// Snapshot copies the frame state for renderers and observers.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:   c.frame,
		Pressed: c.pointer.IsPressed(),
		Motion:  c.state.Motion,
	}
	if agent := c.state.Agent; agent != nil {
		target := c.state.Target
		snap.HasAgent = true
		snap.AgentID = agent.ID()
		snap.Position = agent.Position()
		snap.Rotation = agent.Rotation()
		if target.Leg > 0 {
			snap.Target = &target
		}
	}
	return snap
}
