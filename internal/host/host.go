package host

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/scene"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Publisher receives the snapshot of every rendered frame.
type Publisher interface {
	Publish(snap placement.Snapshot)
}

// Host runs the frame loop on a terminal: mouse input feeds the press
// tracker, every tick drives the controller and redraws the screen.
type Host struct {
	cfg    Config
	screen tcell.Screen
	world  *scene.World
	ray    *scene.Raycaster
	press  *placement.PressTracker
	ctrl   *placement.Controller
	pub    Publisher
	log    log.Log
	now    func() time.Time

	last time.Time
	// down is the physical button state. A press and release that both land
	// between two frames keep the tracker pressed for one frame, so quick
	// clicks are not lost.
	down           bool
	fresh          bool
	releasePending bool
}

type Option func(*Host)

func WithLogger(l log.Log) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithPublisher streams frame snapshots to p.
func WithPublisher(p Publisher) Option {
	return func(h *Host) { h.pub = p }
}

// WithClock replaces time.Now as the frame clock.
func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

func New(cfg Config, screen tcell.Screen, world *scene.World, press *placement.PressTracker, ctrl *placement.Controller, opts ...Option) *Host {
	h := &Host{
		cfg:    cfg,
		screen: screen,
		world:  world,
		ray:    scene.NewRaycaster(world),
		press:  press,
		ctrl:   ctrl,
		log:    log.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.Named("host")
	h.last = h.now()
	return h
}

// Run drives the loop until ctx is cancelled, the user quits, or a frame
// fails. The screen must already be initialized; Run does not finalize it.
func (h *Host) Run(ctx context.Context) error {
	if err := h.cfg.Validate(); err != nil {
		return err
	}
	h.screen.EnableMouse()
	h.screen.EnableFocus()
	h.screen.HideCursor()
	h.resize()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go h.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(h.cfg.interval())
	defer ticker.Stop()
	h.last = h.now()

	h.log.Info("frame loop started", log.Int("fps", h.cfg.FPS))
	for {
		select {
		case <-ctx.Done():
			h.log.Info("frame loop stopped", log.String("reason", "context"))
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.HandleEvent(ev) {
				h.log.Info("frame loop stopped", log.String("reason", "quit"))
				return nil
			}
		case <-ticker.C:
			if err := h.Frame(); err != nil {
				h.log.Error("frame failed", log.Uint64("frame", h.ctrl.Frame()), log.Err(err))
				return err
			}
		}
	}
}

// HandleEvent applies one terminal event and reports whether the loop
// should continue.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' || ev.Rune() == 'Q' {
				return false
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		// aim at the cell center
		p := physics.V2(float64(x)+0.5, float64(y)+0.5)
		if ev.Buttons()&tcell.Button1 != 0 {
			if !h.down {
				h.down, h.fresh, h.releasePending = true, true, false
				h.press.PressBegin(p)
			} else {
				h.press.Move(p)
			}
			return true
		}
		h.press.Move(p)
		if h.down {
			h.down = false
			if h.fresh {
				h.releasePending = true
			} else {
				h.press.PressEnd()
			}
		}

	case *tcell.EventFocus:
		if ev.Focused {
			h.press.Attach()
		} else {
			h.down, h.fresh, h.releasePending = false, false, false
			h.press.Detach()
		}

	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	}
	return true
}

// Frame advances the simulation by the clamped time since the previous
// frame, publishes the snapshot and redraws.
func (h *Host) Frame() error {
	now := h.now()
	dt := now.Sub(h.last)
	h.last = now
	if dt < 0 {
		dt = 0
	}
	if dt > h.cfg.MaxDelta {
		h.log.Debug("frame delta clamped", log.Duration("delta", dt))
		dt = h.cfg.MaxDelta
	}

	err := h.ctrl.Tick(dt.Seconds())

	h.fresh = false
	if h.releasePending {
		h.releasePending = false
		h.press.PressEnd()
	}
	if err != nil {
		return err
	}

	snap := h.ctrl.Snapshot()
	if h.pub != nil {
		h.pub.Publish(snap)
	}
	h.draw(snap)
	return nil
}

// resize keeps the bottom row for the status line.
func (h *Host) resize() {
	w, rows := h.screen.Size()
	h.world.SetViewport(w, max(rows-1, 1))
}
