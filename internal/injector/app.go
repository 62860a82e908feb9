package injector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/tapwalk/internal/config"
	"github.com/zeusync/tapwalk/internal/core/events/bus"
	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/host"
	"github.com/zeusync/tapwalk/internal/viewer"
)

// App is the wired application.
type App struct {
	Config     config.Config
	Log        log.Log
	Events     bus.EventBus
	Controller *placement.Controller
	Hub        *viewer.Hub
	Host       *host.Host
}

// Run drives the frame loop and, when enabled, the viewer server. The first
// to stop takes the other one down with it.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return a.Host.Run(ctx)
	})
	if a.Config.Viewer.Enabled {
		g.Go(func() error {
			defer cancel()
			return a.Hub.Run(ctx)
		})
	}

	err := g.Wait()
	a.Log.Info("app stopped", log.Uint64("frames", a.Controller.Frame()))
	return err
}
