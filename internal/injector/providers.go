package injector

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"

	"github.com/zeusync/tapwalk/internal/audio"
	"github.com/zeusync/tapwalk/internal/config"
	"github.com/zeusync/tapwalk/internal/core/events/bus"
	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/scene"
	"github.com/zeusync/tapwalk/internal/host"
	"github.com/zeusync/tapwalk/internal/viewer"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEventBus,
	ProvideWorld,
	ProvideCatalog,
	ProvideAudio,
	ProvideSpawner,
	ProvidePressTracker,
	ProvideController,
	ProvideHub,
	ProvideHost,
)

func ProvideLogger(cfg config.Config) (log.Log, func(), error) {
	logger, err := log.NewWithOptions(cfg.Log.Options())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideEventBus() bus.EventBus { return bus.New() }

func ProvideWorld(cfg config.Config) (*scene.World, error) {
	return scene.NewWorld(cfg.Scene.Camera, cfg.Scene.Surfaces...)
}

func ProvideCatalog(cfg config.Config) (scene.Catalog, error) {
	return scene.NewCatalog(cfg.Scene.Prefabs...)
}

// ProvideAudio opens the speaker, or a silent cue when audio is off or no
// device is present.
func ProvideAudio(cfg config.Config, logger log.Log) (audio.Cue, func(), error) {
	cue, closeFn, err := audio.Open(cfg.Audio, logger.Named("audio"))
	if err != nil {
		return nil, nil, err
	}
	return cue, func() {
		if err := closeFn(); err != nil {
			logger.Warn("audio close failed", log.Err(err))
		}
	}, nil
}

func ProvideSpawner(catalog scene.Catalog, cue audio.Cue, logger log.Log) *scene.Spawner {
	return scene.NewSpawner(catalog, cue, logger)
}

func ProvidePressTracker() *placement.PressTracker { return placement.NewPressTracker() }

func ProvideController(
	cfg config.Config,
	press *placement.PressTracker,
	world *scene.World,
	spawner *scene.Spawner,
	events bus.EventBus,
	logger log.Log,
) (*placement.Controller, error) {
	return placement.NewController(cfg.Placement, press, scene.NewRaycaster(world), spawner,
		placement.WithLogger(logger.Named("placement")),
		placement.WithEventBus(events),
	)
}

// ProvideHub builds the viewer hub and subscribes it to the bus. The hub only
// listens on the network when App.Run is called with the viewer enabled.
func ProvideHub(cfg config.Config, events bus.EventBus, logger log.Log) (*viewer.Hub, func(), error) {
	hub := viewer.NewHub(cfg.Viewer, logger)
	sub, err := hub.Attach(events)
	if err != nil {
		return nil, nil, err
	}
	return hub, func() {
		_ = sub.Cancel()
		hub.Close()
	}, nil
}

func ProvideHost(
	cfg config.Config,
	screen tcell.Screen,
	world *scene.World,
	press *placement.PressTracker,
	ctrl *placement.Controller,
	hub *viewer.Hub,
	logger log.Log,
) *host.Host {
	opts := []host.Option{host.WithLogger(logger)}
	if cfg.Viewer.Enabled {
		opts = append(opts, host.WithPublisher(hub))
	}
	return host.New(cfg.Host, screen, world, press, ctrl, opts...)
}
