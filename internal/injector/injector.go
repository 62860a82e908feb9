//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"

	"github.com/zeusync/tapwalk/internal/config"
)

// InitializeApp wires the application for cfg on screen. The cleanup func
// releases the audio device, detaches the viewer and flushes the logger.
func InitializeApp(cfg config.Config, screen tcell.Screen) (*App, func(), error) {
	wire.Build(ProviderSet, wire.Struct(new(App), "*"))
	return nil, nil, nil
}
