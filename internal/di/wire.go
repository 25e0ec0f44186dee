//go:build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"vertex/internal/adapter/logging"
	"vertex/internal/adapter/viewcache"
	"vertex/internal/app"
	"vertex/internal/config"
	"vertex/internal/domain/ports"
	"vertex/internal/usecase"
)

var baseSet = wire.NewSet(
	logging.New,
	wire.Bind(new(ports.Logger), new(*logging.ZapLogger)),
	provideStore,
	provideSheetRepository,
	provideUserRepository,
	provideIdentity,
	viewcache.New,
	wire.Bind(new(ports.ViewCache), new(*viewcache.Cache)),
	wire.Bind(new(ports.ViewInvalidator), new(*viewcache.Cache)),
	provideNotifier,
	provideDigestConfig,
	usecase.NewProgressDigest,
)

// InitializeApp wires the scheduled digest daemon.
func InitializeApp(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*app.App, func(), error) {
	wire.Build(
		baseSet,
		wire.Bind(new(app.Job), new(*usecase.ProgressDigest)),
		provideSchedule,
		app.New,
	)
	return nil, nil, nil
}

// InitializeTracker wires the use cases behind the command line.
func InitializeTracker(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*app.Tracker, func(), error) {
	wire.Build(
		baseSet,
		usecase.NewSheetService,
		provideDashboard,
		provideCatalog,
		provideEnricher,
		app.NewTracker,
	)
	return nil, nil, nil
}
