package di

import (
	"context"
	"fmt"

	"vertex/internal/adapter/discord"
	"vertex/internal/adapter/identity"
	"vertex/internal/adapter/leetcode"
	"vertex/internal/adapter/notify"
	"vertex/internal/adapter/storage/mongodb"
	"vertex/internal/adapter/storage/sqlite"
	"vertex/internal/adapter/telegram"
	"vertex/internal/config"
	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
	"vertex/internal/usecase"
)

// Store is what both storage backends provide.
type Store interface {
	ports.SheetRepository
	ports.UserRepository
	Close() error
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*mongodb.Store)(nil)
)

func provideStore(ctx context.Context, cfg *config.Config, logger ports.Logger) (Store, func(), error) {
	var (
		store Store
		err   error
	)
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err = sqlite.New(cfg.Storage.SQLitePath)
	case config.DriverMongo:
		store, err = mongodb.New(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	logger.Debug(ctx, "store opened", "driver", cfg.Storage.Driver)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error(context.Background(), "failed to close store", "error", err)
		}
	}
	return store, cleanup, nil
}

func provideSheetRepository(store Store) ports.SheetRepository {
	return store
}

func provideUserRepository(store Store) ports.UserRepository {
	return store
}

func provideIdentity(cfg *config.Config) ports.IdentityResolver {
	static := identity.NewStatic(model.Identity{
		ID:    cfg.User.ID,
		Email: cfg.User.Email,
		Name:  cfg.User.Name,
	})
	return identity.ContextResolver{Fallback: static}
}

func provideNotifier(cfg *config.Config, logger ports.Logger) ports.Notifier {
	var notifiers []ports.Notifier
	if cfg.Notify.DiscordWebhookURL != "" {
		notifiers = append(notifiers, discord.NewWebhook(cfg.Notify.DiscordWebhookURL, cfg.RequestTimeout, logger))
	}
	if cfg.Notify.TelegramBotToken != "" && cfg.Notify.TelegramChatID != 0 {
		notifiers = append(notifiers, telegram.New(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID, "", cfg.RequestTimeout, logger))
	}
	return notify.NewComposite(logger, notifiers...)
}

func provideCatalog(cfg *config.Config, logger ports.Logger) ports.ProblemCatalog {
	return leetcode.New(cfg.LeetCodeEndpoint, cfg.RequestTimeout, logger)
}

func provideDashboard(
	sheets ports.SheetRepository,
	resolver ports.IdentityResolver,
	cache ports.ViewCache,
	logger ports.Logger,
	cfg *config.Config,
) *usecase.DashboardService {
	return usecase.NewDashboardService(sheets, resolver, cache, logger, cfg.HeatmapWeeks)
}

func provideEnricher(sheets *usecase.SheetService, catalog ports.ProblemCatalog, logger ports.Logger, cfg *config.Config) *usecase.Enricher {
	return usecase.NewEnricher(sheets, catalog, logger, cfg.EnrichConcurrency)
}

func provideDigestConfig(cfg *config.Config) usecase.ProgressDigestConfig {
	return usecase.ProgressDigestConfig{UpNext: cfg.DigestUpNext}
}

func provideSchedule(cfg *config.Config) string {
	return cfg.ScheduleCron
}
