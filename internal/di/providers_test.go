package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vertex/internal/adapter/logging"
	"vertex/internal/adapter/notify"
	"vertex/internal/config"
	"vertex/internal/usecase"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "vertex.db")
	cfg.User.ID = "user_1"
	return cfg
}

func TestInitializeTrackerSQLite(t *testing.T) {
	ctx := context.Background()
	tracker, cleanup, err := InitializeTracker(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	res := tracker.Sheets.CreateSheet(ctx, usecase.CreateSheetInput{Title: "Blind 75"})
	require.True(t, res.Success, res.Error)

	overview, err := tracker.Dashboard.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, overview.Sheets, 1)
	assert.Equal(t, "Blind 75", overview.Sheets[0].Title)
}

func TestInitializeAppRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "postgres"

	_, _, err := InitializeApp(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestProvideNotifier(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.New(nil)

	n := provideNotifier(cfg, logger).(*notify.Composite)
	assert.Equal(t, 0, n.Len())

	cfg.Notify.DiscordWebhookURL = "https://discord.example/hook"
	cfg.Notify.TelegramBotToken = "token"
	cfg.Notify.TelegramChatID = 7
	n = provideNotifier(cfg, logger).(*notify.Composite)
	assert.Equal(t, 2, n.Len())
}

func TestProvideIdentityUsesConfiguredUser(t *testing.T) {
	cfg := testConfig(t)
	cfg.User.Email = "u@example.com"

	principal, ok := provideIdentity(cfg).Resolve(context.Background())
	require.True(t, ok)
	assert.Equal(t, "user_1", principal.ID)
	assert.Equal(t, "u@example.com", principal.Email)
}
