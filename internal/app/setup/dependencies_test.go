package setup

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/LavaJover/shvark-moderation-service/internal/config"
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaultConfig(t *testing.T) *config.ModerationConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: test\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestInitializeDependencies_DefaultConfigCanDeposit(t *testing.T) {
	cfg := loadDefaultConfig(t)
	deps, err := InitializeDependencies(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, deps.Close()) })

	assert.Nil(t, deps.DB)
	assert.Nil(t, deps.Publisher)
	assert.Nil(t, deps.Subscriber)

	uc := InitializeUseCases(deps).ModerationUsecase
	ctx := context.Background()

	balance, err := uc.Deposit(ctx, "alice", cfg.Moderation.OpenDisputeStake)
	require.NoError(t, err)
	assert.Equal(t, cfg.Moderation.OpenDisputeStake, balance.Available)

	_, err = uc.Deposit(ctx, "alice", cfg.WalletService.InitialHoldings)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	balance, err = uc.Withdraw(ctx, "alice", cfg.Moderation.OpenDisputeStake)
	require.NoError(t, err)
	assert.Zero(t, balance.Available)
}
