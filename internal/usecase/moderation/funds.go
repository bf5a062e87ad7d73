package moderation

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/ledger"
	balancedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/balance"
)

func toBalanceOutput(b domain.Balance) *balancedto.BalanceOutput {
	return &balancedto.BalanceOutput{
		ParticipantID: b.ParticipantID,
		Available:     b.Available,
		Locked:        b.Locked,
	}
}

func (uc *DefaultModerationUsecase) GetBalance(ctx context.Context, participantID string) (*balancedto.BalanceOutput, error) {
	var balance domain.Balance
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		b, err := ledger.New(repos.Balances, uc.clock).BalanceOf(ctx, participantID)
		balance = b
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", participantID, err)
	}
	return toBalanceOutput(balance), nil
}

// Deposit moves amount from the participant's external holdings into the
// available balance. The ledger credit is rolled back if the vault refuses.
func (uc *DefaultModerationUsecase) Deposit(ctx context.Context, participantID string, amount uint64) (*balancedto.BalanceOutput, error) {
	if err := domain.CheckParticipant(participantID); err != nil {
		return nil, fmt.Errorf("deposit for %s: %w", participantID, err)
	}
	var balance domain.Balance
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		l := ledger.New(repos.Balances, uc.clock)
		if err := l.Deposit(ctx, participantID, amount); err != nil {
			return err
		}
		if err := uc.vault.Deposit(ctx, participantID, amount); err != nil {
			return fmt.Errorf("vault deposit: %w", err)
		}
		b, err := l.BalanceOf(ctx, participantID)
		balance = b
		return err
	})
	if err != nil {
		uc.metrics.RecordError("deposit")
		return nil, fmt.Errorf("deposit %d for %s: %w", amount, participantID, err)
	}
	uc.logger.Info("deposit", "participant", participantID, "amount", amount)
	return toBalanceOutput(balance), nil
}

// Withdraw moves amount from the available balance to the participant's
// external holdings. Locked stake cannot be withdrawn.
func (uc *DefaultModerationUsecase) Withdraw(ctx context.Context, participantID string, amount uint64) (*balancedto.BalanceOutput, error) {
	if err := domain.CheckParticipant(participantID); err != nil {
		return nil, fmt.Errorf("withdraw for %s: %w", participantID, err)
	}
	var balance domain.Balance
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		l := ledger.New(repos.Balances, uc.clock)
		if err := l.Withdraw(ctx, participantID, amount); err != nil {
			return err
		}
		if err := uc.vault.Withdraw(ctx, participantID, amount); err != nil {
			return fmt.Errorf("vault withdraw: %w", err)
		}
		b, err := l.BalanceOf(ctx, participantID)
		balance = b
		return err
	})
	if err != nil {
		uc.metrics.RecordError("withdraw")
		return nil, fmt.Errorf("withdraw %d for %s: %w", amount, participantID, err)
	}
	uc.logger.Info("withdraw", "participant", participantID, "amount", amount)
	return toBalanceOutput(balance), nil
}
