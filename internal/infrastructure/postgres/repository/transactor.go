package repository

import (
	"context"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"gorm.io/gorm"
)

// Transactor runs each unit of work inside one database transaction. Rows read
// through GetBalance, GetPost and GetOpenDisputeByPostID stay locked until commit.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, domain.Repositories{
			Balances: NewDefaultBalanceRepository(tx),
			Posts:    NewDefaultPostRepository(tx),
			Disputes: NewDefaultDisputeRepository(tx),
		})
	})
}
