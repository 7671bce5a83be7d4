package persistence

import (
	"context"
	"errors"

	"github.com/factoring/backend/internal/domain/ledger"
	"github.com/factoring/backend/internal/domain/shared"
	"github.com/factoring/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormValueLedger implements ValueLedger using GORM. Balances and allowances
// are fixed-point integers scaled to hundredths.
type GormValueLedger struct {
	db *gorm.DB
}

// NewGormValueLedger creates a new GormValueLedger
func NewGormValueLedger(db *gorm.DB) *GormValueLedger {
	return &GormValueLedger{db: db}
}

// Issue credits an account, creating it if needed
func (l *GormValueLedger) Issue(ctx context.Context, account uuid.UUID, amount int64) error {
	if account == uuid.Nil {
		return shared.ErrInvalidRecipient
	}

	var row models.LedgerAccountModel
	err := l.db.WithContext(ctx).
		Where("account_id = ?", account).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.LedgerAccountModel{AccountID: account, Balance: amount}
		row.ID = uuid.New()
		return l.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}

	return l.db.WithContext(ctx).
		Model(&models.LedgerAccountModel{}).
		Where("account_id = ?", account).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// BalanceOf returns the current balance of an account. Unknown accounts have
// a zero balance.
func (l *GormValueLedger) BalanceOf(ctx context.Context, account uuid.UUID) (int64, error) {
	var row models.LedgerAccountModel
	if err := l.db.WithContext(ctx).
		Where("account_id = ?", account).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Balance, nil
}

// HasAccount reports whether the identity holds a ledger account
func (l *GormValueLedger) HasAccount(ctx context.Context, account uuid.UUID) (bool, error) {
	var count int64
	if err := l.db.WithContext(ctx).
		Model(&models.LedgerAccountModel{}).
		Where("account_id = ?", account).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Approve sets the allowance a spender may transfer out of the owner's
// account. The allowance replaces any previous value.
func (l *GormValueLedger) Approve(ctx context.Context, owner, spender uuid.UUID, amount int64) error {
	var row models.LedgerAllowanceModel
	err := l.db.WithContext(ctx).
		Where("owner_id = ? AND spender_id = ?", owner, spender).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.LedgerAllowanceModel{OwnerID: owner, SpenderID: spender, Amount: amount}
		row.ID = uuid.New()
		return l.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}

	return l.db.WithContext(ctx).
		Model(&models.LedgerAllowanceModel{}).
		Where("owner_id = ? AND spender_id = ?", owner, spender).
		Update("amount", amount).Error
}

// Allowance returns the remaining allowance from owner to spender
func (l *GormValueLedger) Allowance(ctx context.Context, owner, spender uuid.UUID) (int64, error) {
	var row models.LedgerAllowanceModel
	if err := l.db.WithContext(ctx).
		Where("owner_id = ? AND spender_id = ?", owner, spender).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Amount, nil
}

// TransferFrom moves amount from one account to another on behalf of
// spender, decrementing the spender's allowance. Must run inside a
// transaction so the allowance and both balances move together.
func (l *GormValueLedger) TransferFrom(ctx context.Context, spender, from, to uuid.UUID, amount int64) error {
	allowance, err := l.Allowance(ctx, from, spender)
	if err != nil {
		return err
	}
	if allowance < amount {
		return shared.ErrInsufficientAllowance
	}

	var fromRow models.LedgerAccountModel
	if err := l.db.WithContext(ctx).
		Where("account_id = ?", from).
		First(&fromRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrInsufficientBalance
		}
		return err
	}
	if fromRow.Balance < amount {
		return shared.ErrInsufficientBalance
	}

	if err := l.db.WithContext(ctx).
		Model(&models.LedgerAllowanceModel{}).
		Where("owner_id = ? AND spender_id = ?", from, spender).
		Update("amount", gorm.Expr("amount - ?", amount)).Error; err != nil {
		return err
	}

	if err := l.db.WithContext(ctx).
		Model(&models.LedgerAccountModel{}).
		Where("account_id = ?", from).
		Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
		return err
	}

	return l.Issue(ctx, to, amount)
}

// Ensure GormValueLedger implements ValueLedger
var _ ledger.ValueLedger = (*GormValueLedger)(nil)
